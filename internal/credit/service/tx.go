package service

import (
	"context"
	"sync"
	"time"

	dErrors "credito/pkg/domain-errors"
)

// StoreTx provides a transactional boundary for credit mutations.
// Implementations may wrap a database transaction or, in-memory, a coarse lock.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(store Store) error) error
}

// defaultTxTimeout bounds a transaction when the caller set no deadline.
const defaultTxTimeout = 5 * time.Second

type inMemoryTx struct {
	mu      sync.Mutex
	store   Store
	timeout time.Duration
}

// NewInMemoryTx serialises every transaction behind one mutex.
func NewInMemoryTx(store Store) StoreTx {
	return &inMemoryTx{store: store}
}

func (t *inMemoryTx) RunInTx(ctx context.Context, fn func(store Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	return fn(t.store)
}
