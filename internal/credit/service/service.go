package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	creditmetrics "credito/internal/credit/metrics"
	"credito/internal/credit/models"
	"credito/internal/events"
	"credito/pkg/requestcontext"
)

// Store is the persistence contract for credits. Point lookups return
// sentinel.ErrNotFound; a duplicate constituted number on Save returns
// sentinel.ErrAlreadyUsed.
type Store interface {
	FindByID(ctx context.Context, id int64) (*models.Credit, error)
	FindByIDForUpdate(ctx context.Context, id int64) (*models.Credit, error)
	FindByConstitutedNumber(ctx context.Context, number string) (*models.Credit, error)
	FindByNfseNumber(ctx context.Context, nfse string) (*models.Credit, error)
	ListByStatus(ctx context.Context, status models.Status, req models.PageRequest) (models.Page[*models.Credit], error)
	ListByType(ctx context.Context, creditType models.CreditType, req models.PageRequest) (models.Page[*models.Credit], error)
	ListByCompanyTaxID(ctx context.Context, taxID string) ([]*models.Credit, error)
	ListByConstitutionDateRange(ctx context.Context, start, end models.Date) ([]*models.Credit, error)
	ListByCompanyAndStatus(ctx context.Context, taxID string, status models.Status, req models.PageRequest) (models.Page[*models.Credit], error)
	SearchByTerm(ctx context.Context, term string, req models.PageRequest) (models.Page[*models.Credit], error)
	ListAll(ctx context.Context, req models.PageRequest) (models.Page[*models.Credit], error)
	Save(ctx context.Context, c *models.Credit) error
	DeleteByID(ctx context.Context, id int64) error
}

// Publisher sends lifecycle events. Errors are reported, never fatal.
type Publisher interface {
	Publish(ctx context.Context, topic string, ev events.Event) error
}

// Service orchestrates credit lifecycle management.
type Service struct {
	store     Store
	tx        StoreTx
	publisher Publisher
	logger    *slog.Logger
	metrics   *creditmetrics.Metrics
	clock     func() time.Time
	tracer    trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *creditmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock fixes the time source. Without it the request-scoped time from
// the context is used.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// New constructs a Service. A nil tx falls back to a coarse in-process lock
// around store, which is only correct for the in-memory store.
func New(store Store, tx StoreTx, publisher Publisher, opts ...Option) *Service {
	s := &Service{
		store:     store,
		tx:        tx,
		publisher: publisher,
		logger:    slog.Default(),
		tracer:    otel.Tracer("credito/internal/credit/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		s.tx = NewInMemoryTx(store)
	}
	return s
}

func (s *Service) now(ctx context.Context) time.Time {
	if s.clock != nil {
		return s.clock().UTC()
	}
	return requestcontext.Now(ctx).UTC()
}
