package logpub

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credito/internal/events"
)

func TestPublisherLogsEvent(t *testing.T) {
	var buf bytes.Buffer
	p := New(slog.New(slog.NewTextHandler(&buf, nil)), nil)

	require.NoError(t, p.Publish(context.Background(), events.TopicCreditEvents, events.Deleted(5, "CR005")))

	out := buf.String()
	assert.Contains(t, out, "topic=credit-events")
	assert.Contains(t, out, "key=5")
	assert.Contains(t, out, "value=DELETED:5:CR005")
}
