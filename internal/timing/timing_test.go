package timing

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestTimerLogsElapsed(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	clock := time.Unix(100, 0)
	now := func() time.Time { return clock }

	timer := start(context.Background(), logrus.NewEntry(logger), "search", now)
	clock = clock.Add(1500 * time.Microsecond)
	elapsed := timer.End()

	assert.Equal(t, 1500*time.Microsecond, elapsed)
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "time elapsed", entry.Message)
	assert.Equal(t, "search", entry.Data["op"])
	assert.Equal(t, elapsed, entry.Data["elapsed"])
}

func TestTimerContextCarriesSpan(t *testing.T) {
	timer := Start(context.Background(), nil, "plan")
	defer timer.End()

	assert.Equal(t, timer.span.SpanContext(), trace.SpanFromContext(timer.Context()).SpanContext())
}
