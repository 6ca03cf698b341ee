// Package timing brackets a piece of work with a duration log line and a
// trace span.
package timing

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/pdrpinto/go-astar"

// Timer measures one named piece of work. The usual form is
//
//	t := timing.Start(ctx, log, "grid.FindPath")
//	defer t.End()
type Timer struct {
	ctx   context.Context
	log   *logrus.Entry
	name  string
	start time.Time
	span  trace.Span
	now   func() time.Time
}

// Start opens a span named name on the global tracer and starts the clock.
func Start(ctx context.Context, log *logrus.Entry, name string) *Timer {
	return start(ctx, log, name, time.Now)
}

func start(ctx context.Context, log *logrus.Entry, name string, now func() time.Time) *Timer {
	ctx, span := otel.Tracer(tracerName).Start(ctx, name)
	return &Timer{ctx: ctx, log: log, name: name, start: now(), span: span, now: now}
}

// Context returns the context carrying the timer's span.
func (t *Timer) Context() context.Context { return t.ctx }

// End closes the span and logs the elapsed time at debug level. It
// returns the elapsed time.
func (t *Timer) End() time.Duration {
	elapsed := t.now().Sub(t.start)
	t.span.SetAttributes(attribute.Int64("elapsed_us", elapsed.Microseconds()))
	t.span.End()
	if t.log != nil {
		t.log.WithFields(logrus.Fields{"op": t.name, "elapsed": elapsed}).Debug("time elapsed")
	}
	return elapsed
}
