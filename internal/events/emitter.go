package events

import (
	"context"
	"log/slog"
	"reflect"
)

// Emitter publishes domain events. Delivery is best effort.
type Emitter interface {
	Emit(ctx context.Context, event any)
}

// LogEmitter writes each event as a structured log line.
type LogEmitter struct {
	Logger *slog.Logger
}

func (e LogEmitter) Emit(ctx context.Context, event any) {
	logger := e.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "domain event", "event", Name(event), "payload", event)
}

// Name is the Go type name of event, e.g. "LeadSubmitted".
func Name(event any) string {
	t := reflect.TypeOf(event)
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

type Nop struct{}

func (Nop) Emit(context.Context, any) {}

// Recorder keeps emitted events in memory.
type Recorder struct {
	Events []any
}

func (r *Recorder) Emit(_ context.Context, event any) { r.Events = append(r.Events, event) }
