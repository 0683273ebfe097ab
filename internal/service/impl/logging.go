package impl

import (
	"context"
	"log/slog"

	"rh-platform/internal/observability/middleware"
)

// logFor returns the default logger tagged with the request and trace ids on ctx.
func logFor(ctx context.Context) *slog.Logger {
	return slog.Default().With(
		"request_id", middleware.RequestIDFromContext(ctx),
		"trace_id", middleware.TraceIDFromContext(ctx),
	)
}
