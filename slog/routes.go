package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/llmready"
)

// Ensure LoggingRouteSource implements llmready.RouteSource.
var _ llmready.RouteSource = (*LoggingRouteSource)(nil)

// LoggingRouteSource wraps a RouteSource with logging.
type LoggingRouteSource struct {
	next   llmready.RouteSource
	logger *slog.Logger
}

// NewLoggingRouteSource creates a new LoggingRouteSource.
func NewLoggingRouteSource(next llmready.RouteSource, logger *slog.Logger) *LoggingRouteSource {
	return &LoggingRouteSource{next: next, logger: logger}
}

// Routes delegates to the wrapped source and logs the operation.
func (s *LoggingRouteSource) Routes(ctx context.Context) (routes []string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("route discovery",
			"count", len(routes),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Routes(ctx)
}
