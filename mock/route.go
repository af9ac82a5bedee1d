package mock

import (
	"context"

	"github.com/fwojciec/llmready"
)

var (
	_ llmready.RouteFilter = (*RouteFilter)(nil)
	_ llmready.RouteSource = (*RouteSource)(nil)
)

// RouteFilter is a mock implementation of llmready.RouteFilter.
type RouteFilter struct {
	ShouldExcludeFn func(path string) bool
}

func (f *RouteFilter) ShouldExclude(path string) bool {
	return f.ShouldExcludeFn(path)
}

// RouteSource is a mock implementation of llmready.RouteSource.
type RouteSource struct {
	RoutesFn func(ctx context.Context) ([]string, error)
}

func (s *RouteSource) Routes(ctx context.Context) ([]string, error) {
	return s.RoutesFn(ctx)
}
