package mock

import (
	"context"

	"github.com/fwojciec/llmready"
)

// Compile-time interface verification.
var (
	_ llmready.Fetcher       = (*Fetcher)(nil)
	_ llmready.PageStore     = (*PageStore)(nil)
	_ llmready.DomainLimiter = (*DomainLimiter)(nil)
	_ llmready.RobotsPolicy  = (*RobotsPolicy)(nil)
)

// Fetcher is a mock implementation of llmready.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*llmready.Response, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*llmready.Response, error) {
	return f.FetchFn(ctx, url)
}

// PageStore is a mock implementation of llmready.PageStore.
type PageStore struct {
	SaveFn     func(ctx context.Context, page *llmready.Page) error
	SaveFileFn func(ctx context.Context, name, content string) error
	CommitFn   func() error
	AbortFn    func() error
}

func (s *PageStore) Save(ctx context.Context, page *llmready.Page) error {
	return s.SaveFn(ctx, page)
}

func (s *PageStore) SaveFile(ctx context.Context, name, content string) error {
	return s.SaveFileFn(ctx, name, content)
}

func (s *PageStore) Commit() error {
	return s.CommitFn()
}

func (s *PageStore) Abort() error {
	return s.AbortFn()
}

// DomainLimiter is a mock implementation of llmready.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}

// RobotsPolicy is a mock implementation of llmready.RobotsPolicy.
type RobotsPolicy struct {
	AllowedFn func(ctx context.Context, url string) bool
}

func (p *RobotsPolicy) Allowed(ctx context.Context, url string) bool {
	return p.AllowedFn(ctx, url)
}
