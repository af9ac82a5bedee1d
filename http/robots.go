package http

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"github.com/fwojciec/llmready"
	"github.com/temoto/robotstxt"
)

// Ensure RobotsChecker implements llmready.RobotsPolicy.
var _ llmready.RobotsPolicy = (*RobotsChecker)(nil)

// RobotsChecker applies each host's robots.txt rules for one user agent.
// Rules are fetched once per host. A robots.txt that cannot be fetched or
// parsed allows everything.
type RobotsChecker struct {
	client    *http.Client
	userAgent string

	mu     sync.Mutex
	groups map[string]*robotstxt.Group
}

// NewRobotsChecker creates a RobotsChecker. If client is nil,
// http.DefaultClient is used.
func NewRobotsChecker(client *http.Client, userAgent string) *RobotsChecker {
	if client == nil {
		client = http.DefaultClient
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &RobotsChecker{
		client:    client,
		userAgent: userAgent,
		groups:    make(map[string]*robotstxt.Group),
	}
}

// Allowed reports whether rawURL may be fetched.
func (c *RobotsChecker) Allowed(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}

	group := c.group(ctx, u)
	if group == nil {
		return true
	}
	return group.Test(u.EscapedPath())
}

func (c *RobotsChecker) group(ctx context.Context, u *url.URL) *robotstxt.Group {
	c.mu.Lock()
	defer c.mu.Unlock()

	if g, ok := c.groups[u.Host]; ok {
		return g
	}

	robotsURL := u.Scheme + "://" + u.Host + "/robots.txt"
	var g *robotstxt.Group
	if data, err := fetchRobots(ctx, c.client, robotsURL); err == nil {
		g = data.FindGroup(c.userAgent)
	}
	// Context failures are not remembered so a later call can retry.
	if ctx.Err() == nil {
		c.groups[u.Host] = g
	}
	return g
}

// fetchRobots downloads and parses a robots.txt file. Status codes are
// interpreted by robotstxt: 4xx allows all, 5xx disallows all.
func fetchRobots(ctx context.Context, client *http.Client, robotsURL string) (*robotstxt.RobotsData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return robotstxt.FromResponse(resp)
}
