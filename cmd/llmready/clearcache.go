package main

import (
	"fmt"

	"github.com/fwojciec/llmready"
)

// Run executes the clear-cache command.
func (c *ClearCacheCmd) Run(deps *Dependencies) error {
	switch {
	case c.URL != "":
		if err := deps.Service.ClearCache(deps.Ctx, c.URL); err != nil {
			return fail(deps, err)
		}
		fmt.Fprintf(deps.Stdout, "Cleared cache for %s\n", c.URL)
	case c.Sitemap:
		if err := deps.Service.ClearSitemapCache(deps.Ctx); err != nil {
			return fail(deps, err)
		}
		fmt.Fprintln(deps.Stdout, "Cleared llms.txt cache")
	case c.Expired:
		if deps.Expired == nil {
			fmt.Fprintln(deps.Stdout, "Removed 0 expired entries")
			return nil
		}
		n, err := deps.Expired.DeleteExpired(deps.Ctx)
		if err != nil {
			return fail(deps, err)
		}
		fmt.Fprintf(deps.Stdout, "Removed %d expired entries\n", n)
	default:
		n, err := deps.Service.ClearAllCache(deps.Ctx)
		if err != nil {
			return fail(deps, err)
		}
		fmt.Fprintf(deps.Stdout, "Cleared %d cache entries\n", n)
	}
	return nil
}

// fail reports err on stderr and returns it.
func fail(deps *Dependencies, err error) error {
	fmt.Fprintf(deps.Stderr, "error: %s\n", llmready.ErrorMessage(err))
	return err
}
