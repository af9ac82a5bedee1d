package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/llmready"
)

// Run executes the convert command.
func (c *ConvertCmd) Run(deps *Dependencies) error {
	url, resp, err := c.load(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", llmready.ErrorMessage(err))
		return err
	}

	md := deps.Pages.Convert(deps.Ctx, url, resp)
	_, _ = io.WriteString(deps.Stdout, md)

	if !resp.OK() {
		return llmready.Errorf(llmready.EINVALID, "HTTP %d for %s", resp.StatusCode, url)
	}
	return nil
}

// load returns the page URL and response for the command's source, which
// is fetched when it is an http(s) URL and read from disk otherwise.
func (c *ConvertCmd) load(deps *Dependencies) (string, *llmready.Response, error) {
	if isWebURL(c.Source) {
		resp, err := deps.Fetcher.Fetch(deps.Ctx, c.Source)
		if err != nil {
			return "", nil, err
		}
		return c.Source, resp, nil
	}

	body, err := os.ReadFile(c.Source)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, llmready.Errorf(llmready.ENOTFOUND, "file not found: %s", c.Source)
		}
		return "", nil, err
	}

	url := c.URL
	if url == "" {
		abs, err := filepath.Abs(c.Source)
		if err != nil {
			return "", nil, err
		}
		url = "file://" + filepath.ToSlash(abs)
	}
	return url, &llmready.Response{
		StatusCode:  http.StatusOK,
		ContentType: "text/html",
		Body:        string(body),
	}, nil
}

func isWebURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
