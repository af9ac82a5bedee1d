package llmready

import (
	"net/http"
	"strconv"
	"time"

	"golang.org/x/net/html"
)

// Field is a single frontmatter key/value pair. Value is a scalar.
type Field struct {
	Key   string
	Value any
}

// PageMetadata holds metadata read from a parsed document.
type PageMetadata struct {
	Title       string
	Description string
}

// MetadataReader reads page metadata from a parsed document.
type MetadataReader interface {
	ReadMetadata(doc *html.Node) PageMetadata
}

// FrontmatterEncoder serializes fields into a fenced frontmatter block.
type FrontmatterEncoder interface {
	// Encode returns "" for no fields, otherwise "---\n<block>---\n\n".
	Encode(fields []Field) (string, error)
}

// FrontmatterFields assembles the ordered frontmatter fields for a page.
// Empty values are skipped.
func FrontmatterFields(meta PageMetadata, url string, now time.Time, opts FrontmatterOptions) []Field {
	var fields []Field
	if opts.IncludeTitle && meta.Title != "" {
		fields = append(fields, Field{Key: "title", Value: meta.Title})
	}
	if opts.IncludeDescription && meta.Description != "" {
		fields = append(fields, Field{Key: "description", Value: meta.Description})
	}
	if opts.IncludeURL && url != "" {
		fields = append(fields, Field{Key: "url", Value: url})
	}
	if opts.IncludeLastModified {
		fields = append(fields, Field{Key: "last_modified", Value: now.UTC().Truncate(time.Second)})
	}
	for _, f := range opts.CustomFields {
		if isEmptyValue(f.Value) {
			continue
		}
		fields = append(fields, f)
	}
	return fields
}

// ErrorFields assembles the frontmatter fields of an error document.
func ErrorFields(url string, status int, message string, now time.Time) []Field {
	return []Field{
		{Key: "title", Value: ErrorTitle(status)},
		{Key: "url", Value: url},
		{Key: "status", Value: status},
		{Key: "error", Value: message},
		{Key: "generated_at", Value: now.UTC().Truncate(time.Second)},
	}
}

// ErrorTitle returns the heading of an error document for status.
func ErrorTitle(status int) string {
	switch status {
	case http.StatusNotFound:
		return "Page Not Found"
	case http.StatusInternalServerError:
		return "Server Error"
	default:
		return "Error " + strconv.Itoa(status)
	}
}

func isEmptyValue(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case string:
		return v == ""
	}
	return false
}
