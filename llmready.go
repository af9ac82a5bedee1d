// Package llmready serves the HTML pages of a web application as clean
// Markdown documents for LLM agents and crawlers. It extracts the primary
// content of a page, restructures eyebrow labels, converts the result to
// Markdown, normalizes the converter output and prepends YAML frontmatter.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, htmltomarkdown/).
package llmready
