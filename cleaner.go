package llmready

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	reControlChars = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F]`)

	reInlineHeading = regexp.MustCompile(`^(.+?)[ \t]+(#{1,6})[ \t]+(.+)$`)
	reHeadingLine   = regexp.MustCompile(`^#{1,6}[ \t]`)
	reDoubleMarker  = regexp.MustCompile(`^(#{1,6})[ \t]+#{1,6}[ \t]+`)

	reLinkGap     = regexp.MustCompile(`\][ \t]+\(`)
	reLinkText    = regexp.MustCompile(`\[([^\]\n]*)\]`)
	reLinkTarget  = regexp.MustCompile(`\]\(([^)\n]*)\)`)
	reTripleEmph  = regexp.MustCompile(`(^|[^*])\*{3}([^*\n]+)\*{3}([^*]|$)`)
	reUpperStrong = regexp.MustCompile(`(?m)^([ \t]*)\*\*([A-Z][A-Z \t]*)\*\*([ \t]*)$`)

	reDollarSpace = regexp.MustCompile(`\$[ \t]+(\d)`)
	reDollarRun   = regexp.MustCompile(`\${2,}(\d)`)
	reUnitSpace   = regexp.MustCompile(`(?i)[ \t]+/(mo|yr|month|year|week|day)\b`)

	reSpaceRun   = regexp.MustCompile(` {2,}`)
	reListItem   = regexp.MustCompile(`^[ \t]*([-*+]|\d+\.)([ \t]|$)`)
	reBlankRun   = regexp.MustCompile(`\n([ \t]*\n){2,}`)
	reTrailingWS = regexp.MustCompile(`(?m)[ \t]+$`)
)

// Labels shorter than this many bytes are emphasized when split from an
// inline heading.
const maxLabelLength = 30

// CleanMarkdown normalizes raw converter output into consistent Markdown.
// It is pure and idempotent. The passes run in a fixed order and passes
// that rewrite prose leave fenced code blocks untouched.
func CleanMarkdown(markdown string) string {
	s := strings.ReplaceAll(markdown, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = reControlChars.ReplaceAllString(s, "")

	s = mapProseLines(s, fixInlineHeading)
	s = mapProse(s, fixLinkSpacing)
	s = mapProse(s, fixExcessiveEmphasis)
	s = mapProse(s, fixPrices)
	s = mapProseLines(s, collapseInteriorSpaces)
	s = mapProseLines(s, normalizeIndentation)
	s = normalizeHeadingSpacing(s)

	s = reBlankRun.ReplaceAllString(s, "\n\n")
	s = reTrailingWS.ReplaceAllString(s, "")
	return strings.TrimSpace(s) + "\n"
}

// fixInlineHeading splits "Label ### Heading" into a label paragraph and a
// heading line.
func fixInlineHeading(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	if reHeadingLine.MatchString(trimmed) || strings.HasPrefix(trimmed, "|") {
		return line
	}
	m := reInlineHeading.FindStringSubmatch(line)
	if m == nil {
		return line
	}
	before := strings.TrimSpace(m[1])
	if before == "" {
		return line
	}
	heading := m[2] + " " + strings.TrimSpace(m[3])

	if len(before) < maxLabelLength && !strings.Contains(before, ".") {
		if strings.ToUpper(before) == before {
			return "*" + before + "*\n\n" + heading
		}
		return "**" + before + "**\n\n" + heading
	}
	return before + "\n\n" + heading
}

func fixLinkSpacing(s string) string {
	s = reLinkGap.ReplaceAllString(s, "](")
	s = reLinkText.ReplaceAllStringFunc(s, func(m string) string {
		inner := strings.TrimSpace(m[1 : len(m)-1])
		if inner == "" {
			return m
		}
		return "[" + inner + "]"
	})
	return reLinkTarget.ReplaceAllStringFunc(s, func(m string) string {
		return "](" + strings.TrimSpace(m[2:len(m)-1]) + ")"
	})
}

// fixExcessiveEmphasis turns short ***text*** into *text* and bold
// uppercase lines into italics. Runs of more than three asterisks are left
// alone.
func fixExcessiveEmphasis(s string) string {
	// Neighbouring matches share a delimiter character, so repeat until
	// nothing changes.
	for {
		next := reTripleEmph.ReplaceAllStringFunc(s, func(m string) string {
			g := reTripleEmph.FindStringSubmatch(m)
			if settledLength(g[2]) > 40 {
				return m
			}
			return g[1] + "*" + g[2] + "*" + g[3]
		})
		if next == s {
			break
		}
		s = next
	}
	return reUpperStrong.ReplaceAllStringFunc(s, func(m string) string {
		g := reUpperStrong.FindStringSubmatch(m)
		if settledLength(g[2]) > maxLabelLength+1 {
			return m
		}
		return g[1] + "*" + g[2] + "*" + g[3]
	})
}

// settledLength measures text the way it reads once later passes have
// tightened prices and spacing.
func settledLength(text string) int {
	return utf8.RuneCountInString(reSpaceRun.ReplaceAllString(fixPrices(text), " "))
}

func fixPrices(s string) string {
	s = reDollarSpace.ReplaceAllString(s, "$$$1")
	s = reDollarRun.ReplaceAllString(s, "$$$1")
	return reUnitSpace.ReplaceAllString(s, "/$1")
}

func collapseInteriorSpaces(line string) string {
	rest := strings.TrimLeft(line, " \t")
	indent := line[:len(line)-len(rest)]
	return indent + reSpaceRun.ReplaceAllString(rest, " ")
}

// normalizeIndentation re-expresses list indentation in two-space levels and
// strips leading whitespace from every other line.
func normalizeIndentation(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	if reListItem.MatchString(line) {
		level := (len(line) - len(trimmed)) / 2
		return strings.Repeat("  ", level) + trimmed
	}
	return trimmed
}

// normalizeHeadingSpacing surrounds every heading with blank lines and
// collapses doubled heading markers.
func normalizeHeadingSpacing(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	inCode := false
	blankAfter := false

	for _, line := range lines {
		if blankAfter && strings.TrimSpace(line) != "" {
			out = append(out, "")
		}
		blankAfter = false

		if isFence(line) {
			inCode = !inCode
			out = append(out, line)
			continue
		}
		if inCode || !reHeadingLine.MatchString(line) {
			out = append(out, line)
			continue
		}

		for reDoubleMarker.MatchString(line) {
			line = reDoubleMarker.ReplaceAllString(line, "$1 ")
		}
		if len(out) > 0 && strings.TrimSpace(out[len(out)-1]) != "" {
			out = append(out, "")
		}
		out = append(out, line)
		blankAfter = true
	}
	return strings.Join(out, "\n")
}

func isFence(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "```")
}

// mapProse applies fn to every run of lines outside fenced code blocks.
func mapProse(s string, fn func(string) string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	var prose []string
	inCode := false

	flush := func() {
		if len(prose) > 0 {
			out = append(out, fn(strings.Join(prose, "\n")))
			prose = prose[:0]
		}
	}
	for _, line := range lines {
		switch {
		case isFence(line):
			flush()
			inCode = !inCode
			out = append(out, line)
		case inCode:
			out = append(out, line)
		default:
			prose = append(prose, line)
		}
	}
	flush()
	return strings.Join(out, "\n")
}

// mapProseLines applies fn to every line outside fenced code blocks.
func mapProseLines(s string, fn func(string) string) string {
	return mapProse(s, func(chunk string) string {
		lines := strings.Split(chunk, "\n")
		for i, line := range lines {
			lines[i] = fn(line)
		}
		return strings.Join(lines, "\n")
	})
}
