package website

import (
	"regexp"
	"strings"
)

// Content cleanup for the website: the summary document repeats information
// the page renders elsewhere (title, quotes, tags), so those sections are
// stripped and only the body prose survives.

var (
	quotesHeadingRe  = regexp.MustCompile(`(?i)^#{2,3}\s*Key Quotes\s*$`)
	summaryHeadingRe = regexp.MustCompile(`(?i)^#{2,3}\s*Summary\s*$`)
	tagsHeadingRe    = regexp.MustCompile(`(?i)^#{2,3}\s*Topic Tags\s*$`)
	generatedLineRe  = regexp.MustCompile(`^\*(?:Generated|Processed)[:：][^\n]*\*$`)
	anyHeadingRe     = regexp.MustCompile(`^#{1,3}\s`)
	excessBlanksRe   = regexp.MustCompile(`\n{3,}`)
)

// CleanContent strips the structural sections out of a rewritten summary,
// leaving the body prose for the website. Best-effort: unknown layouts pass
// through mostly untouched.
func CleanContent(md string) string {
	if md == "" {
		return ""
	}
	lines := strings.Split(md, "\n")
	var out []string
	skipping := false
	started := false

	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])

		if skipping {
			// A dropped section ends at the next heading or rule; the
			// terminator itself still gets a look below.
			if !anyHeadingRe.MatchString(trimmed) && trimmed != "---" {
				continue
			}
			skipping = false
		}

		switch {
		case quotesHeadingRe.MatchString(trimmed), tagsHeadingRe.MatchString(trimmed):
			skipping = true
			continue
		case summaryHeadingRe.MatchString(trimmed):
			continue // heading only, the body stays
		case !started && strings.HasPrefix(trimmed, "# "):
			continue // document title line
		case generatedLineRe.MatchString(trimmed):
			continue
		case trimmed == "---":
			continue // rules only separate sections we are flattening
		}

		if trimmed != "" {
			started = true
		}
		if started {
			out = append(out, lines[i])
		}
	}

	content := strings.Join(out, "\n")
	content = excessBlanksRe.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}
