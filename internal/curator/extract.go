package curator

import (
	"regexp"
	"strconv"
	"strings"
)

// Heuristic extractors over the rewriter's output template. All of them are
// best-effort: on any mismatch they return empty results, never an error.

var (
	quotesHeaderRe = regexp.MustCompile(`(?i)^#{2,3}\s*Key Quotes\s*$`)
	tagsHeaderRe   = regexp.MustCompile(`(?i)^#{2,3}\s*Topic Tags\s*$`)
	ordinalRe      = regexp.MustCompile(`^\d+[.、]\s*`)
	numberedRe     = regexp.MustCompile(`^\d{1,2}\.\s`)
	tableRowRe     = regexp.MustCompile(`^\|\s*(.+?)\s*\|\s*(.*?)\s*\|$`)
)

// sectionBody returns the lines between a matching section header and the
// next heading or horizontal rule.
func sectionBody(md string, headerRe *regexp.Regexp) []string {
	lines := strings.Split(md, "\n")
	var body []string
	inSection := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if inSection {
			if strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "---") {
				break
			}
			body = append(body, trimmed)
			continue
		}
		if headerRe.MatchString(trimmed) {
			inSection = true
		}
	}
	return body
}

// listItems extracts dash- or number-prefixed list items from section lines,
// stripping bullets, ordinals, and bold markers.
func listItems(lines []string) []string {
	var items []string
	for _, line := range lines {
		if line == "" {
			continue
		}
		var item string
		switch {
		case strings.HasPrefix(line, "- "):
			item = strings.TrimPrefix(line, "- ")
		case strings.HasPrefix(line, "-"):
			item = strings.TrimPrefix(line, "-")
		case ordinalRe.MatchString(line):
			item = ordinalRe.ReplaceAllString(line, "")
		default:
			continue
		}
		item = strings.ReplaceAll(item, "**", "")
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// ExtractQuotes pulls the key-quotes list from a rewritten document.
func ExtractQuotes(md string) []string {
	return listItems(sectionBody(md, quotesHeaderRe))
}

// ExtractTags pulls topic tags from a rewritten document, normalized to a
// leading '#'.
func ExtractTags(md string) []string {
	var tags []string
	for _, item := range listItems(sectionBody(md, tagsHeaderRe)) {
		tag := strings.TrimPrefix(item, "#")
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, "#"+tag)
		}
	}
	return tags
}

// PreviewQuote returns the first quote with any leading ordinal stripped.
func PreviewQuote(quotes []string) string {
	if len(quotes) == 0 {
		return ""
	}
	return strings.TrimSpace(ordinalRe.ReplaceAllString(quotes[0], ""))
}

// NumberQuotes serializes quotes in the enumerated form stored in the remote
// table ("1. ...\n2. ...").
func NumberQuotes(quotes []string) string {
	var sb strings.Builder
	for i, q := range quotes {
		if i > 0 {
			sb.WriteByte('\n')
		}
		clean := strings.TrimSpace(ordinalRe.ReplaceAllString(q, ""))
		sb.WriteString(strconv.Itoa(i+1) + ". " + clean)
	}
	return sb.String()
}

// IsNumberedQuotes reports whether a serialized quotes value is already in
// the enumerated form.
func IsNumberedQuotes(s string) bool {
	return numberedRe.MatchString(strings.TrimSpace(s))
}

// ParseMetadataTable reads "| key | value |" rows from a metadata document.
func ParseMetadataTable(md string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(md, "\n") {
		m := tableRowRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		key, value := m[1], m[2]
		if key == "" || strings.HasPrefix(key, "-") || strings.HasPrefix(key, ":") {
			continue // separator row
		}
		fields[key] = value
	}
	return fields
}

// Phrases that look like names to the capitalized-words heuristic but are not.
var nonNamePhrases = []string{
	"the future", "the battle", "the rise", "the end", "the art",
	"new york", "san francisco", "silicon valley", "united states",
	"artificial intelligence", "machine learning", "deep learning",
	"open source", "venture capital", "wall street",
}

var guestPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)guest:\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,3})`),
	regexp.MustCompile(`featuring\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,3})`),
	regexp.MustCompile(`ft\.\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,3})`),
	regexp.MustCompile(`with\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,3})`),
	regexp.MustCompile(`^([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,3})\s+is\s+(?:the|an?)\s`),
}

var titleCaseSeqRe = regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,3})\b`)

// ExtractGuestName pulls a person's name out of a biographical blurb.
// Labeled patterns run first; the bare capitalized-sequence heuristic is the
// last resort and is the strictest. Empty string when nothing credible.
func ExtractGuestName(bio string) string {
	bio = strings.TrimSpace(bio)
	if bio == "" {
		return ""
	}

	for _, re := range guestPatterns {
		if m := re.FindStringSubmatch(bio); len(m) > 1 {
			if name := validateName(m[1]); name != "" {
				return name
			}
		}
	}

	for _, m := range titleCaseSeqRe.FindAllStringSubmatch(bio, -1) {
		if name := validateName(m[1]); name != "" {
			return name
		}
	}
	return ""
}

// validateName accepts 2-4 title-cased tokens not on the denylist.
func validateName(candidate string) string {
	candidate = strings.TrimSpace(candidate)
	lower := strings.ToLower(candidate)
	for _, phrase := range nonNamePhrases {
		if lower == phrase || strings.HasPrefix(lower, phrase+" ") {
			return ""
		}
	}
	tokens := strings.Fields(candidate)
	if len(tokens) < 2 || len(tokens) > 4 {
		return ""
	}
	for _, tok := range tokens {
		if len(tok) < 2 || tok[0] < 'A' || tok[0] > 'Z' {
			return ""
		}
	}
	return candidate
}
