package curator

import (
	"strings"
	"testing"
)

const sampleRewritten = `# Some Title — Summary

## Summary

A body paragraph.

## Key Quotes

- **The first quote about things.**
- The second quote.
- The third quote, with a comma.

## Topic Tags

- #AI
- Startups
- #OpenSource

---

*Generated: 2026-01-15*
`

func TestExtractQuotes(t *testing.T) {
	quotes := ExtractQuotes(sampleRewritten)
	want := []string{
		"The first quote about things.",
		"The second quote.",
		"The third quote, with a comma.",
	}
	if len(quotes) != len(want) {
		t.Fatalf("got %d quotes, want %d: %v", len(quotes), len(want), quotes)
	}
	for i := range want {
		if quotes[i] != want[i] {
			t.Errorf("quote %d = %q, want %q", i, quotes[i], want[i])
		}
	}
}

func TestExtractQuotes_NoSection(t *testing.T) {
	if got := ExtractQuotes("# Title\n\nJust text, no sections."); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestExtractTags(t *testing.T) {
	tags := ExtractTags(sampleRewritten)
	want := []string{"#AI", "#Startups", "#OpenSource"}
	if len(tags) != len(want) {
		t.Fatalf("got %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("tag %d = %q, want %q", i, tags[i], want[i])
		}
	}
}

func TestNumberQuotes(t *testing.T) {
	got := NumberQuotes([]string{"first", "2. already numbered", "third"})
	want := "1. first\n2. already numbered\n3. third"
	if got != want {
		t.Errorf("NumberQuotes = %q, want %q", got, want)
	}
	if NumberQuotes(nil) != "" {
		t.Error("empty input should yield an empty string")
	}
}

func TestIsNumberedQuotes(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"1. a quote\n2. another", true},
		{"12. starts mid-list", true},
		{"a plain quote", false},
		{"", false},
		{"1.no space", false},
	}
	for _, tt := range tests {
		if got := IsNumberedQuotes(tt.in); got != tt.want {
			t.Errorf("IsNumberedQuotes(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPreviewQuote(t *testing.T) {
	if got := PreviewQuote([]string{"1. stripped ordinal"}); got != "stripped ordinal" {
		t.Errorf("PreviewQuote = %q", got)
	}
	if PreviewQuote(nil) != "" {
		t.Error("expected empty preview for no quotes")
	}
}

func TestParseMetadataTable(t *testing.T) {
	md := strings.Join([]string{
		"# Item Metadata",
		"",
		"| Field | Value |",
		"|-------|-------|",
		"| ID | `abc123` |",
		"| Platform | YOUTUBE |",
		"| Title | A Great Talk |",
		"not a table row",
	}, "\n")

	fields := ParseMetadataTable(md)
	if fields["ID"] != "`abc123`" {
		t.Errorf("ID = %q", fields["ID"])
	}
	if fields["Platform"] != "YOUTUBE" {
		t.Errorf("Platform = %q", fields["Platform"])
	}
	if fields["Title"] != "A Great Talk" {
		t.Errorf("Title = %q", fields["Title"])
	}
	if _, ok := fields["Field"]; !ok {
		t.Log("header row parsed as a field, acceptable")
	}
}

func TestExtractGuestName(t *testing.T) {
	tests := []struct {
		name string
		bio  string
		want string
	}{
		{"labeled guest", "Guest: Jane Smith discusses the future of programming", "Jane Smith"},
		{"featuring", "A conversation featuring John Carmack about engines", "John Carmack"},
		{"is-a pattern", "Andrej Karpathy is the former director of AI", "Andrej Karpathy"},
		{"denylisted phrase", "A talk about The Future of work", ""},
		{"place name", "Recorded in San Francisco last week", ""},
		{"empty", "", ""},
		{"lowercase only", "a discussion about nothing in particular", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractGuestName(tt.bio); got != tt.want {
				t.Errorf("ExtractGuestName(%q) = %q, want %q", tt.bio, got, tt.want)
			}
		})
	}
}
