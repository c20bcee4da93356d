package curator

import (
	"errors"
	"strings"
	"testing"
)

func TestFallbackDocumentRoundTrip(t *testing.T) {
	doc := FallbackDocument(errors.New("all rewrite models failed"), "the original text")
	if !IsFallbackDocument(doc) {
		t.Error("placeholder should be recognized as a fallback document")
	}
	if !strings.Contains(doc, "the original text") {
		t.Error("placeholder should keep the original transcript")
	}
}

func TestIsFallbackDocument(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want bool
	}{
		{"real summary", "## Summary\n\nA good talk about compilers.", false},
		{"empty", "", false},
		{"stored placeholder", "# Title — Summary\n\n---\n\n# Rewrite Failed\n\ntimeout\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFallbackDocument(tt.doc); got != tt.want {
				t.Errorf("IsFallbackDocument() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"```markdown\n## Summary\n```", "## Summary"},
		{"```\nplain\n```", "plain"},
		{"no fences here", "no fences here"},
	}
	for _, tt := range tests {
		if got := stripFences(tt.in); got != tt.want {
			t.Errorf("stripFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
