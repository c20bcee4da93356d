package bitable

import (
	"strings"
	"testing"
)

func TestSplitContent_Short(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"empty", "", 0},
		{"under limit", "short text", 1},
		{"exactly at limit", strings.Repeat("a", 100), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitContent(tt.content, 100)
			if len(got) != tt.want {
				t.Errorf("SplitContent(%q) = %d fragments, want %d", tt.content, len(got), tt.want)
			}
		})
	}
}

// Concatenating the fragments must reproduce the input byte for byte.
func TestSplitContent_Partition(t *testing.T) {
	inputs := []string{
		strings.Repeat("word word word. ", 50),
		strings.Repeat("line one\nline two\n", 40),
		strings.Repeat("x", 777),
		strings.Repeat("中文句子。这里还有更多内容！", 60),
	}
	for _, in := range inputs {
		parts := SplitContent(in, 100)
		if got := strings.Join(parts, ""); got != in {
			t.Errorf("fragments do not reproduce input: %d parts, got %d bytes, want %d",
				len(parts), len(got), len(in))
		}
		for i, p := range parts {
			if p == "" {
				t.Errorf("fragment %d is empty", i)
			}
		}
	}
}

func TestSplitContent_NewlineLookahead(t *testing.T) {
	// Newline 30 runes past the limit: fragment should extend through it.
	in := strings.Repeat("a", 130) + "\n" + strings.Repeat("b", 50)
	parts := SplitContent(in, 100)
	if len(parts) != 2 {
		t.Fatalf("expected 2 fragments, got %d", len(parts))
	}
	if !strings.HasSuffix(parts[0], "\n") {
		t.Error("first fragment should end with the lookahead newline")
	}
	if len([]rune(parts[0])) != 131 {
		t.Errorf("first fragment = %d runes, want 131", len([]rune(parts[0])))
	}
}

func TestSplitContent_SentenceFallback(t *testing.T) {
	// No newline in reach; a period 20 runes before the limit.
	in := strings.Repeat("a", 79) + "." + strings.Repeat("b", 150)
	parts := SplitContent(in, 100)
	if len(parts) < 2 {
		t.Fatalf("expected at least 2 fragments, got %d", len(parts))
	}
	if !strings.HasSuffix(parts[0], ".") {
		t.Errorf("first fragment should break after the sentence end, got suffix %q",
			parts[0][len(parts[0])-5:])
	}
}

// Limits below sentenceLookback must still split cleanly.
func TestSplitContent_SmallLimit(t *testing.T) {
	tests := []struct {
		name    string
		content string
		maxLen  int
	}{
		{"hard break", strings.Repeat("x", 100), 30},
		{"sentence near start", "ab. " + strings.Repeat("c", 96), 30},
		{"limit of one", strings.Repeat("y", 10), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts := SplitContent(tt.content, tt.maxLen)
			if got := strings.Join(parts, ""); got != tt.content {
				t.Errorf("fragments do not reproduce input: %d parts", len(parts))
			}
			for i, p := range parts {
				if p == "" {
					t.Errorf("fragment %d is empty", i)
				}
			}
		})
	}
}

func TestSplitContent_HardBreak(t *testing.T) {
	in := strings.Repeat("x", 250)
	parts := SplitContent(in, 100)
	if len(parts) != 3 {
		t.Fatalf("expected 3 fragments, got %d", len(parts))
	}
	for i, p := range parts[:2] {
		if n := len([]rune(p)); n != 100 {
			t.Errorf("fragment %d = %d runes, want 100", i, n)
		}
	}
}

// Every fragment except possibly the last must stay within limit+lookahead.
func TestSplitContent_UpperBound(t *testing.T) {
	in := strings.Repeat("some sentence here. and another one follows!\nthen a newline. ", 100)
	parts := SplitContent(in, 200)
	for i, p := range parts[:len(parts)-1] {
		if n := len([]rune(p)); n >= 200+newlineLookahead {
			t.Errorf("fragment %d = %d runes, exceeds limit+lookahead", i, n)
		}
	}
}
