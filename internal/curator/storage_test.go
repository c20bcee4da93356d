package curator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Plain Title", "Plain Title"},
		{`What? A "Quoted" Title: Part 1/2`, "What_ A _Quoted_ Title_ Part 1_2"},
		{"path\\injection<>|*", "path_injection____"},
	}
	for _, tt := range tests {
		if got := SanitizeTitle(tt.in); got != tt.want {
			t.Errorf("SanitizeTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	long := SanitizeTitle(strings.Repeat("標", 150))
	if n := len([]rune(long)); n != 100 {
		t.Errorf("long title = %d runes, want 100", n)
	}
}

func TestStorage_SaveAllAndLoad(t *testing.T) {
	store, err := NewStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	ext := Extraction{
		ID:          "vid123",
		URL:         "https://www.youtube.com/watch?v=vid123",
		Platform:    PlatformYouTube,
		Title:       "A Great Talk",
		Author:      "Some Channel",
		CoverURL:    "https://img.example.com/cover.jpg",
		Duration:    3725,
		PublishedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	dir, err := store.SaveAll(ext, "the raw transcript", "# rewritten body")
	if err != nil {
		t.Fatalf("SaveAll: %v", err)
	}

	for _, name := range []string{"metadata.md", "transcript.md", "rewritten.md"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	files, err := LoadItemDir(dir)
	if err != nil {
		t.Fatalf("LoadItemDir: %v", err)
	}
	if files.SourceURL != ext.URL {
		t.Errorf("SourceURL = %q, want %q", files.SourceURL, ext.URL)
	}
	if files.CoverURL != ext.CoverURL {
		t.Errorf("CoverURL = %q, want %q", files.CoverURL, ext.CoverURL)
	}
	if files.Meta["Title"] != ext.Title {
		t.Errorf("Title = %q", files.Meta["Title"])
	}
	if files.Meta["Platform"] != "YOUTUBE" {
		t.Errorf("Platform = %q", files.Meta["Platform"])
	}
	if files.Meta["Duration"] != "1h 2m 5s" {
		t.Errorf("Duration = %q", files.Meta["Duration"])
	}
	if !strings.Contains(files.Transcript, "the raw transcript") {
		t.Error("transcript body not stored")
	}
	if !strings.Contains(files.Rewritten, "# rewritten body") {
		t.Error("rewritten body not stored")
	}
}

func TestStorage_LedgerRoundTrip(t *testing.T) {
	root := t.TempDir()
	store, err := NewStorage(root)
	if err != nil {
		t.Fatal(err)
	}

	if store.IsProcessed("abc") {
		t.Error("fresh ledger should be empty")
	}
	store.MarkProcessed("abc", Extraction{Title: "T", Platform: PlatformWeb})
	if !store.IsProcessed("abc") {
		t.Error("item should be in the ledger after marking")
	}

	// Reload from disk.
	store2, err := NewStorage(root)
	if err != nil {
		t.Fatal(err)
	}
	if !store2.IsProcessed("abc") {
		t.Error("ledger should survive a reload")
	}

	total, byPlatform := store2.Stats()
	if total != 1 || byPlatform[PlatformWeb] != 1 {
		t.Errorf("Stats = %d, %v", total, byPlatform)
	}
}

func TestStorage_ClearLedgerBacksUp(t *testing.T) {
	root := t.TempDir()
	store, err := NewStorage(root)
	if err != nil {
		t.Fatal(err)
	}
	store.MarkProcessed("abc", Extraction{})

	backup, err := store.ClearLedger()
	if err != nil {
		t.Fatalf("ClearLedger: %v", err)
	}
	if backup == "" {
		t.Fatal("expected a backup path")
	}
	if _, err := os.Stat(backup); err != nil {
		t.Errorf("backup file missing: %v", err)
	}
	if store.IsProcessed("abc") {
		t.Error("ledger should be empty after clear")
	}
}

func TestRawTranscript(t *testing.T) {
	raw := "First line of the talk.\n\nSecond paragraph."
	stored := renderTranscript(Extraction{Title: "A Talk", Platform: "youtube"}, raw)
	if got := RawTranscript(stored); got != raw {
		t.Errorf("RawTranscript(stored) = %q, want %q", got, raw)
	}

	// Unframed input passes through.
	if got := RawTranscript("plain text\n"); got != "plain text" {
		t.Errorf("RawTranscript(plain) = %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "unknown"},
		{-5, "unknown"},
		{42, "42s"},
		{125, "2m 5s"},
		{3725, "1h 2m 5s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.seconds); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}
