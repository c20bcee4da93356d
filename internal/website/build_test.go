package website

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/anatolykoptev/go_curator/internal/bitable"
)

func rec(id, title, summary string, published time.Time) bitable.Record {
	return bitable.Record{
		ID:         id,
		SourceLink: "https://example.com/" + id,
		Title:      title,
		Summary:    summary,
		Published:  published,
	}
}

func TestBuild_SkipsIncompleteAndChunkRows(t *testing.T) {
	records := []bitable.Record{
		rec("r1", "Kept", "Some summary.", time.Now()),
		rec("r2", "", "No title.", time.Now()),
		rec("r3", "No Summary", "", time.Now()),
		rec("r4", "[2/3] Continuation", "chunk body", time.Now()),
	}
	articles := Build(records)
	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}
	if articles[0].ID != "r1" {
		t.Errorf("kept wrong record: %s", articles[0].ID)
	}
}

func TestBuild_SortedByDateDescending(t *testing.T) {
	records := []bitable.Record{
		rec("old", "Old", "s", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)),
		rec("new", "New", "s", time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)),
		rec("mid", "Mid", "s", time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)),
	}
	articles := Build(records)
	want := []string{"new", "mid", "old"}
	for i, id := range want {
		if articles[i].ID != id {
			t.Errorf("position %d = %s, want %s", i, articles[i].ID, id)
		}
	}
	if articles[0].Date != "2026.06.01" {
		t.Errorf("date format = %q", articles[0].Date)
	}
}

func TestBuildArticle_DateFallbacks(t *testing.T) {
	r := rec("r", "T", "s", time.Time{})
	r.CreatedTime = time.Date(2025, 7, 4, 12, 0, 0, 0, time.UTC).UnixMilli()
	a := buildArticle(r)
	if a.Date != time.UnixMilli(r.CreatedTime).Format("2006.01.02") {
		t.Errorf("date = %q, want the created-time fallback", a.Date)
	}

	r.CreatedTime = 0
	a = buildArticle(r)
	if a.Date != time.Now().Format("2006.01.02") {
		t.Errorf("date = %q, want today", a.Date)
	}
}

func TestBuildArticle_TypeAndAuthor(t *testing.T) {
	r := rec("r", "Interview Episode", "Guest: Jane Smith discusses compilers.", time.Now())
	r.Platform = "PODCAST"
	r.Category = "podcast"
	a := buildArticle(r)

	if a.Type != "podcast" {
		t.Errorf("type = %q", a.Type)
	}
	if a.Guest != "Jane Smith" {
		t.Errorf("guest = %q, want Jane Smith", a.Guest)
	}
	if a.Author != "Guest: Jane Smith" {
		t.Errorf("author = %q", a.Author)
	}
	if !contains(a.Tags, "#Interview") {
		t.Errorf("tags = %v, want #Interview present", a.Tags)
	}
	if !contains(a.Tags, "#PODCAST") {
		t.Errorf("tags = %v, want #PODCAST present", a.Tags)
	}
}

func TestBuildArticle_AuthorSplit(t *testing.T) {
	r := rec("r", "T", "s", time.Now())
	r.Author = "Host: Lex Fridman"
	a := buildArticle(r)
	if a.Host != "Lex Fridman" || a.Guest != "" {
		t.Errorf("host = %q, guest = %q", a.Host, a.Guest)
	}

	r.Author = "Guest: Andrej Karpathy"
	a = buildArticle(r)
	if a.Guest != "Andrej Karpathy" || a.Host != "" {
		t.Errorf("host = %q, guest = %q", a.Host, a.Guest)
	}
}

func TestBuildArticle_Nuggets(t *testing.T) {
	r := rec("r", "T", "s", time.Now())
	r.Quotes = "1. first quote\n2. second quote\n"
	a := buildArticle(r)
	if len(a.Nuggets) != 2 || a.Nuggets[0] != "first quote" || a.Nuggets[1] != "second quote" {
		t.Errorf("nuggets = %v", a.Nuggets)
	}
	if a.PreviewQuote != "first quote" {
		t.Errorf("preview = %q", a.PreviewQuote)
	}
}

func TestWriteAndLoadArticles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.json")
	in := []Article{
		{ID: "a1", Title: "One", Date: "2026.01.01"},
		{ID: "a2", Title: "Two", Date: "2025.01.01"},
	}
	if err := WriteJSON(path, in); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	out, ids := LoadArticles(path)
	if len(out) != 2 || !ids["a1"] || !ids["a2"] {
		t.Fatalf("round trip failed: %d articles, ids %v", len(out), ids)
	}
}

func TestLoadArticles_Missing(t *testing.T) {
	articles, ids := LoadArticles(filepath.Join(t.TempDir(), "nope.json"))
	if articles != nil || len(ids) != 0 {
		t.Error("missing file should yield an empty set")
	}
}

func TestIncremental(t *testing.T) {
	existing := []Article{{ID: "a1", Title: "Old", Date: "2025.01.01"}}
	ids := map[string]bool{"a1": true}
	records := []bitable.Record{
		rec("a1", "Old Again", "changed summary", time.Now()),
		rec("a2", "Fresh", "new summary", time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)),
	}

	merged, added := Incremental(existing, ids, records)
	if added != 1 {
		t.Fatalf("added = %d, want 1", added)
	}
	if len(merged) != 2 {
		t.Fatalf("merged = %d articles", len(merged))
	}
	if merged[0].ID != "a2" {
		t.Errorf("expected the newer article first, got %s", merged[0].ID)
	}
	for _, a := range merged {
		if a.ID == "a1" && a.Title != "Old" {
			t.Error("existing articles must not be rebuilt")
		}
	}
}

func TestWriteTS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.ts")
	if err := WriteTS(path, []Article{{ID: "a1", Title: "One"}}); err != nil {
		t.Fatalf("WriteTS: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "export const ARTICLES: Article[] =") {
		t.Error("missing typed export")
	}
	if !strings.Contains(string(data), `"id": "a1"`) {
		t.Error("missing article payload")
	}
}
