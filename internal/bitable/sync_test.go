package bitable

import (
	"strings"
	"testing"
	"time"
)

func TestChunkRecords_SingleRow(t *testing.T) {
	rec := Record{SourceLink: "https://example.com/a", Title: "Short", Content: "small", Summary: "tiny"}
	rows := ChunkRecords(rec, 30000)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Content != "small" || rows[0].Title != "Short" {
		t.Error("single-row record should pass through unchanged")
	}
}

func TestChunkRecords_OversizedContent(t *testing.T) {
	rec := Record{
		SourceLink: "https://example.com/long",
		Title:      "Long Item",
		Author:     "Someone",
		Content:    strings.Repeat("x", 65000),
		Summary:    strings.Repeat("s", 10000),
		Quotes:     "1. a quote",
	}
	rows := ChunkRecords(rec, 30000)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	// Row 0: all head fields, clean fragments.
	if rows[0].Title != "Long Item" || rows[0].Author != "Someone" || rows[0].Quotes != "1. a quote" {
		t.Error("row 0 should carry the head fields")
	}
	if strings.HasPrefix(rows[0].Content, "[") {
		t.Error("row 0 content should have no part marker")
	}
	if rows[0].Summary != strings.Repeat("s", 10000) {
		t.Error("row 0 should carry the whole summary when it fits")
	}

	// Continuation rows: key + marked fragments only.
	for i, row := range rows[1:] {
		if row.SourceLink != rec.SourceLink {
			t.Errorf("row %d missing source link", i+1)
		}
		if row.Title != "" || row.Author != "" || row.Quotes != "" || row.Summary != "" {
			t.Errorf("row %d should carry only the key and content fragment", i+1)
		}
		if !strings.HasPrefix(row.Content, "[") {
			t.Errorf("row %d content missing part marker, got prefix %q", i+1, row.Content[:8])
		}
	}
	if !strings.HasPrefix(rows[1].Content, "[2/3]\n\n") {
		t.Errorf("row 1 marker = %q, want [2/3]", rows[1].Content[:7])
	}
	if !strings.HasPrefix(rows[2].Content, "[3/3]\n\n") {
		t.Errorf("row 2 marker = %q, want [3/3]", rows[2].Content[:7])
	}
}

func TestChunkRecords_FragmentsRecoverContent(t *testing.T) {
	content := strings.Repeat("paragraph text here.\n", 5000)
	rec := Record{SourceLink: "https://example.com/x", Content: content}
	rows := ChunkRecords(rec, 30000)
	if len(rows) < 2 {
		t.Fatalf("expected a chunked record, got %d rows", len(rows))
	}

	var sb strings.Builder
	for i, row := range rows {
		body := row.Content
		if i > 0 {
			body = strings.TrimPrefix(chunkMarkerRe.ReplaceAllString(body, ""), "\n\n")
		}
		sb.WriteString(body)
	}
	if sb.String() != content {
		t.Error("stripping the part markers should recover the original content")
	}
}

func TestMergeFields_BlankOnly(t *testing.T) {
	existing := map[string]any{
		FieldTitle:   "Kept Title",
		FieldAuthor:  "",
		FieldSummary: nil,
	}
	candidate := map[string]any{
		FieldTitle:    "New Title",
		FieldAuthor:   "New Author",
		FieldSummary:  "New Summary",
		FieldUploaded: int64(123),
	}
	out, names := mergeFields(existing, candidate)

	if _, ok := out[FieldTitle]; ok {
		t.Error("non-blank existing field must never be overwritten")
	}
	if out[FieldAuthor] != "New Author" {
		t.Error("blank existing field should be filled")
	}
	if out[FieldSummary] != "New Summary" {
		t.Error("absent existing field should be filled")
	}
	if _, ok := out[FieldUploaded]; ok {
		t.Error("upload timestamp is the caller's job, merge must skip it")
	}
	if len(names) != 2 {
		t.Errorf("names = %v, want 2 entries", names)
	}
}

func TestMergeFields_NoChanges(t *testing.T) {
	existing := map[string]any{FieldTitle: "T", FieldSummary: "S"}
	candidate := map[string]any{FieldTitle: "T2", FieldSummary: "S2"}
	out, _ := mergeFields(existing, candidate)
	if len(out) != 0 {
		t.Errorf("expected no-op merge, got %v", out)
	}
}

func TestMergeFields_QuotesUpgrade(t *testing.T) {
	existing := map[string]any{FieldQuotes: "a quote\nanother quote"}
	candidate := map[string]any{FieldQuotes: "1. a quote\n2. another quote"}
	out, _ := mergeFields(existing, candidate)
	if out[FieldQuotes] != "1. a quote\n2. another quote" {
		t.Error("unnumbered quotes should be upgraded to the numbered form")
	}

	// Already numbered: no rewrite.
	existing[FieldQuotes] = "1. old"
	out, _ = mergeFields(existing, candidate)
	if _, ok := out[FieldQuotes]; ok {
		t.Error("numbered quotes must not be rewritten")
	}
}

func TestPendingRecords(t *testing.T) {
	records := []Record{
		{SourceLink: "https://a", Title: "Pending"},
		{SourceLink: "https://b", Title: "Done", Uploaded: time.Now()},
		{SourceLink: "https://c"},                              // continuation row, no title
		{SourceLink: "https://d", Title: "[2/3] Legacy Chunk"}, // legacy chunk title
		{Title: "No Link"},
		{SourceLink: "https://e", Title: "Also Pending"},
	}
	pending := PendingRecords(records)
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending rows, got %d", len(pending))
	}
	if pending[0].Title != "Pending" || pending[1].Title != "Also Pending" {
		t.Errorf("wrong rows selected: %v, %v", pending[0].Title, pending[1].Title)
	}
}
