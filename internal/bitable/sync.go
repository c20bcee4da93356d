package bitable

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/anatolykoptev/go_curator/internal/curator"
)

// SyncAction names what Sync did for one item.
type SyncAction string

const (
	ActionCreated   SyncAction = "created"
	ActionMerged    SyncAction = "merged"
	ActionUnchanged SyncAction = "unchanged"
	ActionReplaced  SyncAction = "replaced"
)

// chunkMarkerRe matches the cosmetic part marker on continuation-row content
// and on legacy chunk titles.
var chunkMarkerRe = regexp.MustCompile(`\[\d+/\d+\]`)

// ChunkRecords turns one logical record into the row set the table needs.
// Content and Summary are split independently against maxLen; the row count
// is the larger fragment count. Row 0 carries all head fields and clean
// fragments; rows i>0 carry only the source link and their fragments, each
// prefixed with a "[i+1/n]" part marker. A field with fewer fragments is
// simply absent from later rows.
func ChunkRecords(rec Record, maxLen int) []Record {
	contentParts := SplitContent(rec.Content, maxLen)
	summaryParts := SplitContent(rec.Summary, maxLen)

	total := max(len(contentParts), len(summaryParts))
	if total <= 1 {
		return []Record{rec}
	}

	records := make([]Record, 0, total)
	for i := 0; i < total; i++ {
		var row Record
		if i == 0 {
			row = rec
			row.Content = ""
			row.Summary = ""
		} else {
			row = Record{SourceLink: rec.SourceLink}
		}
		if i < len(contentParts) {
			row.Content = partMarker(i, len(contentParts)) + contentParts[i]
		}
		if i < len(summaryParts) {
			row.Summary = partMarker(i, len(summaryParts)) + summaryParts[i]
		}
		records = append(records, row)
	}
	return records
}

// partMarker renders the cosmetic prefix for non-first fragments.
func partMarker(i, total int) string {
	if i == 0 {
		return ""
	}
	return fmt.Sprintf("[%d/%d]\n\n", i+1, total)
}

// Sync reconciles one logical record against the table:
//   - key absent → insert the full row set;
//   - single existing and single candidate → field-level merge in place;
//   - any cardinality change → delete the whole existing group, then insert.
//
// The delete-then-insert window is not atomic; a crash between the two calls
// loses the record. Both sides are logged so the window is visible.
func (c *Client) Sync(ctx context.Context, rec Record) (SyncAction, error) {
	if rec.SourceLink == "" {
		return "", fmt.Errorf("record has no source link")
	}

	existing, err := c.FindByLink(ctx, rec.SourceLink)
	if err != nil {
		return "", err
	}
	candidate := ChunkRecords(rec, c.cfg.MaxFieldChars)

	if len(existing) == 0 {
		if err := c.BatchCreate(ctx, candidate); err != nil {
			return "", err
		}
		return ActionCreated, nil
	}

	if len(existing) == 1 && len(candidate) == 1 {
		fields, names := mergeFields(existing[0].Fields, candidate[0].ToFields())
		if len(fields) == 0 {
			slog.Info("bitable: record complete, nothing to merge", slog.String("link", rec.SourceLink))
			return ActionUnchanged, nil
		}
		fields[FieldUploaded] = time.Now().UnixMilli()
		if err := c.UpdateRecord(ctx, existing[0].ID, fields); err != nil {
			return "", err
		}
		slog.Info("bitable: record merged",
			slog.String("link", rec.SourceLink),
			slog.String("fields", strings.Join(names, ", ")))
		return ActionMerged, nil
	}

	// Cardinality change: replace the whole group.
	slog.Warn("bitable: replacing record group",
		slog.String("link", rec.SourceLink),
		slog.Int("old_rows", len(existing)),
		slog.Int("new_rows", len(candidate)))
	for _, old := range existing {
		if err := c.DeleteRecord(ctx, old.ID); err != nil {
			return "", fmt.Errorf("delete old chunk: %w", err)
		}
	}
	if err := c.BatchCreate(ctx, candidate); err != nil {
		return "", fmt.Errorf("recreate after delete: %w", err)
	}
	slog.Info("bitable: record group replaced",
		slog.String("link", rec.SourceLink), slog.Int("rows", len(candidate)))
	return ActionReplaced, nil
}

// mergeFields decides which candidate fields may be written onto an existing
// record. A field qualifies only when it is absent or blank on the existing
// record; the one exception is Quotes, which is upgraded in place when the
// candidate is in numbered form and the existing value is not.
func mergeFields(existing, candidate map[string]any) (map[string]any, []string) {
	out := make(map[string]any)
	var names []string
	for name, value := range candidate {
		if name == FieldUploaded {
			continue // refreshed by the caller only when something else changed
		}
		blank := wireBlank(existing[name])
		write := blank
		if name == FieldQuotes && !blank {
			newQuotes, _ := value.(string)
			oldQuotes := wireString(existing[name])
			if curator.IsNumberedQuotes(newQuotes) && !curator.IsNumberedQuotes(oldQuotes) {
				write = true
			}
		}
		if write {
			out[name] = value
			names = append(names, name)
		}
	}
	return out, names
}

// PendingRecords filters a listing down to the process-from-table work
// queue: rows with a source link and a clean title that have never been
// uploaded. Continuation rows carry no title and fall out naturally; a
// legacy chunk-marker title check guards against older data.
func PendingRecords(records []Record) []Record {
	var pending []Record
	for _, r := range records {
		if r.SourceLink == "" || r.Title == "" {
			continue
		}
		if chunkMarkerRe.MatchString(r.Title) {
			continue
		}
		if !r.Uploaded.IsZero() {
			continue
		}
		pending = append(pending, r)
	}
	return pending
}

// UploadItem implements curator.Uploader: it shapes one finished extraction
// into a logical record and reconciles it against the table.
func (c *Client) UploadItem(ctx context.Context, ext curator.Extraction, rewritten string) (string, error) {
	quotes := curator.NumberQuotes(curator.ExtractQuotes(rewritten))
	rec := Record{
		SourceLink: ext.URL,
		Platform:   strings.ToUpper(ext.Platform),
		Title:      ext.Title,
		Author:     ext.Author,
		Published:  ext.PublishedAt,
		Uploaded:   time.Now(),
		Content:    ext.Transcript,
		Summary:    rewritten,
		Quotes:     quotes,
		Category:   curator.CategoryFor(ext.Platform),
		CoverURL:   ext.CoverURL,
	}
	if rec.Published.IsZero() {
		rec.Published = time.Now()
	}
	action, err := c.Sync(ctx, rec)
	if err != nil {
		return "", err
	}
	return string(action), nil
}
