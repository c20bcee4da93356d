package curator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ErrSkipItem marks a per-item condition that is not a failure: the item is
// logged, counted as skipped, and the batch moves on.
var ErrSkipItem = errors.New("item skipped")

// Extractor pulls metadata and the transcript or article body for one source.
type Extractor func(ctx context.Context, rawURL, platform string) (Extraction, error)

// Uploader pushes one finished item into the remote table. The returned
// string names the action taken (created / merged / replaced / unchanged).
type Uploader interface {
	UploadItem(ctx context.Context, ext Extraction, rewritten string) (string, error)
}

// Pipeline wires the per-item stages together. Upload may be nil when the
// run is local-only.
type Pipeline struct {
	Extract Extractor
	Upload  Uploader
	Store   *Storage
	Rewrite *Rewriter
}

// ProcessItem runs one source through extract → rewrite → store → sync.
// A rewrite failure stores the placeholder document instead of aborting;
// an empty transcript skips the item.
func (p *Pipeline) ProcessItem(ctx context.Context, item Item, opts RunOptions) error {
	platform := item.Platform
	if platform == "" {
		platform = DetectPlatform(item.URL)
	}
	id := ExtractItemID(platform, item.URL)

	if !opts.Force && p.Store.IsProcessed(id) {
		slog.Info("already processed, skipping", slog.String("id", id), slog.String("url", item.URL))
		incrItemsSkipped()
		return nil
	}

	ext, cached := CacheGetExtraction(ctx, item.URL)
	if !cached {
		var err error
		ext, err = p.Extract(ctx, item.URL, platform)
		if err != nil {
			incrItemsFailed()
			return fmt.Errorf("extract %s: %w", item.URL, err)
		}
		if strings.TrimSpace(ext.Transcript) == "" {
			slog.Warn("empty transcript, skipping", slog.String("url", item.URL))
			incrItemsSkipped()
			return ErrSkipItem
		}
		CacheSetExtraction(ctx, item.URL, ext)
	}
	if ext.ID == "" {
		ext.ID = id
	}
	if item.Title != "" {
		ext.Title = item.Title
	}
	if ext.Title == "" {
		slog.Warn("no title, skipping", slog.String("url", item.URL))
		incrItemsSkipped()
		return ErrSkipItem
	}

	rewritten, err := p.Rewrite.Rewrite(ctx, RewriteInput{
		Title:      ext.Title,
		Author:     ext.Author,
		Platform:   ext.Platform,
		Transcript: ext.Transcript,
	})
	if err != nil {
		slog.Error("rewrite failed, storing placeholder", slog.String("id", ext.ID), slog.Any("error", err))
		rewritten = FallbackDocument(err, ext.Transcript)
	}

	dir, err := p.Store.SaveAll(ext, ext.Transcript, rewritten)
	if err != nil {
		incrItemsFailed()
		return fmt.Errorf("save %s: %w", ext.ID, err)
	}
	slog.Info("saved", slog.String("dir", dir))

	if p.Upload != nil && !opts.SkipUpload {
		action, err := p.Upload.UploadItem(ctx, ext, rewritten)
		if err != nil {
			incrItemsFailed()
			return fmt.Errorf("table sync %s: %w", ext.ID, err)
		}
		slog.Info("table sync done", slog.String("id", ext.ID), slog.String("action", action))
	}

	p.Store.MarkProcessed(ext.ID, ext)
	incrItemsProcessed()
	return nil
}

// RunBatch processes items one at a time with a fixed sleep between them.
// Per-item errors are isolated: logged, counted, never fatal for the batch.
func (p *Pipeline) RunBatch(ctx context.Context, items []Item, opts RunOptions) {
	if opts.Limit > 0 && len(items) > opts.Limit {
		items = items[:opts.Limit]
	}
	slog.Info("batch start", slog.Int("items", len(items)))

	for i, item := range items {
		if ctx.Err() != nil {
			slog.Warn("batch canceled", slog.Int("remaining", len(items)-i))
			return
		}
		slog.Info("processing", slog.Int("n", i+1), slog.Int("of", len(items)), slog.String("url", item.URL))

		if err := p.ProcessItem(ctx, item, opts); err != nil && !errors.Is(err, ErrSkipItem) {
			slog.Error("item failed", slog.String("url", item.URL), slog.Any("error", err))
		}

		if i < len(items)-1 && cfg.RequestInterval > 0 {
			time.Sleep(cfg.RequestInterval)
		}
	}
	LogMetrics()
}
