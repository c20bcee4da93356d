// Package sources holds the per-platform extraction adapters. Each adapter
// turns one source URL into a curator.Extraction: basic metadata plus the raw
// transcript or article body.
package sources

import (
	"context"

	"github.com/anatolykoptev/go_curator/internal/curator"
)

// Extract dispatches a source URL to its platform adapter.
// Bilibili and podcast URLs go through the subtitle service; YouTube uses the
// native transcript path; everything else is treated as an article.
func Extract(ctx context.Context, rawURL, platform string) (curator.Extraction, error) {
	curator.IncrExtractRequests()

	var (
		ext curator.Extraction
		err error
	)
	switch platform {
	case curator.PlatformYouTube:
		ext, err = ExtractYouTube(ctx, rawURL)
	case curator.PlatformBilibili, curator.PlatformPodcast:
		ext, err = FetchSubtitle(ctx, rawURL)
	default:
		ext, err = ExtractArticle(ctx, rawURL)
	}
	if err != nil {
		curator.IncrExtractErrors()
		return curator.Extraction{}, err
	}
	if ext.Platform == "" {
		ext.Platform = platform
	}
	if ext.URL == "" {
		ext.URL = rawURL
	}
	if ext.ID == "" {
		ext.ID = curator.ExtractItemID(ext.Platform, rawURL)
	}
	return ext, nil
}
