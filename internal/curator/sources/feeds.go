package sources

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/anatolykoptev/go_curator/internal/curator"
)

// FeedItem is one entry discovered from an RSS/Atom/podcast feed.
type FeedItem struct {
	URL       string
	Title     string
	Published time.Time
}

// Discover walks the configured feeds and returns up to perFeedLimit entries
// from each, newest first within a feed. A dead feed is logged and skipped.
func Discover(ctx context.Context, feedURLs []string, perFeedLimit int) []FeedItem {
	if perFeedLimit <= 0 {
		perFeedLimit = 5
	}
	parser := gofeed.NewParser()
	parser.UserAgent = curator.UserAgentBot

	var items []FeedItem
	for _, feedURL := range feedURLs {
		curator.IncrFeedRequests()
		feed, err := parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			slog.Warn("feed parse failed", slog.String("feed", feedURL), slog.Any("error", err))
			continue
		}
		count := 0
		for _, entry := range feed.Items {
			if entry.Link == "" {
				continue
			}
			item := FeedItem{URL: entry.Link, Title: entry.Title}
			if entry.PublishedParsed != nil {
				item.Published = *entry.PublishedParsed
			}
			items = append(items, item)
			count++
			if count >= perFeedLimit {
				break
			}
		}
		slog.Info("feed discovered", slog.String("feed", feedURL), slog.Int("items", count))
	}
	return items
}
