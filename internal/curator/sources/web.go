package sources

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/anatolykoptev/go_curator/internal/curator"
)

// ExtractArticle pulls an article body and metadata from any web URL.
// Plain HTTP fetch first; a blocked response falls back to the
// Chrome-fingerprint browser client when one is configured. The body goes
// through go-readability, then HTML→Markdown; goquery meta tags fill the
// gaps readability leaves.
func ExtractArticle(ctx context.Context, rawURL string) (curator.Extraction, error) {
	ctx, cancel := context.WithTimeout(ctx, curator.Cfg.FetchTimeout)
	defer cancel()

	body, err := fetchArticleHTML(ctx, rawURL)
	if err != nil {
		return curator.Extraction{}, fmt.Errorf("fetch article: %w", err)
	}

	parsedURL, _ := url.Parse(rawURL)
	article, err := readability.FromReader(bytes.NewReader(body), parsedURL)
	if err != nil {
		return curator.Extraction{}, fmt.Errorf("readability: %w", err)
	}

	content, err := htmltomarkdown.ConvertString(article.Content)
	if err != nil {
		content = article.TextContent
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return curator.Extraction{}, fmt.Errorf("no article body in %s", rawURL)
	}

	ext := curator.Extraction{
		URL:        rawURL,
		Platform:   curator.DetectPlatform(rawURL),
		Title:      article.Title,
		Author:     strings.TrimSpace(article.Byline),
		CoverURL:   article.Image,
		Transcript: content,
	}
	if article.PublishedTime != nil {
		ext.PublishedAt = *article.PublishedTime
	}

	fillFromMeta(&ext, body)
	if ext.Author == "" {
		ext.Author = "Unknown"
	}
	return ext, nil
}

// fetchArticleHTML fetches a page, falling back to the fingerprinted browser
// client when the plain client is blocked or fails.
func fetchArticleHTML(ctx context.Context, rawURL string) ([]byte, error) {
	resp, err := curator.FetchWithRetry(ctx, rawURL, true)
	if err == nil {
		defer resp.Body.Close()
		return curator.ReadResponseBody(resp)
	}

	if curator.Cfg.BrowserClient == nil {
		return nil, err
	}
	slog.Debug("plain fetch failed, trying browser client", slog.String("url", rawURL), slog.Any("error", err))

	headers := curator.ChromeHeaders()
	data, _, status, berr := curator.Cfg.BrowserClient.Do("GET", rawURL, headers, nil)
	if berr != nil {
		return nil, fmt.Errorf("browser fetch: %w", berr)
	}
	if status != 200 {
		return nil, fmt.Errorf("browser fetch status %d", status)
	}
	return data, nil
}

// fillFromMeta fills blank Extraction fields from og:/twitter:/meta tags and,
// as a last resort for the cover, the first content image.
func fillFromMeta(ext *curator.Extraction, body []byte) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return
	}

	meta := func(selectors ...string) string {
		for _, sel := range selectors {
			if v, ok := doc.Find(sel).First().Attr("content"); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
		return ""
	}

	if ext.Title == "" {
		ext.Title = meta(`meta[property="og:title"]`, `meta[name="twitter:title"]`)
	}
	if ext.Author == "" {
		ext.Author = meta(
			`meta[name="author"]`,
			`meta[property="og:article:author"]`,
			`meta[property="article:author"]`,
			`meta[name="twitter:creator"]`,
			`meta[property="og:site_name"]`,
		)
	}
	if ext.CoverURL == "" {
		ext.CoverURL = meta(`meta[property="og:image"]`, `meta[name="twitter:image"]`)
	}
	if ext.CoverURL == "" {
		if src, ok := doc.Find("article img, main img, img").First().Attr("src"); ok {
			ext.CoverURL = src
		}
	}
	if ext.PublishedAt.IsZero() {
		if v := meta(`meta[property="article:published_time"]`, `meta[name="date"]`); v != "" {
			for _, layout := range []string{time.RFC3339, "2006-01-02"} {
				if t, err := time.Parse(layout, v); err == nil {
					ext.PublishedAt = t
					break
				}
			}
		}
	}
}
