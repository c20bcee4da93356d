package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/anatolykoptev/go_curator/internal/curator"
)

// BibiGPT subtitle service. Handles bilibili and podcast URLs (and anything
// else the service supports) through one endpoint: GET /getSubtitle returns
// video metadata plus the full subtitle array.

type bibigptResp struct {
	Success bool          `json:"success"`
	Detail  bibigptDetail `json:"detail"`
	Message string        `json:"message"`
}

type bibigptDetail struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	Cover         string `json:"cover"`
	Duration      int    `json:"duration"`
	PublishedDate string `json:"publishedDate"`
	URL           string `json:"url"`
	Type          string `json:"type"`
	Subtitles     []struct {
		Text    string  `json:"text"`
		Speaker string  `json:"speaker"`
		Start   float64 `json:"start"`
	} `json:"subtitlesArray"`
}

// FetchSubtitle pulls subtitles and metadata for one URL from BibiGPT.
// 401/403 mean a bad key and are not retried.
func FetchSubtitle(ctx context.Context, rawURL string) (curator.Extraction, error) {
	if curator.Cfg.BibiGPTAPIKey == "" {
		return curator.Extraction{}, errors.New("BIBIGPT_API_KEY is not set")
	}

	q := url.Values{}
	q.Set("url", rawURL)
	q.Set("enabledSpeaker", "true")
	endpoint := strings.TrimRight(curator.Cfg.BibiGPTAPIBase, "/") + "/getSubtitle?" + q.Encode()

	resp, err := curator.RetryHTTP(ctx, curator.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+curator.Cfg.BibiGPTAPIKey)
		req.Header.Set("Accept", "application/json")
		return curator.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return curator.Extraction{}, fmt.Errorf("bibigpt: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return curator.Extraction{}, fmt.Errorf("bibigpt auth failed (HTTP %d): check API key", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return curator.Extraction{}, fmt.Errorf("bibigpt HTTP %d: %s", resp.StatusCode, snippet)
	}

	var data bibigptResp
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return curator.Extraction{}, fmt.Errorf("bibigpt decode: %w", err)
	}
	if !data.Success {
		return curator.Extraction{}, fmt.Errorf("bibigpt error: %s", data.Message)
	}
	if len(data.Detail.Subtitles) == 0 {
		return curator.Extraction{}, errors.New("bibigpt returned no subtitles")
	}

	var sb strings.Builder
	lastSpeaker := ""
	for _, seg := range data.Detail.Subtitles {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		if seg.Speaker != "" && seg.Speaker != lastSpeaker {
			if sb.Len() > 0 {
				sb.WriteString("\n\n")
			}
			sb.WriteString(seg.Speaker)
			sb.WriteString(": ")
			lastSpeaker = seg.Speaker
		} else if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(text)
	}

	ext := curator.Extraction{
		ID:         data.Detail.ID,
		URL:        data.Detail.URL,
		Title:      data.Detail.Title,
		Author:     data.Detail.Author,
		CoverURL:   data.Detail.Cover,
		Duration:   data.Detail.Duration,
		Transcript: sb.String(),
	}
	if data.Detail.URL == "" {
		ext.URL = rawURL
	}
	ext.PublishedAt = parseLooseDate(data.Detail.PublishedDate)
	return ext, nil
}

// parseLooseDate accepts the date formats the subtitle service is known to
// emit. Zero time on anything else.
func parseLooseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, "2006-01-02", "20060102", "2006/01/02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
