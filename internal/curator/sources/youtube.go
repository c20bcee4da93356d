package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/anatolykoptev/go_curator/internal/curator"
)

// YouTube extraction is split across three files by responsibility:
//   youtube.go            — metadata (Data API v3 with oEmbed fallback) and the adapter entry point
//   youtube_innertube.go  — Innertube API types, constants, and low-level HTTP primitives
//   youtube_transcript.go — transcript fetching (page scrape + engagement panel + ANDROID player)

const (
	ytDataAPIURL = "https://www.googleapis.com/youtube/v3/videos"
	ytOEmbedURL  = "https://www.youtube.com/oembed"
)

// ExtractYouTube pulls metadata and the transcript for one YouTube video.
func ExtractYouTube(ctx context.Context, rawURL string) (curator.Extraction, error) {
	videoID := curator.ExtractItemID(curator.PlatformYouTube, rawURL)
	if len(videoID) != 11 {
		return curator.Extraction{}, fmt.Errorf("no video ID in %s", rawURL)
	}

	ext, err := fetchYouTubeMetadata(ctx, videoID)
	if err != nil {
		return curator.Extraction{}, fmt.Errorf("youtube metadata: %w", err)
	}
	ext.ID = videoID
	ext.URL = "https://www.youtube.com/watch?v=" + videoID
	ext.Platform = curator.PlatformYouTube

	transcript, err := FetchYouTubeTranscript(ctx, videoID, curator.Cfg.TranscriptLangs)
	if err != nil {
		return curator.Extraction{}, fmt.Errorf("youtube transcript: %w", err)
	}
	ext.Transcript = transcript
	return ext, nil
}

// fetchYouTubeMetadata prefers the Data API (duration + publish date) and
// falls back to keyless oEmbed.
func fetchYouTubeMetadata(ctx context.Context, videoID string) (curator.Extraction, error) {
	if curator.Cfg.YouTubeAPIKey != "" {
		ext, err := fetchViaDataAPI(ctx, videoID)
		if err == nil {
			return ext, nil
		}
	}
	return fetchViaOEmbed(ctx, videoID)
}

type ytDataAPIResp struct {
	Items []struct {
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			PublishedAt  string `json:"publishedAt"`
			Thumbnails   struct {
				High struct {
					URL string `json:"url"`
				} `json:"high"`
				Maxres struct {
					URL string `json:"url"`
				} `json:"maxres"`
			} `json:"thumbnails"`
		} `json:"snippet"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

func fetchViaDataAPI(ctx context.Context, videoID string) (curator.Extraction, error) {
	q := url.Values{}
	q.Set("part", "snippet,contentDetails")
	q.Set("id", videoID)
	q.Set("key", curator.Cfg.YouTubeAPIKey)

	resp, err := curator.RetryHTTP(ctx, curator.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ytDataAPIURL+"?"+q.Encode(), nil)
		if err != nil {
			return nil, err
		}
		return curator.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return curator.Extraction{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return curator.Extraction{}, fmt.Errorf("data API HTTP %d", resp.StatusCode)
	}

	var data ytDataAPIResp
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return curator.Extraction{}, err
	}
	if len(data.Items) == 0 {
		return curator.Extraction{}, errors.New("video not found")
	}

	item := data.Items[0]
	cover := item.Snippet.Thumbnails.Maxres.URL
	if cover == "" {
		cover = item.Snippet.Thumbnails.High.URL
	}
	ext := curator.Extraction{
		Title:    item.Snippet.Title,
		Author:   item.Snippet.ChannelTitle,
		CoverURL: cover,
		Duration: parseISO8601Duration(item.ContentDetails.Duration),
	}
	if t, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
		ext.PublishedAt = t
	}
	return ext, nil
}

func fetchViaOEmbed(ctx context.Context, videoID string) (curator.Extraction, error) {
	q := url.Values{}
	q.Set("url", "https://www.youtube.com/watch?v="+videoID)
	q.Set("format", "json")

	resp, err := curator.RetryHTTP(ctx, curator.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ytOEmbedURL+"?"+q.Encode(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", curator.UserAgentBot)
		return curator.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return curator.Extraction{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return curator.Extraction{}, fmt.Errorf("oembed HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return curator.Extraction{}, err
	}
	var oe struct {
		Title        string `json:"title"`
		AuthorName   string `json:"author_name"`
		ThumbnailURL string `json:"thumbnail_url"`
	}
	if err := json.Unmarshal(body, &oe); err != nil {
		return curator.Extraction{}, err
	}
	return curator.Extraction{
		Title:    oe.Title,
		Author:   oe.AuthorName,
		CoverURL: oe.ThumbnailURL,
	}, nil
}

var iso8601DurationRe = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// parseISO8601Duration converts a Data API duration (PT1H2M3S) to seconds.
// Returns 0 on anything it cannot parse.
func parseISO8601Duration(s string) int {
	m := iso8601DurationRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	sec, _ := strconv.Atoi(m[3])
	return h*3600 + min*60 + sec
}
