package curator

import (
	"crypto/sha256"
	"fmt"
	"regexp"
	"strings"
)

// Platform tags used across the pipeline and the remote table.
const (
	PlatformYouTube  = "youtube"
	PlatformBilibili = "bilibili"
	PlatformPodcast  = "podcast"
	PlatformWeChat   = "wechat"
	PlatformZhihu    = "zhihu"
	PlatformJuejin   = "juejin"
	PlatformMedium   = "medium"
	PlatformSubstack = "substack"
	PlatformNotion   = "notion"
	PlatformWeb      = "web"
)

// Categories derived from the platform for the remote table and website.
const (
	CategoryVideo   = "video"
	CategoryPodcast = "podcast"
	CategoryArticle = "article"
)

// DetectPlatform classifies a source URL by simple pattern matching.
// Pure string matching, no IO.
func DetectPlatform(rawURL string) string {
	u := strings.ToLower(rawURL)

	switch {
	case strings.Contains(u, "youtube.com"), strings.Contains(u, "youtu.be"):
		return PlatformYouTube
	case strings.Contains(u, "bilibili.com"), strings.Contains(u, "b23.tv"):
		return PlatformBilibili
	}

	podcastPatterns := []string{
		"xiaoyuzhoufm.com", "spotify.com", "podcasts.apple.com",
		"podcasts.google.com", "pocketcasts.com",
	}
	for _, p := range podcastPatterns {
		if strings.Contains(u, p) {
			return PlatformPodcast
		}
	}

	articlePlatforms := map[string]string{
		"mp.weixin.qq.com": PlatformWeChat,
		"zhihu.com":        PlatformZhihu,
		"juejin.cn":        PlatformJuejin,
		"medium.com":       PlatformMedium,
		"substack.com":     PlatformSubstack,
		"notion.site":      PlatformNotion,
	}
	for p, tag := range articlePlatforms {
		if strings.Contains(u, p) {
			return tag
		}
	}

	return PlatformWeb
}

// CategoryFor maps a platform tag to its content category.
func CategoryFor(platform string) string {
	switch platform {
	case PlatformYouTube, PlatformBilibili:
		return CategoryVideo
	case PlatformPodcast:
		return CategoryPodcast
	default:
		return CategoryArticle
	}
}

var (
	youtubeIDRe  = regexp.MustCompile(`(?:v=|/v/|/embed/|/shorts/|youtu\.be/)([a-zA-Z0-9_-]{11})`)
	bilibiliIDRe = regexp.MustCompile(`(BV[a-zA-Z0-9]{10})`)
	episodeIDRe  = regexp.MustCompile(`/episode/([a-zA-Z0-9]+)`)
)

// ExtractItemID derives a stable item identifier from a source URL.
// Video and episode IDs come from the URL itself; everything else gets a
// short content hash so article URLs stay ledger-stable across runs.
func ExtractItemID(platform, rawURL string) string {
	switch platform {
	case PlatformYouTube:
		if m := youtubeIDRe.FindStringSubmatch(rawURL); len(m) > 1 {
			return m[1]
		}
	case PlatformBilibili:
		if m := bilibiliIDRe.FindStringSubmatch(rawURL); len(m) > 1 {
			return m[1]
		}
	case PlatformPodcast:
		if m := episodeIDRe.FindStringSubmatch(rawURL); len(m) > 1 {
			return m[1]
		}
	}
	return HashID(rawURL)
}

// HashID returns a short deterministic identifier for a URL.
func HashID(rawURL string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(rawURL)))
	return fmt.Sprintf("%x", sum[:6])
}
