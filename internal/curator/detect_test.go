package curator

import "testing"

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", PlatformYouTube},
		{"https://youtu.be/dQw4w9WgXcQ", PlatformYouTube},
		{"https://www.bilibili.com/video/BV1xx411c7mD", PlatformBilibili},
		{"https://b23.tv/abc123", PlatformBilibili},
		{"https://www.xiaoyuzhoufm.com/episode/65f1a2b3c4d5e6f7a8b9c0d1", PlatformPodcast},
		{"https://open.spotify.com/episode/4rOoJ6Egrf8K2IrywzwOMk", PlatformPodcast},
		{"https://podcasts.apple.com/us/podcast/id123", PlatformPodcast},
		{"https://mp.weixin.qq.com/s/AbCdEf", PlatformWeChat},
		{"https://zhuanlan.zhihu.com/p/123456", PlatformZhihu},
		{"https://juejin.cn/post/7000000000", PlatformJuejin},
		{"https://medium.com/@someone/a-post-1a2b3c", PlatformMedium},
		{"https://stratechery.substack.com/p/an-essay", PlatformSubstack},
		{"https://example.notion.site/Page-abc", PlatformNotion},
		{"https://example.com/blog/post", PlatformWeb},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := DetectPlatform(tt.url); got != tt.want {
				t.Errorf("DetectPlatform(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestCategoryFor(t *testing.T) {
	tests := []struct {
		platform string
		want     string
	}{
		{PlatformYouTube, CategoryVideo},
		{PlatformBilibili, CategoryVideo},
		{PlatformPodcast, CategoryPodcast},
		{PlatformWeChat, CategoryArticle},
		{PlatformWeb, CategoryArticle},
		{"", CategoryArticle},
	}
	for _, tt := range tests {
		if got := CategoryFor(tt.platform); got != tt.want {
			t.Errorf("CategoryFor(%q) = %q, want %q", tt.platform, got, tt.want)
		}
	}
}

func TestExtractItemID(t *testing.T) {
	tests := []struct {
		name     string
		platform string
		url      string
		want     string
	}{
		{"youtube watch", PlatformYouTube, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"youtube short link", PlatformYouTube, "https://youtu.be/dQw4w9WgXcQ?t=42", "dQw4w9WgXcQ"},
		{"youtube shorts", PlatformYouTube, "https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"bilibili", PlatformBilibili, "https://www.bilibili.com/video/BV1xx411c7mD", "BV1xx411c7mD"},
		{"podcast episode", PlatformPodcast, "https://www.xiaoyuzhoufm.com/episode/65f1a2b3", "65f1a2b3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractItemID(tt.platform, tt.url); got != tt.want {
				t.Errorf("ExtractItemID = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractItemID_HashFallback(t *testing.T) {
	a := ExtractItemID(PlatformWeb, "https://example.com/post")
	b := ExtractItemID(PlatformWeb, "https://example.com/post")
	c := ExtractItemID(PlatformWeb, "https://example.com/other")
	if a != b {
		t.Error("hash IDs must be deterministic")
	}
	if a == c {
		t.Error("different URLs must hash to different IDs")
	}
	if len(a) != 12 {
		t.Errorf("hash ID length = %d, want 12", len(a))
	}
}
