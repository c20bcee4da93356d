package curator

import "time"

// Item is one configured source to process.
type Item struct {
	URL      string `yaml:"url"`
	Platform string `yaml:"platform,omitempty"` // detected from URL when empty
	Title    string `yaml:"title,omitempty"`    // optional override
}

// Extraction is the platform-independent result of pulling one source:
// basic metadata plus the raw transcript or article body.
type Extraction struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Platform    string    `json:"platform"`
	Title       string    `json:"title"`
	Author      string    `json:"author,omitempty"`
	CoverURL    string    `json:"cover_url,omitempty"`
	Duration    int       `json:"duration,omitempty"` // seconds
	PublishedAt time.Time `json:"published_at,omitempty"`
	Transcript  string    `json:"transcript"`
}

// RewriteInput carries everything the prompt template needs.
type RewriteInput struct {
	Title      string
	Author     string
	Platform   string
	Transcript string
}

// RunOptions controls a batch run.
type RunOptions struct {
	Force      bool // ignore the processed ledger
	SkipUpload bool // local files only, no table sync
	Limit      int  // 0 = no limit
}
