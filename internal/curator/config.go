package curator

import (
	"errors"
	"net/http"
	"time"

	stealth "github.com/anatolykoptev/go-stealth"
)

// Config holds all pipeline configuration, injected from main.
type Config struct {
	DataDir         string
	SourcesFile     string
	RequestInterval time.Duration
	FetchTimeout    time.Duration
	MaxContentChars int // rewrite input cap, runes
	MaxFieldChars   int // remote table field cap, runes

	LLMAPIBase         string
	LLMAPIKey          string
	LLMAPIKeyFallbacks []string
	LLMModels          []string // priority order, first is preferred
	LLMModelTimeouts   []time.Duration
	LLMTemperature     float64
	LLMMaxTokens       int

	BibiGPTAPIBase string
	BibiGPTAPIKey  string

	YouTubeAPIKey   string
	TranscriptLangs []string

	FeishuAppID     string
	FeishuAppSecret string
	FeishuAppToken  string
	FeishuTableID   string

	WebsiteOut string

	CacheMaxEntries      int
	CacheCleanupInterval time.Duration

	HTTPClient    *http.Client
	BrowserClient *stealth.BrowserClient // nil = fingerprinted fetching disabled
}

var cfg Config

// Cfg exposes the pipeline configuration for sub-packages (sources, bitable).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the pipeline with the given configuration.
func Init(c Config) {
	cfg = c
	Cfg = &cfg
}

// ValidateRewrite checks credentials required by the rewriting stage.
func ValidateRewrite() error {
	if cfg.LLMAPIKey == "" {
		return errors.New("LLM_API_KEY is not set")
	}
	if len(cfg.LLMModels) == 0 {
		return errors.New("LLM_MODELS is empty")
	}
	return nil
}

// ValidateTable checks credentials required by the remote table client.
func ValidateTable() error {
	switch {
	case cfg.FeishuAppID == "":
		return errors.New("FEISHU_APP_ID is not set")
	case cfg.FeishuAppSecret == "":
		return errors.New("FEISHU_APP_SECRET is not set")
	case cfg.FeishuAppToken == "":
		return errors.New("FEISHU_APP_TOKEN is not set")
	case cfg.FeishuTableID == "":
		return errors.New("FEISHU_TABLE_ID is not set")
	}
	return nil
}

// ValidateSubtitle checks credentials for the subtitle extraction service.
func ValidateSubtitle() error {
	if cfg.BibiGPTAPIKey == "" {
		return errors.New("BIBIGPT_API_KEY is not set")
	}
	return nil
}
