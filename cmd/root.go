// Package cmd implements the curator command-line interface.
package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/anatolykoptev/go-stealth/proxypool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_curator/internal/bitable"
	"github.com/anatolykoptev/go_curator/internal/curator"
)

var version = "dev"

var debug bool

var rootCmd = &cobra.Command{
	Use:   "curator",
	Short: "Content-curation pipeline",
	Long: `curator pulls video, podcast, and article sources from configured
feeds, extracts transcripts and article bodies, rewrites them into
structured summaries, stores the results locally, and syncs them into a
Feishu Bitable table plus a static-website data file.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogging()
		initCurator()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("curator %s\n", version)
		},
	})
}

func initLogging() {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// initCurator assembles the pipeline configuration from the environment and
// initializes the engine package plus the extraction cache.
func initCurator() {
	c := curator.Config{
		DataDir:         env.Str("DATA_DIR", "extracted_content"),
		SourcesFile:     env.Str("SOURCES_FILE", "sources.yaml"),
		RequestInterval: env.Duration("REQUEST_INTERVAL", 3*time.Second),
		FetchTimeout:    env.Duration("FETCH_TIMEOUT", 30*time.Second),
		MaxContentChars: env.Int("MAX_CONTENT_CHARS", 50000),
		MaxFieldChars:   env.Int("MAX_FIELD_CHARS", 30000),

		LLMAPIBase:         env.Str("LLM_API_BASE", "https://generativelanguage.googleapis.com/v1beta/openai"),
		LLMAPIKey:          env.Str("LLM_API_KEY", ""),
		LLMAPIKeyFallbacks: env.List("LLM_API_KEY_FALLBACKS", ""),
		LLMModels:          env.List("LLM_MODELS", "gemini-2.5-pro,gemini-2.5-flash"),
		LLMTemperature:     env.Float("LLM_TEMPERATURE", 0.3),
		LLMMaxTokens:       env.Int("LLM_MAX_TOKENS", 16384),

		BibiGPTAPIBase: env.Str("BIBIGPT_API_BASE", "https://api.bibigpt.co/api/v1"),
		BibiGPTAPIKey:  env.Str("BIBIGPT_API_KEY", ""),

		YouTubeAPIKey:   env.Str("YOUTUBE_API_KEY", ""),
		TranscriptLangs: env.List("TRANSCRIPT_LANGS", "en,zh-Hans,zh"),

		FeishuAppID:     env.Str("FEISHU_APP_ID", ""),
		FeishuAppSecret: env.Str("FEISHU_APP_SECRET", ""),
		FeishuAppToken:  env.Str("FEISHU_APP_TOKEN", ""),
		FeishuTableID:   env.Str("FEISHU_TABLE_ID", ""),

		WebsiteOut: env.Str("WEBSITE_OUT", "public/data/articles.json"),

		CacheMaxEntries:      env.Int("CACHE_MAX_ENTRIES", 1000),
		CacheCleanupInterval: env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second),

		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}

	for i, timeout := range env.List("LLM_MODEL_TIMEOUTS", "") {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			slog.Warn("bad LLM_MODEL_TIMEOUTS entry, ignoring", slog.Int("index", i), slog.String("value", timeout))
			continue
		}
		c.LLMModelTimeouts = append(c.LLMModelTimeouts, d)
	}

	var opts []stealth.ClientOption
	opts = append(opts, stealth.WithTimeout(20))
	if apiKey := env.Str("WEBSHARE_API_KEY", ""); apiKey != "" {
		pool, err := proxypool.NewWebshare(apiKey)
		if err != nil {
			slog.Warn("proxy pool init failed, running without proxy", slog.Any("error", err))
		} else {
			opts = append(opts, stealth.WithProxyPool(pool))
			slog.Info("proxy pool initialized", slog.Int("proxies", pool.Len()))
		}
	}
	bc, err := stealth.NewClient(opts...)
	if err != nil {
		slog.Warn("stealth client init failed, article fallback disabled", slog.Any("error", err))
	} else {
		c.BrowserClient = bc
	}

	curator.Init(c)

	cacheTTL := env.Duration("CACHE_TTL", 7*24*time.Hour)
	curator.InitCache(env.Str("REDIS_URL", ""), cacheTTL, c.CacheMaxEntries, c.CacheCleanupInterval)
}

// newTableClient builds the Bitable client from the validated config.
func newTableClient() (*bitable.Client, error) {
	if err := curator.ValidateTable(); err != nil {
		return nil, err
	}
	return bitable.NewClient(bitable.Config{
		AppID:         curator.Cfg.FeishuAppID,
		AppSecret:     curator.Cfg.FeishuAppSecret,
		AppToken:      curator.Cfg.FeishuAppToken,
		TableID:       curator.Cfg.FeishuTableID,
		MaxFieldChars: curator.Cfg.MaxFieldChars,
		HTTPClient:    curator.Cfg.HTTPClient,
	}), nil
}
