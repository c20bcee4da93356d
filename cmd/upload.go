package cmd

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_curator/internal/curator"
)

var (
	uploadDir     string
	uploadRewrite bool
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Re-upload locally stored items to the remote table",
	Long: `upload walks the data directory, reads each item's stored files back,
and syncs it into the remote table. Useful after a table wipe or when
earlier runs used --skip-upload. With --rewrite, items whose rewritten.md
is a failure placeholder are sent through the rewriter again first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newTableClient()
		if err != nil {
			return err
		}

		root := uploadDir
		if root == "" {
			root = curator.Cfg.DataDir
		}
		entries, err := os.ReadDir(root)
		if err != nil {
			return err
		}

		var rewriter *curator.Rewriter
		var store *curator.Storage
		if uploadRewrite {
			if err := curator.ValidateRewrite(); err != nil {
				return err
			}
			rewriter = curator.NewRewriter(*curator.Cfg)
			if store, err = curator.NewStorage(root); err != nil {
				return err
			}
		}

		var done, failed, rewrote int
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			dir := filepath.Join(root, e.Name())
			files, err := curator.LoadItemDir(dir)
			if err != nil {
				slog.Warn("skipping dir", slog.String("dir", dir), slog.Any("error", err))
				continue
			}
			ext := extractionFromFiles(files)
			if ext.URL == "" || ext.Title == "" {
				slog.Warn("incomplete metadata, skipping", slog.String("dir", dir))
				continue
			}

			if uploadRewrite && curator.IsFallbackDocument(files.Rewritten) {
				out, err := rewriter.Rewrite(cmd.Context(), curator.RewriteInput{
					Title:      ext.Title,
					Author:     ext.Author,
					Platform:   ext.Platform,
					Transcript: ext.Transcript,
				})
				if err != nil {
					slog.Error("rewrite retry failed", slog.String("title", ext.Title), slog.Any("error", err))
					failed++
					continue
				}
				if _, err := store.SaveAll(ext, ext.Transcript, out); err != nil {
					slog.Error("save after rewrite failed", slog.String("title", ext.Title), slog.Any("error", err))
					failed++
					continue
				}
				files.Rewritten = out
				rewrote++
			}

			action, err := client.UploadItem(cmd.Context(), ext, files.Rewritten)
			if err != nil {
				slog.Error("upload failed", slog.String("title", ext.Title), slog.Any("error", err))
				failed++
				continue
			}
			slog.Info("uploaded", slog.String("title", ext.Title), slog.String("action", action))
			done++

			if curator.Cfg.RequestInterval > 0 {
				time.Sleep(curator.Cfg.RequestInterval)
			}
		}
		slog.Info("re-upload done",
			slog.Int("uploaded", done), slog.Int("rewritten", rewrote), slog.Int("failed", failed))
		return nil
	},
}

func init() {
	uploadCmd.Flags().StringVar(&uploadDir, "dir", "", "item directory root (default: data dir)")
	uploadCmd.Flags().BoolVar(&uploadRewrite, "rewrite", false, "re-run rewriting for items with a failed-rewrite placeholder")
	rootCmd.AddCommand(uploadCmd)
}

// extractionFromFiles rebuilds the extraction from a stored metadata table.
func extractionFromFiles(f curator.ItemFiles) curator.Extraction {
	ext := curator.Extraction{
		ID:         strings.Trim(f.Meta["ID"], "`"),
		URL:        f.SourceURL,
		Platform:   strings.ToLower(f.Meta["Platform"]),
		Title:      f.Meta["Title"],
		Author:     f.Meta["Author"],
		CoverURL:   f.CoverURL,
		Transcript: curator.RawTranscript(f.Transcript),
	}
	if ext.Platform == "" && ext.URL != "" {
		ext.Platform = curator.DetectPlatform(ext.URL)
	}
	if ext.ID == "" && ext.URL != "" {
		ext.ID = curator.ExtractItemID(ext.Platform, ext.URL)
	}
	if published, err := time.Parse("2006-01-02", f.Meta["Published"]); err == nil {
		ext.PublishedAt = published
	}
	return ext
}
