package cmd

import (
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_curator/internal/curator"
	"github.com/anatolykoptev/go_curator/internal/website"
)

var (
	websiteOut    string
	websiteFull   bool
	websiteSkipTS bool
)

var websiteCmd = &cobra.Command{
	Use:   "website",
	Short: "Build the website data files from the remote table",
	Long: `website pulls the remote table and renders articles.json plus a typed
articles.ts next to it. Default is incremental: only records missing
from the existing file are built; --full rebuilds from scratch.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newTableClient()
		if err != nil {
			return err
		}

		out := websiteOut
		if out == "" {
			out = curator.Cfg.WebsiteOut
		}

		records, err := client.ListRecords(cmd.Context(), true)
		if err != nil {
			return err
		}

		var articles []website.Article
		if websiteFull {
			articles = website.Build(records)
			slog.Info("full rebuild", slog.Int("articles", len(articles)), slog.Int("records", len(records)))
		} else {
			existing, ids := website.LoadArticles(out)
			var added int
			articles, added = website.Incremental(existing, ids, records)
			slog.Info("incremental build", slog.Int("added", added), slog.Int("total", len(articles)))
		}

		if err := website.WriteJSON(out, articles); err != nil {
			return err
		}
		slog.Info("wrote", slog.String("file", out))

		if !websiteSkipTS {
			tsOut := strings.TrimSuffix(out, ".json") + ".ts"
			if err := website.WriteTS(tsOut, articles); err != nil {
				return err
			}
			slog.Info("wrote", slog.String("file", tsOut))
		}
		return nil
	},
}

func init() {
	websiteCmd.Flags().StringVar(&websiteOut, "out", "", "output path for articles.json")
	websiteCmd.Flags().BoolVar(&websiteFull, "full", false, "rebuild every article instead of appending new ones")
	websiteCmd.Flags().BoolVar(&websiteSkipTS, "skip-ts", false, "skip writing the .ts companion file")
	rootCmd.AddCommand(websiteCmd)
}
