package cmd

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_curator/internal/bitable"
	"github.com/anatolykoptev/go_curator/internal/curator"
)

var tableLimit int

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Process pending rows from the remote table",
	Long: `table lists the remote table, picks rows that carry a source link but
no upload timestamp, and runs each through the full pipeline. Rows are
processed even when the local ledger already has them, since a pending
row means the remote side never got the content.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := curator.ValidateRewrite(); err != nil {
			return err
		}
		client, err := newTableClient()
		if err != nil {
			return err
		}

		records, err := client.ListRecords(cmd.Context(), true)
		if err != nil {
			return err
		}
		pending := bitable.PendingRecords(records)
		if tableLimit > 0 && len(pending) > tableLimit {
			pending = pending[:tableLimit]
		}
		slog.Info("pending rows", slog.Int("count", len(pending)), slog.Int("total", len(records)))
		if len(pending) == 0 {
			return nil
		}

		p, err := newPipeline(false)
		if err != nil {
			return err
		}

		for i, rec := range pending {
			if cmd.Context().Err() != nil {
				slog.Warn("canceled", slog.Int("remaining", len(pending)-i))
				return nil
			}
			slog.Info("processing row",
				slog.Int("n", i+1), slog.Int("of", len(pending)),
				slog.String("url", rec.SourceLink), slog.String("title", rec.Title),
			)
			item := curator.Item{URL: rec.SourceLink, Title: rec.Title}
			if err := p.ProcessItem(cmd.Context(), item, curator.RunOptions{Force: true}); err != nil {
				slog.Error("row failed", slog.String("url", rec.SourceLink), slog.Any("error", err))
			}
			if i < len(pending)-1 && curator.Cfg.RequestInterval > 0 {
				time.Sleep(curator.Cfg.RequestInterval)
			}
		}
		curator.LogMetrics()
		return nil
	},
}

func init() {
	tableCmd.Flags().IntVar(&tableLimit, "limit", 0, "process at most N pending rows (0 = all)")
	rootCmd.AddCommand(tableCmd)
}
