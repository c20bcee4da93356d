package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/anatolykoptev/go_curator/internal/curator"
	"github.com/anatolykoptev/go_curator/internal/curator/sources"
)

// sourcesFile is the on-disk format of sources.yaml.
type sourcesFile struct {
	Items []curator.Item `yaml:"items"`
	Feeds []string       `yaml:"feeds"`
}

var (
	runDiscover   bool
	runForce      bool
	runSkipUpload bool
	runLimit      int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process the configured sources",
	Long: `run reads sources.yaml, optionally discovers recent entries from the
configured feeds, and pushes each item through extraction, rewriting,
local storage, and the remote table sync.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := curator.ValidateRewrite(); err != nil {
			return err
		}

		src, err := loadSources(curator.Cfg.SourcesFile)
		if err != nil {
			return err
		}

		items := src.Items
		if runDiscover && len(src.Feeds) > 0 {
			found := sources.Discover(cmd.Context(), src.Feeds, 0)
			for _, f := range found {
				items = append(items, curator.Item{URL: f.URL, Title: f.Title})
			}
			slog.Info("feed discovery done", slog.Int("found", len(found)))
		}
		if len(items) == 0 {
			slog.Info("nothing to process")
			return nil
		}

		p, err := newPipeline(runSkipUpload)
		if err != nil {
			return err
		}
		p.RunBatch(cmd.Context(), items, curator.RunOptions{
			Force:      runForce,
			SkipUpload: runSkipUpload,
			Limit:      runLimit,
		})
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runDiscover, "discover", false, "pull recent entries from configured feeds")
	runCmd.Flags().BoolVar(&runForce, "force", false, "reprocess items already in the ledger")
	runCmd.Flags().BoolVar(&runSkipUpload, "skip-upload", false, "store locally, skip the table sync")
	runCmd.Flags().IntVar(&runLimit, "limit", 0, "process at most N items (0 = all)")
	rootCmd.AddCommand(runCmd)
}

func loadSources(path string) (sourcesFile, error) {
	var src sourcesFile
	data, err := os.ReadFile(path)
	if err != nil {
		return src, fmt.Errorf("read sources file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &src); err != nil {
		return src, fmt.Errorf("parse sources file %s: %w", path, err)
	}
	return src, nil
}

// newPipeline wires the standard pipeline. The uploader is left nil when the
// run is local-only so table credentials are not required.
func newPipeline(skipUpload bool) (*curator.Pipeline, error) {
	store, err := curator.NewStorage(curator.Cfg.DataDir)
	if err != nil {
		return nil, err
	}
	p := &curator.Pipeline{
		Extract: sources.Extract,
		Store:   store,
		Rewrite: curator.NewRewriter(*curator.Cfg),
	}
	if !skipUpload {
		client, err := newTableClient()
		if err != nil {
			return nil, err
		}
		p.Upload = client
	}
	return p, nil
}
