package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_curator/internal/curator"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show processed-item totals from the ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := curator.NewStorage(curator.Cfg.DataDir)
		if err != nil {
			return err
		}
		total, byPlatform := store.Stats()
		fmt.Printf("processed items: %d\n", total)

		platforms := make([]string, 0, len(byPlatform))
		for p := range byPlatform {
			platforms = append(platforms, p)
		}
		sort.Strings(platforms)
		for _, p := range platforms {
			fmt.Printf("  %-10s %d\n", p, byPlatform[p])
		}

		hits, misses := curator.CacheStats()
		if hits+misses > 0 {
			fmt.Printf("cache: %d hits, %d misses\n", hits, misses)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
