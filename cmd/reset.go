package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_curator/internal/curator"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the processed-item ledger",
	Long: `reset empties the ledger so every configured source is reprocessed on
the next run. The old ledger is kept as a timestamped backup. Stored
item directories are not touched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := curator.NewStorage(curator.Cfg.DataDir)
		if err != nil {
			return err
		}
		backup, err := store.ClearLedger()
		if err != nil {
			return err
		}
		if backup != "" {
			fmt.Printf("ledger cleared, backup at %s\n", backup)
		} else {
			fmt.Println("ledger was already empty")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}
