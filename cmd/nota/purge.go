package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// purgeCmd represents the purge command
var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Permanently delete trashed items",
	Long: `Delete every item in the trash that is not referenced by another
item. Referenced items stay in the trash and are reported.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		svc, err := openService(ctx)
		if err != nil {
			fatal("Failed to open data file", err)
		}
		defer svc.Close(ctx)

		report, err := svc.EmptyTrash(ctx)
		if err != nil {
			fatal("Failed to empty trash", err)
		}

		fmt.Printf("Deleted %d item(s) from trash\n", len(report.Removed))
		for _, b := range report.Blocked {
			fmt.Printf("Kept %s: still referenced by %s\n", b.ID, b.Referrer)
		}
	},
}

func init() {
	rootCmd.AddCommand(purgeCmd)
}
