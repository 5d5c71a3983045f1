package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var moveStart string

// moveCmd represents the move command
var moveCmd = &cobra.Command{
	Use:   "move <status> <id>...",
	Short: "Change the status of one or more items",
	Long: `Move items to a new status. Each id is handled independently;
a failure on one id does not stop the others. Completing a recurring
item schedules its next occurrence.`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		status := args[0]
		ids := args[1:]

		ctx := context.Background()
		svc, err := openService(ctx)
		if err != nil {
			fatal("Failed to open data file", err)
		}
		defer svc.Close(ctx)

		outcomes, err := svc.ChangeStatus(ctx, ids, status, moveStart)
		if err != nil {
			fatal("Failed to change status", err)
		}

		failed := 0
		for _, o := range outcomes {
			if o.OK() {
				fmt.Printf("%s: %s -> %s\n", o.ID, o.From, o.To)
				if o.NextID != "" {
					fmt.Printf("  Next occurrence created: %s on %s\n", o.NextID, o.NextDate)
				}
				continue
			}
			failed++
			fmt.Fprintf(os.Stderr, "%s: %v\n", o.ID, o.Err)
		}
		if failed > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(moveCmd)
	moveCmd.Flags().StringVar(&moveStart, "start", "", "Start date for calendar moves (YYYY-MM-DD)")
}
