package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/notahq/nota"
)

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields of an existing item",
	Long: `Update selected fields of an item. Only flags that are set change
the record; passing an empty value clears an optional field.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := args[0]

		var in nota.ModifyInput
		set := func(name string, dst **string) {
			if cmd.Flags().Changed(name) {
				v, _ := cmd.Flags().GetString(name)
				*dst = &v
			}
		}
		set("title", &in.Title)
		set("status", &in.Status)
		set("project", &in.Project)
		set("context", &in.Context)
		set("notes", &in.Notes)
		set("start", &in.StartDate)
		set("recurrence", &in.Recurrence)
		set("recurrence-config", &in.RecurrenceConfig)

		ctx := context.Background()
		svc, err := openService(ctx)
		if err != nil {
			fatal("Failed to open data file", err)
		}
		defer svc.Close(ctx)

		n, err := svc.Modify(ctx, id, in)
		if err != nil {
			fatal("Failed to update item", err)
		}

		fmt.Printf("Updated [%s] %s (status: %s)\n", n.ID, n.Title, n.Status)
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().StringP("title", "t", "", "New title")
	updateCmd.Flags().StringP("status", "s", "", "New status")
	updateCmd.Flags().StringP("project", "p", "", "New project id (empty clears)")
	updateCmd.Flags().StringP("context", "c", "", "New context id (empty clears)")
	updateCmd.Flags().StringP("notes", "n", "", "New notes (empty clears)")
	updateCmd.Flags().String("start", "", "New start date (empty clears)")
	updateCmd.Flags().String("recurrence", "", "New recurrence pattern (empty clears)")
	updateCmd.Flags().String("recurrence-config", "", "New recurrence detail")
}
