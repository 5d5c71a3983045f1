package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/notahq/nota"
)

var (
	listJSON    bool
	listStatus  string
	listDate    string
	listKeyword string
	listProject string
	listContext string
	listBrief   bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List items in the data file",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		svc, err := openService(ctx)
		if err != nil {
			fmt.Printf("Error opening data file: %v\n", err)
			os.Exit(1)
		}
		defer svc.Close(ctx)

		notas, err := svc.List(nota.Filter{
			Status:       listStatus,
			Date:         listDate,
			Keyword:      listKeyword,
			Project:      listProject,
			Context:      listContext,
			ExcludeNotes: listBrief,
		})
		if err != nil {
			fmt.Printf("Error listing items: %v\n", err)
			os.Exit(1)
		}

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(notas); err != nil {
				fmt.Printf("Error encoding JSON: %v\n", err)
				os.Exit(1)
			}
			return
		}

		if len(notas) == 0 {
			fmt.Println("No items found")
			return
		}
		for _, n := range notas {
			fmt.Printf("[%s] %s (status: %s)\n", n.ID, n.Title, n.Status)
			if n.Project != "" {
				fmt.Printf("  Project: %s\n", n.Project)
			}
			if n.Context != "" {
				fmt.Printf("  Context: %s\n", n.Context)
			}
			if n.StartDate != nil {
				fmt.Printf("  Start date: %s\n", n.StartDate)
			}
			if !listBrief && n.Notes != "" {
				fmt.Printf("  Notes: %s\n", n.Notes)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVarP(&listStatus, "status", "s", "", "Filter by status")
	listCmd.Flags().StringVarP(&listDate, "date", "d", "", "Hide calendar items starting after this date (YYYY-MM-DD)")
	listCmd.Flags().StringVarP(&listKeyword, "keyword", "k", "", "Filter by keyword in id, title or notes")
	listCmd.Flags().StringVarP(&listProject, "project", "p", "", "Filter by project id")
	listCmd.Flags().StringVarP(&listContext, "context", "c", "", "Filter by context id")
	listCmd.Flags().BoolVar(&listBrief, "brief", false, "Omit notes from the output")
}
