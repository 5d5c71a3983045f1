package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/notahq/nota"
)

var (
	captureID         string
	captureTitle      string
	captureStatus     string
	captureProject    string
	captureContext    string
	captureNotes      string
	captureStart      string
	captureRecurrence string
	captureRecConfig  string
)

// captureCmd represents the capture command
var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture a new item",
	Long: `Capture a new item into the data file. Without --status the item
lands in the inbox; a generated id is used when --id is omitted.`,
	Run: func(cmd *cobra.Command, args []string) {
		id := captureID
		if id == "" {
			id = uuid.NewString()
		}

		ctx := context.Background()
		svc, err := openService(ctx)
		if err != nil {
			fatal("Failed to open data file", err)
		}
		defer svc.Close(ctx)

		n, err := svc.Capture(ctx, nota.CaptureInput{
			ID:               id,
			Title:            captureTitle,
			Status:           captureStatus,
			Project:          captureProject,
			Context:          captureContext,
			Notes:            captureNotes,
			StartDate:        captureStart,
			Recurrence:       captureRecurrence,
			RecurrenceConfig: captureRecConfig,
		})
		if err != nil {
			fatal("Failed to capture item", err)
		}

		fmt.Printf("Captured [%s] %s (status: %s)\n", n.ID, n.Title, n.Status)
	},
}

func openService(ctx context.Context) (*nota.Service, error) {
	return nota.Open(ctx, dataFile,
		nota.WithSync(gitSync),
		nota.WithLogger(slog.Default()),
	)
}

func init() {
	rootCmd.AddCommand(captureCmd)
	captureCmd.Flags().StringVar(&captureID, "id", "", "Item id (generated when omitted)")
	captureCmd.Flags().StringVarP(&captureTitle, "title", "t", "", "Item title")
	captureCmd.Flags().StringVarP(&captureStatus, "status", "s", "", "Initial status (default inbox)")
	captureCmd.Flags().StringVarP(&captureProject, "project", "p", "", "Project id the item belongs to")
	captureCmd.Flags().StringVarP(&captureContext, "context", "c", "", "Context id for the item")
	captureCmd.Flags().StringVarP(&captureNotes, "notes", "n", "", "Free-form notes")
	captureCmd.Flags().StringVar(&captureStart, "start", "", "Start date (YYYY-MM-DD), required for calendar items")
	captureCmd.Flags().StringVar(&captureRecurrence, "recurrence", "", "Recurrence pattern (daily, weekly, monthly, yearly)")
	captureCmd.Flags().StringVar(&captureRecConfig, "recurrence-config", "", "Recurrence detail (weekday names or day numbers)")
	captureCmd.MarkFlagRequired("title")
}
