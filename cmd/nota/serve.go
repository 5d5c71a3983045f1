package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var serveWatch bool

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve requests over stdin/stdout",
	Long: `Read newline-delimited JSON requests from stdin and write one JSON
response per line to stdout. With --watch the data file is reloaded when
it changes on disk.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, err := openService(ctx)
		if err != nil {
			fatal("Failed to open data file", err)
		}
		defer svc.Close(context.Background())

		if serveWatch {
			if err := svc.Watch(ctx); err != nil {
				fatal("File watch failed", err)
			}
		}

		if err := svc.Handler().Serve(ctx, os.Stdin, os.Stdout); err != nil {
			fatal("Serve failed", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Reload the data file when it changes on disk")
}
