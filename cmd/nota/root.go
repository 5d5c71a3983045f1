package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose  bool
	dataFile string
	gitSync  bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nota",
	Short: "A git-backed task engine with a unified record model",
	Long: `Nota keeps tasks, projects and contexts in one versioned YAML file.
Every record shares a single shape and moves through its life cycle by
status changes; completed recurring items schedule their next occurrence.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&dataFile, "file", "f", "tasks.yaml", "Path to the data file")
	rootCmd.PersistentFlags().BoolVar(&gitSync, "sync", false, "Pull before loading and push after saving")
}
