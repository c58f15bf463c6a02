package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Version set via ldflags during build
var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "brief",
	Short:   "Email request wizard service",
	Version: version,
	Long: `brief turns a short structured request (roles, context, an optional
reference document, a purpose and a few clarifications) into a business email
written for the recipient's discipline, using a hosted language model.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(summarizeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
