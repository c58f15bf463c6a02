package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/brief/internal/config"
	"github.com/MikeSquared-Agency/brief/internal/gateway"
	"github.com/MikeSquared-Agency/brief/internal/ingest"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <path>",
	Short: "Summarize a reference document the way uploads are summarized",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummarize,
}

func runSummarize(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	record, err := ingest.Ingest(path, f)
	if err != nil {
		return err
	}

	model, err := gateway.NewModel(cfg)
	if err != nil {
		return fmt.Errorf("model provider: %w", err)
	}
	gw := gateway.New(model, cfg.MaxTokens, slog.Default(), nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.GenerationTimeout)
	defer cancel()

	summary, err := gw.Summarize(ctx, record.Name, record.Content)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), summary)
	return nil
}
