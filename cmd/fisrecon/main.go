package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ecinar/fisrecon/internal/common"
	"github.com/ecinar/fisrecon/internal/extract"
	"github.com/ecinar/fisrecon/internal/llm"
	"github.com/ecinar/fisrecon/internal/llm/openai"
	"github.com/ecinar/fisrecon/internal/pipeline"
	"github.com/ecinar/fisrecon/internal/reconcile"
)

var rootCmd = &cobra.Command{
	Use:   "fisrecon",
	Short: "Reconcile fiscal documents extracted from OCR text",
	Long: `fisrecon turns noisy OCR markdown of Turkish receipts and invoices
into mathematically self-consistent records: subtotal, tax, per-rate
tax breakdown and grand total reconciled against the line items.

With OPENAI_API_KEY set, extraction is schema-guided via the model;
otherwise (or when the model call fails) a deterministic regex
fallback parser is used.`,
}

var processCmd = &cobra.Command{
	Use:   "process [ocr-markdown-file]",
	Short: "Extract and reconcile one document, printing the record as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runProcess,
}

func main() {
	if err := godotenv.Load(); err != nil {
		// .env is optional; environment variables still apply.
		slog.Debug("no .env file loaded", "error", err)
	}
	rootCmd.AddCommand(processCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return common.WrapError(err, "read ocr markdown")
	}

	var model extract.Extractor
	if cfg.LLM.APIKey != "" {
		client := openai.NewClient(openai.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		}, logger)
		model = llm.NewModelExtractor(client, logger)
	} else {
		logger.Info("no OPENAI_API_KEY configured, using regex fallback extraction")
	}

	proc := pipeline.NewProcessor(logger, model, extract.NewFallbackExtractor(logger), reconcile.NewReconciler(logger))
	record := proc.Process(context.Background(), string(raw))

	out, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return common.WrapError(err, "encode record")
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func newLogger(cfg common.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}
