package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sentimentcsv/internal/config"
	"sentimentcsv/internal/dataset"
	"sentimentcsv/internal/pipeline"
	"sentimentcsv/internal/sentiment"
	"sentimentcsv/internal/transform"
)

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func newRunCmd(f *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Label the selected columns and save the result",
		Long: `Runs the batch transform:
  1. Load the input CSV
  2. Select target columns (exact name, or every column containing all keywords)
  3. Classify every cell of each target column
  4. Save the table with the new <column>_Sentiment columns`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			report, err := pipeline.Run(ctx, f.cfg, pipeline.Options{Logger: logger})
			if err != nil {
				return err
			}
			report.WriteSummary(cmd.OutOrStdout())
			return nil
		},
	}
}

func newClassifyCmd(f *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "classify TEXT...",
		Short: "Classify ad-hoc texts and print label<TAB>text",
		Example: `  sentimentcsv classify "Great coffee!" "Terrible, burnt taste"
  sentimentcsv classify --classifier huggingface "smooth and sweet"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			if f.cfg.Classifier == config.ClassifierGemini && f.cfg.GeminiAPIKey == "" {
				return errors.New("gemini_api_key is required for the gemini classifier (set GEMINI_API_KEY)")
			}
			c, err := pipeline.NewClassifier(ctx, f.cfg, logger)
			if err != nil {
				return fmt.Errorf("initialize %s classifier: %w", f.cfg.Classifier, err)
			}

			out := cmd.OutOrStdout()
			for _, text := range args {
				res := sentiment.Run(ctx, c, text, true)
				if res.Err != nil {
					logger.Warn("Classification failed, defaulting to Neutral",
						zap.String("text", text), zap.Error(res.Err))
				}
				fmt.Fprintf(out, "%s\t%s\n", res.Label, text)
			}
			return nil
		},
	}
}

func newColumnsCmd(f *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "columns",
		Short: "List the input columns and which ones would be analyzed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := f.cfg
			if strings.TrimSpace(cfg.InputFile) == "" {
				return config.ErrInputRequired
			}
			rule, err := cfg.Rule()
			if err != nil {
				return err
			}
			ds, err := dataset.LoadWithNA(cfg.InputFile, cfg.NAValues)
			if err != nil {
				return err
			}

			selected := make(map[string]bool)
			for _, name := range rule.Match(ds.Columns()) {
				selected[name] = true
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d rows, %d columns, rule %s\n", cfg.InputFile, ds.Len(), ds.Width(), rule)
			for _, name := range ds.Columns() {
				if selected[name] {
					fmt.Fprintf(out, "* %s -> %s\n", name, transform.DeriveName(name))
				} else {
					fmt.Fprintf(out, "  %s\n", name)
				}
			}
			if len(selected) == 0 {
				fmt.Fprintln(out, "no columns selected")
			}
			return nil
		},
	}
}
