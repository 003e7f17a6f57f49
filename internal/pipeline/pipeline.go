// Package pipeline runs one load -> select -> classify -> save pass.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"sentimentcsv/internal/config"
	"sentimentcsv/internal/dataset"
	"sentimentcsv/internal/metrics"
	"sentimentcsv/internal/selector"
	"sentimentcsv/internal/sentiment"
	"sentimentcsv/internal/transform"
)

// Options carries collaborators that tests or callers may replace.
type Options struct {
	// Classifier overrides the one built from the config.
	Classifier sentiment.Classifier
	Logger     *zap.Logger
	Clock      clockwork.Clock
	Recorder   *metrics.Recorder
}

// Report describes a finished run.
type Report struct {
	RunID      string
	InputFile  string
	OutputFile string
	Classifier string
	Rule       string

	Rows          int
	Columns       int
	OutputColumns int

	Targets   []string
	Summaries []transform.ColumnSummary
	Generated []string

	// Written is false when no target column was found and nothing was saved.
	Written  bool
	Duration time.Duration
}

// NewClassifier builds the classifier selected by cfg.Classifier.
func NewClassifier(ctx context.Context, cfg *config.Config, logger *zap.Logger) (sentiment.Classifier, error) {
	switch cfg.Classifier {
	case config.ClassifierLexicon, "":
		var scorer sentiment.PolarityScorer
		if cfg.LexiconFile != "" {
			lex, err := sentiment.LoadLexicon(cfg.LexiconFile)
			if err != nil {
				return nil, err
			}
			scorer = lex
		}
		return sentiment.NewLexiconClassifier(scorer, cfg.Thresholds())
	case config.ClassifierHuggingFace:
		return sentiment.NewHuggingFace(ctx, sentiment.HuggingFaceConfig{
			BaseURL:           cfg.HFBaseURL,
			Token:             cfg.HFToken,
			Model:             cfg.HFModel,
			FallbackModel:     cfg.HFFallbackModel,
			MaxTextLength:     cfg.MaxTextLength,
			RequestsPerSecond: cfg.RequestsPerSecond,
			MaxAttempts:       cfg.MaxAttempts,
			Timeout:           cfg.RequestTimeout,
			Logger:            logger,
		})
	case config.ClassifierGemini:
		return sentiment.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.MaxTextLength)
	default:
		return nil, fmt.Errorf("unknown classifier %q", cfg.Classifier)
	}
}

// Run executes the batch transform described by cfg. Missing configuration, a
// missing input file and classifier start-up failures are returned as errors before
// any row is processed. A rule that matches no column is not an error: the report
// comes back with Written=false and the output is left untouched.
func Run(ctx context.Context, cfg *config.Config, opts Options) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	rec := opts.Recorder
	if rec == nil {
		rec = metrics.NewRecorder()
	}
	runID := uuid.NewString()
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("run_id", runID))
	start := clock.Now()

	rule, err := cfg.Rule()
	if err != nil {
		return nil, err
	}
	report := &Report{
		RunID:      runID,
		InputFile:  cfg.InputFile,
		OutputFile: cfg.OutputPath(),
		Rule:       rule.String(),
	}

	/* Load --------------------------------------------------------------- */
	ds, err := dataset.LoadWithNA(cfg.InputFile, cfg.NAValues)
	if err != nil {
		return nil, err
	}
	report.Rows, report.Columns = ds.Len(), ds.Width()
	rec.RowsLoaded.Set(float64(ds.Len()))
	logger.Info("Loaded dataset",
		zap.String("path", cfg.InputFile),
		zap.Int("rows", ds.Len()),
		zap.Int("columns", ds.Width()))

	/* Select ------------------------------------------------------------- */
	report.Targets = selector.Select(ds.Columns(), rule)
	if err := selector.Missing(ds.Columns(), rule); err != nil {
		logger.Warn("No columns to analyze",
			zap.String("rule", rule.String()),
			zap.Strings("available_columns", ds.Columns()))
		report.OutputColumns = ds.Width()
		return finish(report, rec, cfg, clock, start, logger)
	}
	logger.Info("Selected columns", zap.Strings("columns", report.Targets))

	/* Classify ----------------------------------------------------------- */
	classifier := opts.Classifier
	if classifier == nil {
		classifier, err = NewClassifier(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("initialize %s classifier: %w", cfg.Classifier, err)
		}
	}
	report.Classifier = classifier.Name()

	tr := transform.New(classifier, transform.Options{
		Workers:  cfg.Workers,
		Logger:   logger,
		Recorder: rec,
	})
	report.Summaries, err = tr.Apply(ctx, ds, report.Targets)
	if err != nil {
		return nil, err
	}
	for _, s := range report.Summaries {
		report.Generated = append(report.Generated, s.Target)
	}

	/* Save --------------------------------------------------------------- */
	if err := dataset.Save(ds, report.OutputFile); err != nil {
		return nil, fmt.Errorf("save %s: %w", report.OutputFile, err)
	}
	report.Written = true
	report.OutputColumns = ds.Width()
	logger.Info("Saved dataset",
		zap.String("path", report.OutputFile),
		zap.Int("rows", ds.Len()),
		zap.Int("columns", ds.Width()),
		zap.Strings("sentiment_columns", report.Generated))

	return finish(report, rec, cfg, clock, start, logger)
}

// finish stamps the duration and dumps metrics. The dataset has already been
// saved (or deliberately left alone), so a metrics failure only warns.
func finish(report *Report, rec *metrics.Recorder, cfg *config.Config, clock clockwork.Clock, start time.Time, logger *zap.Logger) (*Report, error) {
	report.Duration = clock.Since(start)
	rec.RunDuration.Set(report.Duration.Seconds())
	if cfg.MetricsFile == "" {
		return report, nil
	}
	if err := rec.WriteTextfile(cfg.MetricsFile); err != nil {
		logger.Warn("Could not write metrics file",
			zap.String("path", cfg.MetricsFile),
			zap.Error(err))
		return report, nil
	}
	logger.Debug("Wrote metrics", zap.String("path", cfg.MetricsFile))
	return report, nil
}

// WriteSummary prints a human-readable account of the run.
func (r *Report) WriteSummary(w io.Writer) {
	fmt.Fprintf(w, "Input:   %s (%d rows, %d columns)\n", r.InputFile, r.Rows, r.Columns)
	if !r.Written {
		fmt.Fprintf(w, "No columns matched %s; nothing written.\n", r.Rule)
		return
	}
	fmt.Fprintf(w, "Classifier: %s\n", r.Classifier)
	for _, s := range r.Summaries {
		fmt.Fprintf(w, "  %s -> %s: Positive=%d Negative=%d Neutral=%d",
			s.Source, s.Target,
			s.Counts[sentiment.Positive], s.Counts[sentiment.Negative], s.Counts[sentiment.Neutral])
		if s.Failures > 0 {
			fmt.Fprintf(w, " (failures=%d)", s.Failures)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "Output:  %s (%d rows, %d columns)\n", r.OutputFile, r.Rows, r.OutputColumns)
	fmt.Fprintf(w, "New columns: %s\n", strings.Join(r.Generated, ", "))
}
