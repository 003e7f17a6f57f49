// Package transform applies a sentiment classifier to dataset columns.
package transform

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"sentimentcsv/internal/dataset"
	"sentimentcsv/internal/metrics"
	"sentimentcsv/internal/sentiment"
)

const suffix = "_Sentiment"

var nameReplacer = strings.NewReplacer(" ", "_", "-", "_")

// DeriveName returns the sentiment column name for a source column: spaces and
// hyphens become underscores and "_Sentiment" is appended.
func DeriveName(column string) string {
	return nameReplacer.Replace(column) + suffix
}

// Options tunes a Transformer.
type Options struct {
	// Workers classifying cells concurrently; values below 2 run sequentially.
	Workers  int
	Logger   *zap.Logger
	Recorder *metrics.Recorder
}

// Transformer adds one sentiment column per target column.
type Transformer struct {
	classifier sentiment.Classifier
	workers    int
	logger     *zap.Logger
	recorder   *metrics.Recorder
}

// New returns a Transformer that labels cells with c.
func New(c sentiment.Classifier, opts Options) *Transformer {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transformer{
		classifier: c,
		workers:    max(opts.Workers, 1),
		logger:     logger,
		recorder:   opts.Recorder,
	}
}

// ColumnSummary is the label distribution of one generated column.
type ColumnSummary struct {
	Source   string
	Target   string
	Counts   map[sentiment.Label]int
	Failures int
}

// Apply classifies every cell of each target column and writes the labels to the
// derived column. Failed cells are labelled Neutral and counted in Failures.
func (t *Transformer) Apply(ctx context.Context, ds *dataset.Dataset, targets []string) ([]ColumnSummary, error) {
	summaries := make([]ColumnSummary, 0, len(targets))
	written := make(map[string]string, len(targets))

	for _, col := range targets {
		cells, ok := ds.Column(col)
		if !ok {
			return nil, fmt.Errorf("column %q not in dataset", col)
		}
		target := DeriveName(col)
		if prev, dup := written[target]; dup {
			t.logger.Warn("Derived sentiment column collides, skipping",
				zap.String("column", col),
				zap.String("sentiment_column", target),
				zap.String("already_written_for", prev))
			continue
		}

		t.logger.Info("Analyzing column",
			zap.String("column", col),
			zap.Int("rows", len(cells)),
			zap.String("classifier", t.classifier.Name()))

		results, err := t.classifyColumn(ctx, cells)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col, err)
		}

		summary := ColumnSummary{
			Source: col,
			Target: target,
			Counts: make(map[sentiment.Label]int, len(sentiment.Labels)),
		}
		values := make([]dataset.Cell, len(results))
		for row, res := range results {
			if res.Err != nil {
				summary.Failures++
				t.logger.Debug("Classification failed, using Neutral",
					zap.String("column", col),
					zap.Int("row", row+1),
					zap.Error(res.Err))
			}
			summary.Counts[res.Label]++
			values[row] = dataset.Text(res.Label.String())
		}
		if err := ds.SetColumn(target, values); err != nil {
			return nil, err
		}
		written[target] = col

		t.record(summary)
		t.report(summary)
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (t *Transformer) classifyColumn(ctx context.Context, cells []dataset.Cell) ([]sentiment.Result, error) {
	results := make([]sentiment.Result, len(cells))

	if t.workers < 2 {
		for i, c := range cells {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			text, ok := c.Value()
			results[i] = sentiment.Run(ctx, t.classifier, text, ok)
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.workers)
	for i, c := range cells {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			text, ok := c.Value()
			results[i] = sentiment.Run(gctx, t.classifier, text, ok)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (t *Transformer) record(s ColumnSummary) {
	if t.recorder == nil {
		return
	}
	for _, l := range sentiment.Labels {
		t.recorder.CellsTotal.WithLabelValues(s.Source, l.String()).Add(float64(s.Counts[l]))
	}
	t.recorder.FailuresTotal.WithLabelValues(s.Source).Add(float64(s.Failures))
}

func (t *Transformer) report(s ColumnSummary) {
	t.logger.Info("Sentiment distribution",
		zap.String("column", s.Source),
		zap.String("sentiment_column", s.Target),
		zap.Int("positive", s.Counts[sentiment.Positive]),
		zap.Int("negative", s.Counts[sentiment.Negative]),
		zap.Int("neutral", s.Counts[sentiment.Neutral]))
	if s.Failures > 0 {
		t.logger.Warn("Some cells could not be classified and were labelled Neutral",
			zap.String("column", s.Source),
			zap.Int("failures", s.Failures))
	}
}
