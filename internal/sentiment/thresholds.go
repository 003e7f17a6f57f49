package sentiment

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// ErrInvalidThresholds is returned for a threshold pair that does not partition
// [-1, 1].
var ErrInvalidThresholds = errors.New("invalid thresholds")

// Thresholds cut a polarity score into labels: above Positive is Positive, below
// Negative is Negative, anything in between (inclusive) is Neutral.
type Thresholds struct {
	Positive float64
	Negative float64
}

// DefaultThresholds returns the 0.1 / -0.1 pair.
func DefaultThresholds() Thresholds {
	return Thresholds{Positive: 0.1, Negative: -0.1}
}

// Validate requires Negative <= Positive, both finite and inside [-1, 1].
func (t Thresholds) Validate() error {
	for _, v := range []float64{t.Positive, t.Negative} {
		if math.IsNaN(v) || v < -1 || v > 1 {
			return fmt.Errorf("%w: %v outside [-1, 1]", ErrInvalidThresholds, v)
		}
	}
	if t.Negative > t.Positive {
		return fmt.Errorf("%w: negative %v > positive %v", ErrInvalidThresholds, t.Negative, t.Positive)
	}
	return nil
}

// Label maps a polarity score onto a label.
func (t Thresholds) Label(polarity float64) Label {
	switch {
	case polarity > t.Positive:
		return Positive
	case polarity < t.Negative:
		return Negative
	default:
		return Neutral
	}
}

// PolarityScorer produces a score in [-1, 1].
type PolarityScorer interface {
	Polarity(text string) float64
}

// LexiconClassifier labels text by thresholding a polarity score.
type LexiconClassifier struct {
	scorer     PolarityScorer
	thresholds Thresholds
}

// NewLexiconClassifier validates th and returns a classifier over scorer. A nil
// scorer uses DefaultScorer.
func NewLexiconClassifier(scorer PolarityScorer, th Thresholds) (*LexiconClassifier, error) {
	if err := th.Validate(); err != nil {
		return nil, err
	}
	if scorer == nil {
		scorer = DefaultScorer()
	}
	return &LexiconClassifier{scorer: scorer, thresholds: th}, nil
}

// Name identifies the strategy in logs and reports.
func (c *LexiconClassifier) Name() string { return "lexicon" }

// Polarity exposes the raw score for reporting.
func (c *LexiconClassifier) Polarity(text string) float64 {
	return c.scorer.Polarity(text)
}

// Classify thresholds the polarity of text. Scores outside [-1, 1] are errors.
func (c *LexiconClassifier) Classify(_ context.Context, text string) (Label, error) {
	p := c.scorer.Polarity(text)
	if math.IsNaN(p) || p < -1 || p > 1 {
		return Neutral, fmt.Errorf("polarity %v outside [-1, 1]", p)
	}
	return c.thresholds.Label(p), nil
}
