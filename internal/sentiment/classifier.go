// Package sentiment turns free text into a Positive, Negative or Neutral label.
//
// Two families of Classifier are provided: a lexicon polarity scorer with
// configurable thresholds, and remote pre-trained models (Hugging Face inference,
// Gemini). Callers in the batch layer go through Run, which owns the handling of
// blank input and converts classifier failures into an explicit Result.
package sentiment

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultMaxTextLength is the number of runes sent to a model.
const DefaultMaxTextLength = 500

// Classifier labels a single non-blank, trimmed text.
type Classifier interface {
	Name() string
	Classify(ctx context.Context, text string) (Label, error)
}

// Result is the outcome for one cell. Err is set when the classifier failed; Label
// is then Neutral.
type Result struct {
	Label Label
	Err   error
}

// Run classifies text. Missing, empty or whitespace-only input is Neutral without
// calling c. A panic inside c is reported through Result.Err.
func Run(ctx context.Context, c Classifier, text string, present bool) (res Result) {
	if !present {
		return Result{Label: Neutral}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{Label: Neutral}
	}

	defer func() {
		if r := recover(); r != nil {
			res = Result{Label: Neutral, Err: fmt.Errorf("%s classifier panic: %v", c.Name(), r)}
		}
	}()

	label, err := c.Classify(ctx, text)
	if err != nil {
		return Result{Label: Neutral, Err: err}
	}
	switch label {
	case Positive, Negative, Neutral:
		return Result{Label: label}
	default:
		return Result{Label: Neutral, Err: fmt.Errorf("%s classifier returned unknown label %q", c.Name(), label)}
	}
}

// Truncate cuts s to at most n runes. n <= 0 disables truncation.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
