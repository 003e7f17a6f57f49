package sentiment

import (
	"sync"

	"github.com/jonreiter/govader"
)

// Vader scores text with the full VADER lexicon. Text it has no opinion on is
// handed to an overlay, by default the tasting lexicon.
type Vader struct {
	mu       sync.Mutex // analyzer is not documented as safe for concurrent use
	analyzer *govader.SentimentIntensityAnalyzer
	overlay  PolarityScorer
}

var defaultVader = sync.OnceValue(func() *Vader {
	return NewVader(DefaultLexicon())
})

// DefaultScorer is the scorer used when no lexicon file is configured.
func DefaultScorer() PolarityScorer { return defaultVader() }

// NewVader returns a VADER scorer. A nil overlay disables the fallback.
func NewVader(overlay PolarityScorer) *Vader {
	return &Vader{
		analyzer: govader.NewSentimentIntensityAnalyzer(),
		overlay:  overlay,
	}
}

// Polarity returns the VADER compound score, or the overlay's score when the
// compound is zero.
func (v *Vader) Polarity(text string) float64 {
	v.mu.Lock()
	compound := v.analyzer.PolarityScores(text).Compound
	v.mu.Unlock()

	if compound != 0 || v.overlay == nil {
		return compound
	}
	return v.overlay.Polarity(text)
}
