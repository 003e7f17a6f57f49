package sentiment

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultScorerEverydayNotes(t *testing.T) {
	c, err := NewLexiconClassifier(nil, DefaultThresholds())
	require.NoError(t, err)

	tests := []struct {
		text string
		want Label
	}{
		{"I like it", Positive},
		{"Really liked this one", Positive},
		{"Would buy again, highly recommended", Positive},
		{"Pleasantly surprised", Positive},
		{"Smells amazing", Positive},
		{"Horrendous aftertaste", Negative},
		{"Not worth the money", Negative},
		{"Terrible, burnt taste", Negative},
		{"Origin: Kenya, washed", Neutral},
	}
	for _, tt := range tests {
		got, err := c.Classify(context.Background(), tt.text)
		require.NoError(t, err, tt.text)
		assert.Equal(t, tt.want, got, "%q polarity %.3f", tt.text, c.Polarity(tt.text))
	}
}

func TestVaderOverlay(t *testing.T) {
	assert.Zero(t, NewVader(nil).Polarity("Origin: Kenya"))
	assert.Equal(t, 0.5, NewVader(fixedScorer(0.5)).Polarity("Origin: Kenya"),
		"overlay scores text VADER has no opinion on")
	assert.Greater(t, NewVader(fixedScorer(-0.9)).Polarity("I love it"), 0.0,
		"overlay is not consulted when VADER scores the text")
}

func TestVaderConcurrentUse(t *testing.T) {
	v := DefaultScorer()
	want := v.Polarity("great coffee")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, v.Polarity("great coffee"))
		}()
	}
	wg.Wait()
}
