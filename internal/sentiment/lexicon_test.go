package sentiment

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLexiconLoads(t *testing.T) {
	assert.Greater(t, DefaultLexicon().Len(), 100)
}

func TestPolarity(t *testing.T) {
	lex := DefaultLexicon()

	tests := []struct {
		text string
		sign int
	}{
		{"Great coffee!", 1},
		{"Terrible, burnt taste", -1},
		{"Origin: Kenya, washed", 0},
		{"not good", -1},
		{"don't love it", -1},
		{"smooth and sweet :)", 1},
		{"bitter but delicious", 1},
		{"delicious but bitter", -1},
	}
	for _, tt := range tests {
		p := lex.Polarity(tt.text)
		switch tt.sign {
		case 1:
			assert.Greater(t, p, 0.0, tt.text)
		case -1:
			assert.Less(t, p, 0.0, tt.text)
		default:
			assert.Zero(t, p, tt.text)
		}
		assert.GreaterOrEqual(t, p, -1.0)
		assert.LessOrEqual(t, p, 1.0)
	}
}

func TestPolarityIntensifiers(t *testing.T) {
	lex := DefaultLexicon()

	base := lex.Polarity("good coffee")
	assert.Greater(t, lex.Polarity("very good coffee"), base, "booster")
	assert.Less(t, lex.Polarity("slightly good coffee"), base, "dampener")
	assert.Greater(t, lex.Polarity("good coffee!!!"), base, "exclamation")
	assert.Greater(t, lex.Polarity("GOOD coffee"), base, "caps emphasis")
}

func TestPolarityBounded(t *testing.T) {
	lex := DefaultLexicon()
	text := strings.Repeat("amazing wonderful perfect best ", 50)
	p := lex.Polarity(text)
	assert.LessOrEqual(t, p, 1.0)
	assert.Greater(t, p, 0.99)
}

func TestParseLexicon(t *testing.T) {
	lex, err := ParseLexicon(strings.NewReader("# comment\n\nYay\t2.0\nboo\t-2\textra\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, lex.Len())
	assert.Greater(t, lex.Polarity("yay"), 0.0)
	assert.Less(t, lex.Polarity("BOO"), 0.0)

	_, err = ParseLexicon(strings.NewReader("word-without-valence\n"))
	assert.Error(t, err)
	_, err = ParseLexicon(strings.NewReader("word\tx\n"))
	assert.Error(t, err)
	_, err = ParseLexicon(strings.NewReader("# only comments\n"))
	assert.Error(t, err)
}

func TestLoadLexicon(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lex.tsv")
	require.NoError(t, os.WriteFile(path, []byte("meh\t-3\n"), 0o644))
	lex, err := LoadLexicon(path)
	require.NoError(t, err)
	assert.Less(t, lex.Polarity("meh"), -0.5)

	_, err = LoadLexicon(filepath.Join(t.TempDir(), "missing.tsv"))
	assert.Error(t, err)
}

func TestLexiconClassifier(t *testing.T) {
	c, err := NewLexiconClassifier(nil, DefaultThresholds())
	require.NoError(t, err)
	assert.Equal(t, "lexicon", c.Name())

	ctx := context.Background()
	for text, want := range map[string]Label{
		"Great coffee!":         Positive,
		"Terrible, burnt taste": Negative,
		"Origin: Kenya":         Neutral,
	} {
		got, err := c.Classify(ctx, text)
		require.NoError(t, err)
		assert.Equal(t, want, got, text)
	}
}

type fixedScorer float64

func (f fixedScorer) Polarity(string) float64 { return float64(f) }

func TestLexiconClassifierRejectsBadScores(t *testing.T) {
	c, err := NewLexiconClassifier(fixedScorer(math.NaN()), DefaultThresholds())
	require.NoError(t, err)
	_, err = c.Classify(context.Background(), "x")
	assert.Error(t, err)

	c, err = NewLexiconClassifier(fixedScorer(1.5), DefaultThresholds())
	require.NoError(t, err)
	_, err = c.Classify(context.Background(), "x")
	assert.Error(t, err)
}
