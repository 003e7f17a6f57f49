package sentiment

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"
	"unicode"
)

const (
	boostIncr = 0.293 // booster word intensity
	boostDecr = -0.293
	capsIncr  = 0.733 // ALL CAPS emphasis
	negScalar = -0.74 // negated valence multiplier

	alpha = 15 // normalisation constant, approximates the max expected sum
)

//go:embed lexicon.txt
var embeddedLexicon string

var negations = map[string]bool{
	"aint": true, "arent": true, "cannot": true, "cant": true, "couldnt": true, "darent": true,
	"didnt": true, "doesnt": true, "dont": true, "hadnt": true, "hasnt": true, "havent": true,
	"isnt": true, "mightnt": true, "mustnt": true, "neither": true, "neednt": true,
	"never": true, "none": true, "nope": true, "nor": true, "not": true, "nothing": true,
	"nowhere": true, "oughtnt": true, "shant": true, "shouldnt": true, "wasnt": true,
	"werent": true, "without": true, "wont": true, "wouldnt": true, "rarely": true,
	"seldom": true, "despite": true,
}

var boosters = map[string]float64{
	"absolutely": boostIncr, "amazingly": boostIncr, "awfully": boostIncr, "completely": boostIncr,
	"deeply": boostIncr, "especially": boostIncr, "exceptionally": boostIncr, "extremely": boostIncr,
	"fully": boostIncr, "greatly": boostIncr, "highly": boostIncr, "hugely": boostIncr,
	"incredibly": boostIncr, "intensely": boostIncr, "particularly": boostIncr, "quite": boostIncr,
	"really": boostIncr, "remarkably": boostIncr, "so": boostIncr, "super": boostIncr,
	"thoroughly": boostIncr, "totally": boostIncr, "tremendously": boostIncr, "truly": boostIncr,
	"unbelievably": boostIncr, "utterly": boostIncr, "very": boostIncr, "most": boostIncr,
	"almost": boostDecr, "barely": boostDecr, "hardly": boostDecr, "kinda": boostDecr,
	"less": boostDecr, "little": boostDecr, "marginally": boostDecr, "partly": boostDecr,
	"scarcely": boostDecr, "slightly": boostDecr, "somewhat": boostDecr, "sorta": boostDecr,
}

// Lexicon scores text polarity from per-word valences.
type Lexicon struct {
	valence map[string]float64
}

var defaultLexicon = sync.OnceValue(func() *Lexicon {
	l, err := ParseLexicon(strings.NewReader(embeddedLexicon))
	if err != nil {
		panic(fmt.Sprintf("embedded lexicon: %v", err))
	}
	return l
})

// DefaultLexicon returns the lexicon compiled into the binary.
func DefaultLexicon() *Lexicon { return defaultLexicon() }

// LoadLexicon reads a lexicon file.
func LoadLexicon(path string) (*Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lexicon: %w", err)
	}
	defer f.Close()
	l, err := ParseLexicon(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// ParseLexicon reads "word<TAB>valence" lines. Blank lines and lines starting with
// '#' are skipped; extra tab-separated fields are ignored.
func ParseLexicon(r io.Reader) (*Lexicon, error) {
	l := &Lexicon{valence: make(map[string]float64)}
	sc := bufio.NewScanner(r)
	lineNum := 0
	for sc.Scan() {
		lineNum++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: want word<TAB>valence", lineNum)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		l.valence[strings.ToLower(strings.TrimSpace(fields[0]))] = v
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(l.valence) == 0 {
		return nil, errors.New("lexicon is empty")
	}
	return l, nil
}

// Len is the number of entries.
func (l *Lexicon) Len() int { return len(l.valence) }

// Polarity returns a score in [-1, 1]; 0 for text without sentiment words.
func (l *Lexicon) Polarity(text string) float64 {
	words := tokenize(text)
	if len(words) == 0 {
		return 0
	}
	capDiff := allCapDifferential(words)

	scores := make([]float64, len(words))
	for i, w := range words {
		lw := strings.ToLower(w)
		if _, ok := boosters[lw]; ok {
			continue
		}
		v, ok := l.valence[lw]
		if !ok {
			continue
		}
		if capDiff && isAllCaps(w) {
			v += math.Copysign(capsIncr, v)
		}
		for back := 1; back <= 3 && i-back >= 0; back++ {
			prev := strings.ToLower(words[i-back])
			if _, inLex := l.valence[prev]; inLex {
				continue
			}
			if b, ok := boosters[prev]; ok {
				s := b
				if v < 0 {
					s = -s
				}
				if capDiff && isAllCaps(words[i-back]) {
					s += math.Copysign(capsIncr, v)
				}
				switch back {
				case 2:
					s *= 0.95
				case 3:
					s *= 0.9
				}
				v += s
			}
			if isNegation(prev) {
				v *= negScalar
			}
		}
		scores[i] = v
	}

	butCheck(words, scores)

	var sum float64
	for _, s := range scores {
		sum += s
	}
	if sum != 0 {
		sum += math.Copysign(punctuationEmphasis(text), sum)
	}
	return normalize(sum)
}

// tokenize splits on whitespace and strips surrounding punctuation. Emoticons made
// only of punctuation survive as-is.
func tokenize(text string) []string {
	fields := strings.Fields(text)
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.TrimFunc(f, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if w == "" {
			if len(f) >= 2 {
				words = append(words, f)
			}
			continue
		}
		if len([]rune(w)) == 1 && !unicode.IsLetter([]rune(w)[0]) {
			continue
		}
		words = append(words, w)
	}
	return words
}

func isNegation(w string) bool {
	return negations[strings.ReplaceAll(w, "'", "")] || strings.Contains(w, "n't")
}

func isAllCaps(w string) bool {
	hasLetter := false
	for _, r := range w {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

// allCapDifferential reports whether some but not all words are ALL CAPS.
func allCapDifferential(words []string) bool {
	caps := 0
	for _, w := range words {
		if isAllCaps(w) {
			caps++
		}
	}
	return caps > 0 && caps < len(words)
}

// butCheck dampens sentiment before a contrastive "but" and amplifies it after.
func butCheck(words []string, scores []float64) {
	for i, w := range words {
		if strings.ToLower(w) != "but" {
			continue
		}
		for j := range scores {
			switch {
			case j < i:
				scores[j] *= 0.5
			case j > i:
				scores[j] *= 1.5
			}
		}
		return
	}
}

func punctuationEmphasis(text string) float64 {
	ep := float64(min(strings.Count(text, "!"), 4)) * 0.292
	qm := 0.0
	if n := strings.Count(text, "?"); n > 1 {
		if n <= 3 {
			qm = float64(n) * 0.18
		} else {
			qm = 0.96
		}
	}
	return ep + qm
}

func normalize(score float64) float64 {
	n := score / math.Sqrt(score*score+alpha)
	switch {
	case n < -1:
		return -1
	case n > 1:
		return 1
	}
	return n
}
