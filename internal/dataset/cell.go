package dataset

import (
	"strconv"
	"strings"
)

// Kind discriminates the three shapes a CSV cell can take.
type Kind uint8

const (
	KindMissing Kind = iota
	KindText
	KindNumber
)

// String returns "missing", "text" or "number".
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	default:
		return "missing"
	}
}

// DefaultNAValues are the raw fields treated as missing on load, in addition to the
// empty field. Matching is exact.
var DefaultNAValues = []string{"NA", "N/A", "NaN", "nan", "null", "NULL", "None"}

// Cell is a single table value. The raw CSV text is always kept so that a cell is
// written back exactly as it was read.
type Cell struct {
	kind Kind
	raw  string
	num  float64
}

// Text builds a text cell.
func Text(s string) Cell { return Cell{kind: KindText, raw: s} }

// Number builds a numeric cell rendered with the shortest float representation.
func Number(f float64) Cell {
	return Cell{kind: KindNumber, raw: strconv.FormatFloat(f, 'f', -1, 64), num: f}
}

// Missing builds an empty cell.
func Missing() Cell { return Cell{kind: KindMissing} }

// Parse classifies a raw CSV field. naValues lists the markers besides "" that mean
// missing.
func Parse(raw string, naValues []string) Cell {
	if raw == "" {
		return Missing()
	}
	for _, na := range naValues {
		if raw == na {
			return Cell{kind: KindMissing, raw: raw}
		}
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
		return Cell{kind: KindNumber, raw: raw, num: f}
	}
	return Text(raw)
}

// Kind reports whether the cell is missing, text or a number.
func (c Cell) Kind() Kind { return c.kind }

// IsMissing reports whether the cell holds no value.
func (c Cell) IsMissing() bool { return c.kind == KindMissing }

// Float returns the numeric value and whether the cell is a number.
func (c Cell) Float() (float64, bool) {
	if c.kind != KindNumber {
		return 0, false
	}
	return c.num, true
}

// Value returns the cell contents as text to be analysed. ok is false for missing
// cells.
func (c Cell) Value() (s string, ok bool) {
	if c.kind == KindMissing {
		return "", false
	}
	return c.raw, true
}

// String is the natural CSV representation of the cell.
func (c Cell) String() string { return c.raw }
