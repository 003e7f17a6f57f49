package sentiment

import "strings"

// Label is the sentiment assigned to one text.
type Label string

const (
	Positive Label = "Positive"
	Negative Label = "Negative"
	Neutral  Label = "Neutral"
)

// Labels lists every label in reporting order.
var Labels = []Label{Positive, Negative, Neutral}

// String returns the label as written to the output column.
func (l Label) String() string { return string(l) }

var labelMap = map[string]Label{
	"positive": Positive,
	"pos":      Positive,
	"negative": Negative,
	"neg":      Negative,
}

// ParseLabel maps a raw model label onto a Label. Case and surrounding whitespace
// are ignored; anything that is not recognisably positive or negative is Neutral.
func ParseLabel(raw string) Label {
	s := strings.TrimSpace(strings.ToLower(raw))
	if l, ok := labelMap[s]; ok {
		return l
	}
	return Neutral
}
