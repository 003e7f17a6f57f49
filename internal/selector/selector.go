// Package selector decides which dataset columns are analysed.
package selector

import (
	"fmt"
	"strings"
)

// Rule picks target columns out of a header.
type Rule interface {
	Match(columns []string) []string
	String() string
}

// ExactMatch selects the single column with exactly this name.
type ExactMatch struct {
	Name string
}

// Match returns the column named r.Name, or nothing.
func (r ExactMatch) Match(columns []string) []string {
	for _, c := range columns {
		if c == r.Name {
			return []string{c}
		}
	}
	return nil
}

// String describes the rule in diagnostics.
func (r ExactMatch) String() string { return fmt.Sprintf("column %q", r.Name) }

// KeywordMatch selects every column whose lower-cased name contains all keywords.
type KeywordMatch struct {
	Keywords []string
}

// NewKeywordMatch normalises keywords to lower case and drops blanks and repeats.
func NewKeywordMatch(keywords ...string) (KeywordMatch, error) {
	seen := make(map[string]bool, len(keywords))
	var kw []string
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		kw = append(kw, k)
	}
	if len(kw) == 0 {
		return KeywordMatch{}, fmt.Errorf("keyword rule needs at least one keyword")
	}
	return KeywordMatch{Keywords: kw}, nil
}

// Match returns, in header order, every column whose name contains all
// keywords, ignoring case.
func (r KeywordMatch) Match(columns []string) []string {
	var out []string
	for _, c := range columns {
		name := strings.ToLower(c)
		all := true
		for _, k := range r.Keywords {
			if !strings.Contains(name, strings.ToLower(k)) {
				all = false
				break
			}
		}
		if all {
			out = append(out, c)
		}
	}
	return out
}

// String describes the rule in diagnostics.
func (r KeywordMatch) String() string {
	return fmt.Sprintf("columns containing %q", r.Keywords)
}

// Select returns the columns chosen by rule, in header order. It never fails; an
// empty result is reported by the caller via Missing.
func Select(columns []string, rule Rule) []string {
	return rule.Match(columns)
}

// NoMatchError describes a rule that selected nothing.
type NoMatchError struct {
	Rule      Rule
	Available []string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no match for %s; available columns: %q", e.Rule, e.Available)
}

// Missing returns a *NoMatchError when rule selects nothing from columns, nil
// otherwise.
func Missing(columns []string, rule Rule) error {
	if len(Select(columns, rule)) > 0 {
		return nil
	}
	return &NoMatchError{Rule: rule, Available: append([]string(nil), columns...)}
}
