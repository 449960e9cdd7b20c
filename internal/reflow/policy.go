// Package reflow converts bracketed, separator-delimited lists between
// single-line and one-item-per-line form. It is lexically aware through the
// scan package but never parses the target language's grammar.
package reflow

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dshills/argfill/internal/scan"
)

// DefaultSeparator is the list separator used when neither the policy nor
// the language overrides it.
const DefaultSeparator = ","

// DefaultFillColumn is the paragraph fill width for the fallback path.
const DefaultFillColumn = 79

// Policy is the placement policy for a reflow: which items share a line with
// the brackets and how trailing separators are treated.
type Policy struct {
	// FirstArgSameLine keeps the first item on the opening bracket's line.
	FirstArgSameLine bool

	// SecondArgSameLine starts breaking after the second item instead of
	// the first (lisp-style indentation).
	SecondArgSameLine bool

	// LastArgSameLine keeps the closing bracket on the last item's line.
	LastArgSameLine bool

	// TrailingSeparator appends a separator after the final item when
	// expanding and tolerates one when collapsing. When false, collapsing
	// strips a dangling trailing separator.
	TrailingSeparator bool

	// Separator delimits list items. Interpreted literally unless
	// SeparatorIsPattern is set.
	Separator string

	// SeparatorIsPattern treats Separator as a regular expression.
	SeparatorIsPattern bool

	// FallbackFill enables paragraph filling when the cursor sits in a
	// comment or string.
	FallbackFill bool

	// FillColumn is the line width for the paragraph fill fallback.
	FillColumn int
}

// DefaultPolicy returns the policy with stock settings: comma separator,
// every item on its own line, no trailing separator, fallback enabled.
func DefaultPolicy() Policy {
	return Policy{
		Separator:    DefaultSeparator,
		FallbackFill: true,
		FillColumn:   DefaultFillColumn,
	}
}

// separatorFor resolves the effective separator for a language: the
// language's override wins, then the policy, then the default.
func (p Policy) separatorFor(lang *scan.Language) (string, bool) {
	if lang != nil && lang.Separator != "" {
		return lang.Separator, lang.SeparatorIsPattern
	}
	if p.Separator != "" {
		return p.Separator, p.SeparatorIsPattern
	}
	return DefaultSeparator, false
}

// compileSeparator returns a matcher for the effective separator.
func (p Policy) compileSeparator(lang *scan.Language) (*separatorMatcher, error) {
	sep, isPattern := p.separatorFor(lang)
	if !isPattern {
		return &separatorMatcher{literal: sep}, nil
	}
	re, err := regexp.Compile(sep)
	if err != nil {
		return nil, fmt.Errorf("separator pattern %q: %w", sep, err)
	}
	return &separatorMatcher{re: re}, nil
}

// separatorMatcher finds separator occurrences as literal text or pattern.
type separatorMatcher struct {
	literal string
	re      *regexp.Regexp
}

// find returns the [start, end) of the first separator occurrence in s at or
// after from, or ok=false.
func (m *separatorMatcher) find(s string, from int) (int, int, bool) {
	if from >= len(s) {
		return 0, 0, false
	}
	if m.re != nil {
		loc := m.re.FindStringIndex(s[from:])
		if loc == nil || loc[1] == loc[0] {
			return 0, 0, false
		}
		return from + loc[0], from + loc[1], true
	}
	idx := strings.Index(s[from:], m.literal)
	if idx < 0 {
		return 0, 0, false
	}
	return from + idx, from + idx + len(m.literal), true
}

// text returns the separator text to use when inserting a separator that was
// not present in the source (trailing separator policy). Pattern separators
// have no canonical insertion text, so the caller supplies a fallback from
// an observed occurrence.
func (m *separatorMatcher) text(observed string) string {
	if m.re == nil {
		return m.literal
	}
	return observed
}
