// Package scope locates the bracket pair enclosing a buffer position and
// exposes it as a bounded view for the reflow engine.
package scope

import (
	"strings"

	"github.com/dshills/argfill/internal/engine/buffer"
	"github.com/dshills/argfill/internal/scan"
)

// Resolver answers enclosing-bracket queries against one snapshot of text.
// Build a fresh resolver per invocation; it never observes later edits.
type Resolver struct {
	src     string
	scanner *scan.Scanner
}

// NewResolver scans src under lang and returns a resolver over it.
func NewResolver(lang *scan.Language, src string) *Resolver {
	return &Resolver{
		src:     src,
		scanner: scan.NewScanner(lang, src),
	}
}

// Scanner returns the underlying lexical scanner.
func (r *Resolver) Scanner() *scan.Scanner {
	return r.scanner
}

// LocateEnclosingBracket returns the offset of the innermost structural
// opening bracket enclosing offset. A miss (cursor not inside any bracket)
// is an expected condition, not an error.
func (r *Resolver) LocateEnclosingBracket(offset buffer.ByteOffset) (buffer.ByteOffset, bool) {
	return r.scanner.EnclosingBracket(offset)
}

// MatchingClose returns the offset one past the balanced closing bracket
// for the opening bracket at open.
func (r *Resolver) MatchingClose(open buffer.ByteOffset) (buffer.ByteOffset, error) {
	return r.scanner.MatchingClose(open)
}

// BoundedView composes LocateEnclosingBracket and MatchingClose into the
// enclosing pair span [open, one-past-close). ok is false when the cursor is
// not inside any bracket; err is non-nil when brackets are unbalanced.
func (r *Resolver) BoundedView(offset buffer.ByteOffset) (buffer.Range, bool, error) {
	open, ok := r.scanner.EnclosingBracket(offset)
	if !ok {
		return buffer.Range{}, false, nil
	}
	end, err := r.scanner.MatchingClose(open)
	if err != nil {
		return buffer.Range{}, false, err
	}
	return buffer.Range{Start: open, End: end}, true, nil
}

// Interior returns the active region of a pair span: the text strictly
// between the brackets.
func (r *Resolver) Interior(span buffer.Range) buffer.Range {
	return buffer.Range{Start: span.Start + 1, End: span.End - 1}
}

// IsSingleLine reports whether the span contains no line break.
func (r *Resolver) IsSingleLine(span buffer.Range) bool {
	start, end := clampRange(span, int64(len(r.src)))
	return !strings.Contains(r.src[start:end], "\n")
}

// InComment reports whether offset lies inside a comment.
func (r *Resolver) InComment(offset buffer.ByteOffset) bool {
	return r.scanner.InComment(offset)
}

// InStringOrComment reports whether offset lies inside a string or comment.
func (r *Resolver) InStringOrComment(offset buffer.ByteOffset) bool {
	return r.scanner.InStringOrComment(offset)
}

// OpenBracketByte returns the opening bracket character of a pair span.
func (r *Resolver) OpenBracketByte(span buffer.Range) byte {
	if span.Start < 0 || span.Start >= int64(len(r.src)) {
		return 0
	}
	return r.src[span.Start]
}

func clampRange(span buffer.Range, max int64) (int64, int64) {
	start, end := span.Start, span.End
	if start < 0 {
		start = 0
	}
	if end > max {
		end = max
	}
	if start > end {
		start = end
	}
	return start, end
}
