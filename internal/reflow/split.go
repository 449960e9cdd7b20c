package reflow

import (
	"strings"

	"github.com/dshills/argfill/internal/engine/buffer"
	"github.com/dshills/argfill/internal/scan"
)

// SplitPoint is one top-level separator occurrence inside an active region.
type SplitPoint struct {
	// Range spans the separator text itself (absolute buffer offsets).
	Range buffer.Range
}

// Text returns the separator text of the split point within src.
func (p SplitPoint) Text(src string) string {
	return src[p.Range.Start:p.Range.End]
}

// Splitter walks a pair span yielding top-level separator occurrences one at
// a time. Candidates inside nested brackets, strings, or comments are
// skipped: a separator only counts when its innermost enclosing bracket is
// the span's own opening bracket. Finding split points is separated from
// applying edits so the nesting rule is testable on its own.
type Splitter struct {
	scanner *scan.Scanner
	src     string
	span    buffer.Range
	matcher *separatorMatcher
	pos     int
}

// NewSplitter creates a splitter for the pair span [open, one-past-close).
func NewSplitter(sc *scan.Scanner, src string, span buffer.Range, m *separatorMatcher) *Splitter {
	return &Splitter{
		scanner: sc,
		src:     src,
		span:    span,
		matcher: m,
		pos:     int(span.Start) + 1,
	}
}

// Next returns the next top-level separator occurrence, or ok=false when the
// span is exhausted.
func (s *Splitter) Next() (SplitPoint, bool) {
	// Search window excludes both brackets.
	limit := int(s.span.End) - 1
	for s.pos < limit {
		start, end, ok := s.matcher.find(s.src[:limit], s.pos)
		if !ok {
			s.pos = limit
			return SplitPoint{}, false
		}
		s.pos = end
		if s.scanner.InStringOrComment(int64(start)) {
			continue
		}
		open, ok := s.scanner.EnclosingBracket(int64(start))
		if !ok || open != s.span.Start {
			continue
		}
		return SplitPoint{Range: buffer.Range{Start: int64(start), End: int64(end)}}, true
	}
	return SplitPoint{}, false
}

// All drains the splitter and returns the remaining split points.
func (s *Splitter) All() []SplitPoint {
	var points []SplitPoint
	for {
		p, ok := s.Next()
		if !ok {
			return points
		}
		points = append(points, p)
	}
}

// dangling reports whether the final split point is a trailing separator:
// followed only by whitespace before the closing bracket.
func dangling(src string, span buffer.Range, points []SplitPoint) bool {
	if len(points) == 0 {
		return false
	}
	last := points[len(points)-1]
	rest := src[last.Range.End : span.End-1]
	return strings.TrimSpace(rest) == ""
}
