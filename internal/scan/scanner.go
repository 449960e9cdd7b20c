package scan

import (
	"errors"
	"sort"
	"strings"

	"github.com/dshills/argfill/internal/engine/buffer"
)

// Errors returned by scanner operations.
var (
	ErrUnbalanced = errors.New("unbalanced brackets")
	ErrNotBracket = errors.New("offset is not an opening bracket")
)

// RegionKind classifies a lexical region.
type RegionKind uint8

const (
	RegionString RegionKind = iota
	RegionComment
)

// String returns the region kind name.
func (k RegionKind) String() string {
	if k == RegionComment {
		return "comment"
	}
	return "string"
}

// Region is a string or comment span in the scanned text.
type Region struct {
	Kind  RegionKind
	Range buffer.Range
}

// Scanner computes the lexical regions of a text once and answers offset
// queries against them. It is cheap to build per invocation and holds no
// reference to the buffer, so buffer edits never invalidate a scanner the
// caller has already finished with.
type Scanner struct {
	lang    *Language
	src     string
	regions []Region
}

// NewScanner scans src under the given language's lexical rules.
func NewScanner(lang *Language, src string) *Scanner {
	s := &Scanner{lang: lang, src: src}
	s.scan()
	return s
}

// Language returns the language the scanner was built with.
func (s *Scanner) Language() *Language {
	return s.lang
}

// Regions returns the computed string/comment regions in order.
func (s *Scanner) Regions() []Region {
	return s.regions
}

// scan walks the text once, recording string and comment regions.
// Comment rules are tried before string rules at each position so that a
// string delimiter inside a comment is never treated as a string start.
func (s *Scanner) scan() {
	src := s.src
	i := 0
	for i < len(src) {
		if end, ok := s.matchComment(i); ok {
			s.regions = append(s.regions, Region{
				Kind:  RegionComment,
				Range: buffer.Range{Start: int64(i), End: int64(end)},
			})
			i = end
			continue
		}
		if end, ok := s.matchString(i); ok {
			s.regions = append(s.regions, Region{
				Kind:  RegionString,
				Range: buffer.Range{Start: int64(i), End: int64(end)},
			})
			i = end
			continue
		}
		i++
	}
}

// matchComment tries every comment rule at position i and returns the end of
// the comment region when one matches.
func (s *Scanner) matchComment(i int) (int, bool) {
	src := s.src
	for _, c := range s.lang.Comments {
		if !strings.HasPrefix(src[i:], c.Start) {
			continue
		}
		if c.End == "" {
			// Line comment: runs to (not including) the newline.
			if nl := strings.IndexByte(src[i:], '\n'); nl >= 0 {
				return i + nl, true
			}
			return len(src), true
		}
		if idx := strings.Index(src[i+len(c.Start):], c.End); idx >= 0 {
			return i + len(c.Start) + idx + len(c.End), true
		}
		// Unterminated block comment swallows the rest.
		return len(src), true
	}
	return 0, false
}

// matchString tries every string rule at position i and returns the end of
// the literal when one matches. Rules are tried in definition order, so
// longer delimiters must be listed first in the Language.
func (s *Scanner) matchString(i int) (int, bool) {
	src := s.src
	for _, r := range s.lang.Strings {
		if !strings.HasPrefix(src[i:], r.Start) {
			continue
		}
		j := i + len(r.Start)
		for j < len(src) {
			if r.Escape != 0 && src[j] == r.Escape && j+1 < len(src) {
				j += 2
				continue
			}
			if !r.Multiline && src[j] == '\n' {
				// Unterminated single-line literal ends at the line break.
				return j, true
			}
			if strings.HasPrefix(src[j:], r.End) {
				return j + len(r.End), true
			}
			j++
		}
		return len(src), true
	}
	return 0, false
}

// regionAt returns the region containing offset, if any.
func (s *Scanner) regionAt(offset buffer.ByteOffset) (Region, bool) {
	idx := sort.Search(len(s.regions), func(i int) bool {
		return s.regions[i].Range.End > offset
	})
	if idx < len(s.regions) && s.regions[idx].Range.Contains(offset) {
		return s.regions[idx], true
	}
	return Region{}, false
}

// InString reports whether offset lies inside a string literal.
func (s *Scanner) InString(offset buffer.ByteOffset) bool {
	r, ok := s.regionAt(offset)
	return ok && r.Kind == RegionString
}

// InComment reports whether offset lies inside a comment.
func (s *Scanner) InComment(offset buffer.ByteOffset) bool {
	r, ok := s.regionAt(offset)
	return ok && r.Kind == RegionComment
}

// InStringOrComment reports whether offset lies inside any lexical region.
func (s *Scanner) InStringOrComment(offset buffer.ByteOffset) bool {
	_, ok := s.regionAt(offset)
	return ok
}

// EnclosingBracket returns the offset of the innermost structural opening
// bracket enclosing offset. Brackets inside strings or comments are not
// structural. Returns false if the offset is not nested inside any bracket.
func (s *Scanner) EnclosingBracket(offset buffer.ByteOffset) (buffer.ByteOffset, bool) {
	if offset < 0 {
		return 0, false
	}
	if offset > int64(len(s.src)) {
		offset = int64(len(s.src))
	}

	var stack []int
	for i := 0; i < int(offset); i++ {
		if s.InStringOrComment(int64(i)) {
			continue
		}
		b := s.src[i]
		switch {
		case s.lang.IsOpenBracket(b):
			stack = append(stack, i)
		case s.lang.IsCloseBracket(b):
			// Pop the matching opener; tolerate stray closers.
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if close, _ := s.lang.CloseFor(s.src[top]); close == b {
					break
				}
			}
		}
	}

	if len(stack) == 0 {
		return 0, false
	}
	return int64(stack[len(stack)-1]), true
}

// MatchingClose returns the offset one past the balanced closing bracket for
// the structural opening bracket at open, scanning forward and skipping
// brackets inside strings and comments.
func (s *Scanner) MatchingClose(open buffer.ByteOffset) (buffer.ByteOffset, error) {
	if open < 0 || open >= int64(len(s.src)) {
		return 0, ErrNotBracket
	}
	if s.InStringOrComment(open) {
		return 0, ErrNotBracket
	}

	openByte := s.src[open]
	closeByte, ok := s.lang.CloseFor(openByte)
	if !ok {
		return 0, ErrNotBracket
	}

	depth := 1
	for i := int(open) + 1; i < len(s.src); i++ {
		if s.InStringOrComment(int64(i)) {
			continue
		}
		switch s.src[i] {
		case openByte:
			depth++
		case closeByte:
			depth--
			if depth == 0 {
				return int64(i) + 1, nil
			}
		}
	}
	return 0, ErrUnbalanced
}
