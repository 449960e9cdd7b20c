package reflow

import (
	"strings"

	"github.com/dshills/argfill/internal/engine/buffer"
	"github.com/dshills/argfill/internal/scan"
	"github.com/dshills/argfill/internal/scope"
)

// Engine is the buffer surface the reflow core needs. *buffer.Buffer
// satisfies it.
type Engine interface {
	Text() string
	Replace(start, end buffer.ByteOffset, text string) (buffer.EditResult, error)
	Narrow(start, end buffer.ByteOffset) (*buffer.Narrowing, error)
	OffsetToPoint(offset buffer.ByteOffset) buffer.Point
}

// Indenter re-indents a line range after lines have been split or joined.
// Indentation rules belong to the host language, not to the reflow core.
type Indenter interface {
	ReindentRange(startLine, endLine uint32) error
}

// Filler fills the paragraph around an offset. Used when the cursor is not
// looking at a bracketed list.
type Filler interface {
	FillAt(offset buffer.ByteOffset) error
}

// Op identifies the transformation the dispatcher chose.
type Op uint8

const (
	OpNone     Op = iota // nothing to do
	OpFill               // paragraph fill fallback
	OpCollapse           // multi-line to single-line
	OpExpand             // single-line to multi-line
)

// String returns the operation name.
func (op Op) String() string {
	switch op {
	case OpFill:
		return "fill"
	case OpCollapse:
		return "collapse"
	case OpExpand:
		return "expand"
	default:
		return "none"
	}
}

// Outcome describes what a reflow call did.
type Outcome struct {
	Op      Op
	Changed bool
	Span    buffer.Range // pair span before the edit (zero for none/fill)
	NewSpan buffer.Range // pair span after the edit (zero when unchanged)
}

// Reflow binds an engine, a language, and a policy for one or more
// invocations. Each call re-reads buffer state; nothing is cached across
// calls.
type Reflow struct {
	eng    Engine
	lang   *scan.Language
	policy Policy
}

// New creates a Reflow over eng using lang's lexical rules.
func New(eng Engine, lang *scan.Language, policy Policy) *Reflow {
	if lang == nil {
		lang = scan.PlainLanguage()
	}
	return &Reflow{eng: eng, lang: lang, policy: policy}
}

// Policy returns the placement policy in use.
func (r *Reflow) Policy() Policy {
	return r.policy
}

// Decide applies the dispatcher decision table to the cursor offset and
// returns the chosen operation. The pair span is returned for collapse and
// expand. Unbalanced brackets abort with an error before any edit.
func (r *Reflow) Decide(offset buffer.ByteOffset) (Op, buffer.Range, error) {
	res := scope.NewResolver(r.lang, r.eng.Text())

	if r.policy.FallbackFill && res.InStringOrComment(offset) {
		if !r.suppressFallback(res, offset) {
			return OpFill, buffer.Range{}, nil
		}
	}

	span, ok, err := res.BoundedView(offset)
	if err != nil {
		return OpNone, buffer.Range{}, err
	}
	if !ok {
		return OpFill, buffer.Range{}, nil
	}
	if res.IsSingleLine(span) {
		return OpExpand, span, nil
	}
	return OpCollapse, span, nil
}

// suppressFallback implements the markup-mode override: inside a tag mode,
// a bracketed list whose bracket is not the tag opener is an argument list,
// not prose, even when the cursor sits in a string or comment.
func (r *Reflow) suppressFallback(res *scope.Resolver, offset buffer.ByteOffset) bool {
	if !r.lang.TagMode {
		return false
	}
	span, ok, err := res.BoundedView(offset)
	if err != nil || !ok {
		return false
	}
	return res.OpenBracketByte(span) != '<'
}

// Dwim dispatches per the decision table: fill, expand, or collapse.
func (r *Reflow) Dwim(offset buffer.ByteOffset, ind Indenter, fil Filler) (Outcome, error) {
	op, _, err := r.Decide(offset)
	if err != nil {
		return Outcome{}, err
	}
	switch op {
	case OpExpand:
		return r.ToMultiLine(offset, ind)
	case OpCollapse:
		return r.ToSingleLine(offset)
	case OpFill:
		if fil == nil {
			return Outcome{Op: OpFill}, nil
		}
		if err := fil.FillAt(offset); err != nil {
			return Outcome{Op: OpFill}, err
		}
		return Outcome{Op: OpFill, Changed: true}, nil
	default:
		return Outcome{Op: OpNone}, nil
	}
}

// ToSingleLine collapses the list enclosing offset onto one line. A cursor
// outside any bracket is a silent no-op; an already-single-line region is
// left byte-for-byte unchanged.
func (r *Reflow) ToSingleLine(offset buffer.ByteOffset) (Outcome, error) {
	src := r.eng.Text()
	res := scope.NewResolver(r.lang, src)

	span, ok, err := res.BoundedView(offset)
	if err != nil {
		return Outcome{}, err
	}
	if !ok {
		return Outcome{Op: OpNone}, nil
	}

	m, err := r.policy.compileSeparator(r.lang)
	if err != nil {
		return Outcome{}, err
	}
	points := NewSplitter(res.Scanner(), src, span, m).All()

	joined := r.collapseText(src, span, points)
	if joined == src[span.Start:span.End] {
		return Outcome{Op: OpCollapse, Span: span}, nil
	}

	n, err := r.eng.Narrow(span.Start, span.End)
	if err != nil {
		return Outcome{}, err
	}
	defer n.Release()

	rep, err := r.eng.Replace(span.Start, span.End, joined)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Op: OpCollapse, Changed: true, Span: span, NewSpan: rep.NewRange}, nil
}

// ToMultiLine expands the list enclosing offset to one item per line and
// delegates indentation of the touched lines to the indenter.
func (r *Reflow) ToMultiLine(offset buffer.ByteOffset, ind Indenter) (Outcome, error) {
	src := r.eng.Text()
	res := scope.NewResolver(r.lang, src)

	span, ok, err := res.BoundedView(offset)
	if err != nil {
		return Outcome{}, err
	}
	if !ok {
		return Outcome{Op: OpNone}, nil
	}

	m, err := r.policy.compileSeparator(r.lang)
	if err != nil {
		return Outcome{}, err
	}
	points := NewSplitter(res.Scanner(), src, span, m).All()

	expanded := r.expandText(src, span, points, m)
	if expanded == src[span.Start:span.End] {
		return Outcome{Op: OpExpand, Span: span}, nil
	}

	n, err := r.eng.Narrow(span.Start, span.End)
	if err != nil {
		return Outcome{}, err
	}
	defer n.Release()

	rep, err := r.eng.Replace(span.Start, span.End, expanded)
	if err != nil {
		return Outcome{}, err
	}

	if ind != nil {
		startLine := r.eng.OffsetToPoint(rep.NewRange.Start).Line
		endLine := r.eng.OffsetToPoint(rep.NewRange.End).Line
		if startLine < endLine {
			if err := ind.ReindentRange(startLine+1, endLine); err != nil {
				return Outcome{}, err
			}
		}
	}

	newEnd := n.Range().End
	return Outcome{
		Op:      OpExpand,
		Changed: true,
		Span:    span,
		NewSpan: buffer.Range{Start: span.Start, End: newEnd},
	}, nil
}

// collapseText joins a pair span onto one line. A whitespace run containing
// a line break collapses to a single space, or to nothing against a bracket
// (standard join semantics). A dangling trailing separator is dropped when
// the policy does not want one.
func (r *Reflow) collapseText(src string, span buffer.Range, points []SplitPoint) string {
	skip := buffer.Range{Start: -1, End: -1}
	if !r.policy.TrailingSeparator && dangling(src, span, points) {
		skip = points[len(points)-1].Range
	}

	var b strings.Builder
	b.Grow(int(span.Len()))
	var lastByte byte

	i := int(span.Start)
	end := int(span.End)
	for i < end {
		if int64(i) == skip.Start {
			i = int(skip.End)
			continue
		}
		c := src[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			j := i
			hasBreak := false
			for j < end && isJoinSpace(src[j]) {
				if src[j] == '\n' {
					hasBreak = true
				}
				j++
			}
			if !hasBreak {
				b.WriteString(src[i:j])
				if j > i {
					lastByte = src[j-1]
				}
				i = j
				continue
			}
			// Skip a dangling separator hidden inside the run's tail.
			next := byte(0)
			if j < end {
				next = src[j]
			}
			if !r.lang.IsOpenBracket(lastByte) && !r.lang.IsCloseBracket(next) {
				b.WriteByte(' ')
				lastByte = ' '
			}
			i = j
			continue
		}
		b.WriteByte(c)
		lastByte = c
		i++
	}
	return b.String()
}

func isJoinSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// listItem is one item of a bracketed list plus the separator text that
// follows it ("" for the last item without one).
type listItem struct {
	text string
	sep  string
}

// expandText rewrites a pair span with one item per line, honoring the
// placement policy. Indentation of the new lines is the indenter's job.
func (r *Reflow) expandText(src string, span buffer.Range, points []SplitPoint, m *separatorMatcher) string {
	openB := src[span.Start]
	closeB := src[span.End-1]

	var items []listItem
	cursor := int(span.Start) + 1
	for _, p := range points {
		items = append(items, listItem{
			text: strings.TrimSpace(src[cursor:p.Range.Start]),
			sep:  p.Text(src),
		})
		cursor = int(p.Range.End)
	}
	if last := strings.TrimSpace(src[cursor : span.End-1]); last != "" {
		items = append(items, listItem{text: last})
	}

	// Empty list: no split points exist, so only the outer breaks apply.
	if len(items) == 0 {
		var b strings.Builder
		b.WriteByte(openB)
		if !r.policy.FirstArgSameLine || !r.policy.LastArgSameLine {
			b.WriteByte('\n')
		}
		b.WriteByte(closeB)
		return b.String()
	}

	var b strings.Builder
	b.WriteByte(openB)
	if !r.policy.FirstArgSameLine {
		b.WriteByte('\n')
	}

	for i, it := range items {
		b.WriteString(it.text)
		isLast := i == len(items)-1

		if !isLast {
			breakHere := !(i == 0 && r.policy.SecondArgSameLine)
			if strings.TrimSpace(it.sep) == "" {
				// Whitespace separators fold into the line break.
				if breakHere {
					b.WriteByte('\n')
				} else {
					b.WriteString(it.sep)
				}
				continue
			}
			b.WriteString(it.sep)
			if breakHere {
				b.WriteByte('\n')
			} else {
				b.WriteByte(' ')
			}
			continue
		}

		// Trailing separator policy for the final item. An existing
		// trailing separator (it.sep set) is kept but never duplicated.
		switch {
		case it.sep != "":
			b.WriteString(it.sep)
		case r.policy.TrailingSeparator:
			observed := ""
			if i > 0 {
				observed = items[i-1].sep
			}
			b.WriteString(m.text(observed))
		}
		// With LastArgSameLine the closing bracket stays on this line, so
		// the trailing separator sits directly before it.
		if !r.policy.LastArgSameLine {
			b.WriteByte('\n')
		}
	}
	b.WriteByte(closeB)
	return b.String()
}
