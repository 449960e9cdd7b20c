// Package indent re-indents lines after a reflow has split or joined them.
// The rule is bracket-driven: a line takes its predecessor's indentation,
// one level deeper when the predecessor ends with an open bracket, one level
// shallower when the line itself starts with a close bracket.
package indent

import (
	"strings"

	"github.com/dshills/argfill/internal/engine/buffer"
)

// DefaultUnit is one level of indentation when none is configured.
const DefaultUnit = "    "

// Buffer is the line-addressed edit surface the indenter needs.
// *buffer.Buffer satisfies it.
type Buffer interface {
	LineCount() uint32
	LineText(line uint32) string
	LineStartOffset(line uint32) buffer.ByteOffset
	Replace(start, end buffer.ByteOffset, text string) (buffer.EditResult, error)
}

// Indenter rewrites leading whitespace line by line.
type Indenter struct {
	buf  Buffer
	unit string
}

// New creates an Indenter using unit as one indentation level. An empty
// unit falls back to DefaultUnit.
func New(buf Buffer, unit string) *Indenter {
	if unit == "" {
		unit = DefaultUnit
	}
	return &Indenter{buf: buf, unit: unit}
}

// ReindentRange re-indents lines startLine through endLine inclusive, in
// ascending order so each line sees its predecessor's final indentation.
// Lines past the end of the buffer are ignored.
func (in *Indenter) ReindentRange(startLine, endLine uint32) error {
	count := in.buf.LineCount()
	for line := startLine; line <= endLine; line++ {
		if line >= count {
			return nil
		}
		if err := in.ReindentLine(line); err != nil {
			return err
		}
	}
	return nil
}

// ReindentLine rewrites one line's leading whitespace. Line 0 and blank
// lines are left alone.
func (in *Indenter) ReindentLine(line uint32) error {
	if line == 0 {
		return nil
	}
	text := in.buf.LineText(line)
	content := strings.TrimLeft(text, " \t")
	if content == "" {
		return nil
	}

	// Blank lines carry no indentation, so walk back to the nearest line
	// that does.
	prevLine := line - 1
	for prevLine > 0 && strings.TrimSpace(in.buf.LineText(prevLine)) == "" {
		prevLine--
	}
	prev := in.buf.LineText(prevLine)
	target := leadingWhitespace(prev)
	if endsWithOpenBracket(prev) {
		target += in.unit
	}
	if isCloseBracket(content[0]) {
		target = dropOneLevel(target, in.unit)
	}

	oldLen := buffer.ByteOffset(len(text) - len(content))
	if text[:oldLen] == target {
		return nil
	}
	start := in.buf.LineStartOffset(line)
	_, err := in.buf.Replace(start, start+oldLen, target)
	return err
}

func leadingWhitespace(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}

func endsWithOpenBracket(s string) bool {
	trimmed := strings.TrimRight(s, " \t")
	if trimmed == "" {
		return false
	}
	switch trimmed[len(trimmed)-1] {
	case '(', '[', '{':
		return true
	}
	return false
}

func isCloseBracket(b byte) bool {
	switch b {
	case ')', ']', '}':
		return true
	}
	return false
}

// dropOneLevel removes one indentation level from a whitespace string: a
// leading tab, or up to one unit's worth of spaces.
func dropOneLevel(ws, unit string) string {
	if ws == "" {
		return ws
	}
	if ws[0] == '\t' {
		return ws[1:]
	}
	n := len(unit)
	if n == 0 || unit[0] == '\t' {
		n = 1
	}
	if n > len(ws) {
		n = len(ws)
	}
	for i := 0; i < n; i++ {
		if ws[i] != ' ' {
			return ws[i:]
		}
	}
	return ws[n:]
}
