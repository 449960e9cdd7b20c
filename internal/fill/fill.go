// Package fill rewraps prose paragraphs to a column width. It is the
// fallback path when the cursor is not inside a bracketed list: plain
// paragraphs and line-comment blocks, with indentation and the comment
// leader preserved as a per-line prefix.
package fill

import (
	"strings"

	"github.com/dshills/argfill/internal/engine/buffer"
	"github.com/dshills/argfill/internal/scan"
)

// Buffer is the edit surface the filler needs. *buffer.Buffer satisfies it.
type Buffer interface {
	Text() string
	Replace(start, end buffer.ByteOffset, text string) (buffer.EditResult, error)
}

// Filler fills paragraphs in buf to a column width using lang's line-comment
// leaders to recognize comment blocks.
type Filler struct {
	buf    Buffer
	lang   *scan.Language
	column int
}

// New creates a Filler. A non-positive column falls back to 79.
func New(buf Buffer, lang *scan.Language, column int) *Filler {
	if column <= 0 {
		column = 79
	}
	if lang == nil {
		lang = scan.PlainLanguage()
	}
	return &Filler{buf: buf, lang: lang, column: column}
}

// FillAt rewraps the paragraph around offset. A blank line, or an offset
// outside the buffer, is a no-op. The buffer is edited only when the wrapped
// text differs from the source.
func (f *Filler) FillAt(offset buffer.ByteOffset) error {
	src := f.buf.Text()
	if offset < 0 || offset > buffer.ByteOffset(len(src)) {
		return nil
	}

	lines := splitLines(src)
	cur := lineAt(lines, int(offset))
	if cur < 0 {
		return nil
	}
	indent, leader, ok := f.classify(lines[cur].text)
	if !ok {
		return nil
	}

	// Grow the paragraph over contiguous lines of the same class.
	lo := cur
	for lo > 0 && f.sameClass(lines[lo-1].text, indent, leader) {
		lo--
	}
	hi := cur
	for hi < len(lines)-1 && f.sameClass(lines[hi+1].text, indent, leader) {
		hi++
	}

	var words []string
	for i := lo; i <= hi; i++ {
		words = append(words, strings.Fields(f.stripPrefix(lines[i].text, indent, leader))...)
	}
	if len(words) == 0 {
		return nil
	}

	prefix := indent
	if leader != "" {
		prefix = indent + leader + " "
	}
	wrapped := wrap(words, prefix, f.column)

	start := buffer.ByteOffset(lines[lo].start)
	end := buffer.ByteOffset(lines[hi].end)
	if wrapped == src[start:end] {
		return nil
	}
	_, err := f.buf.Replace(start, end, wrapped)
	return err
}

// classify splits a line into its indentation and line-comment leader.
// ok is false for blank lines, which never start a paragraph.
func (f *Filler) classify(text string) (indent, leader string, ok bool) {
	trimmed := strings.TrimLeft(text, " \t")
	if trimmed == "" {
		return "", "", false
	}
	indent = text[:len(text)-len(trimmed)]
	for _, c := range f.lang.Comments {
		if c.End != "" {
			continue
		}
		if strings.HasPrefix(trimmed, c.Start) {
			rest := strings.TrimPrefix(trimmed, c.Start)
			if strings.TrimSpace(rest) == "" {
				return "", "", false
			}
			return indent, c.Start, true
		}
	}
	return indent, "", true
}

// sameClass reports whether a neighboring line belongs to the same
// paragraph: same indentation and same comment leader (or none), non-blank.
func (f *Filler) sameClass(text, indent, leader string) bool {
	i, l, ok := f.classify(text)
	return ok && i == indent && l == leader
}

func (f *Filler) stripPrefix(text, indent, leader string) string {
	s := strings.TrimPrefix(text, indent)
	if leader != "" {
		s = strings.TrimPrefix(s, leader)
	}
	return s
}

// wrap greedily packs words into prefix-led lines of at most width columns.
// A word longer than the width gets a line of its own.
func wrap(words []string, prefix string, width int) string {
	var b strings.Builder
	col := 0
	for _, w := range words {
		switch {
		case col == 0:
			b.WriteString(prefix)
			b.WriteString(w)
			col = len(prefix) + len(w)
		case col+1+len(w) > width:
			b.WriteByte('\n')
			b.WriteString(prefix)
			b.WriteString(w)
			col = len(prefix) + len(w)
		default:
			b.WriteByte(' ')
			b.WriteString(w)
			col += 1 + len(w)
		}
	}
	return b.String()
}

// line is one source line without its trailing break.
type line struct {
	start int
	end   int
	text  string
}

func splitLines(src string) []line {
	var lines []line
	start := 0
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			end := i
			if end > start && src[end-1] == '\r' {
				end--
			}
			lines = append(lines, line{start: start, end: end, text: src[start:end]})
			start = i + 1
		}
	}
	lines = append(lines, line{start: start, end: len(src), text: src[start:]})
	return lines
}

// lineAt returns the index of the line containing offset, or -1.
func lineAt(lines []line, offset int) int {
	for i, l := range lines {
		if offset >= l.start && offset <= l.end {
			return i
		}
		// Offsets inside a line break belong to the line they end.
		if i < len(lines)-1 && offset < lines[i+1].start {
			return i
		}
	}
	return -1
}
