package reflow

import (
	"testing"

	"github.com/dshills/argfill/internal/engine/buffer"
	"github.com/dshills/argfill/internal/scan"
)

func newSplitter(t *testing.T, src string) (*Splitter, buffer.Range) {
	t.Helper()
	lang := scan.GoLanguage()
	sc := scan.NewScanner(lang, src)
	open := int64(0)
	for i := 0; i < len(src); i++ {
		if src[i] == '(' {
			open = int64(i)
			break
		}
	}
	end, err := sc.MatchingClose(open)
	if err != nil {
		t.Fatalf("matching close: %v", err)
	}
	span := buffer.Range{Start: open, End: end}
	m, err := DefaultPolicy().compileSeparator(lang)
	if err != nil {
		t.Fatalf("separator: %v", err)
	}
	return NewSplitter(sc, src, span, m), span
}

func TestSplitterTopLevelOnly(t *testing.T) {
	src := `foo(a, (b, c), "d, e", f)`
	s, _ := newSplitter(t, src)

	points := s.All()
	if len(points) != 3 {
		t.Fatalf("expected 3 top-level separators, got %d: %v", len(points), points)
	}
	want := []int64{5, 13, 21}
	for i, p := range points {
		if p.Range.Start != want[i] {
			t.Errorf("point %d: expected offset %d, got %d", i, want[i], p.Range.Start)
		}
	}
}

func TestSplitterIsRestartable(t *testing.T) {
	s, _ := newSplitter(t, "foo(a, b, c)")

	first, ok := s.Next()
	if !ok || first.Range.Start != 5 {
		t.Fatalf("expected first separator at 5, got %+v ok=%v", first, ok)
	}
	rest := s.All()
	if len(rest) != 1 || rest[0].Range.Start != 8 {
		t.Errorf("expected remaining separator at 8, got %v", rest)
	}
	if _, ok := s.Next(); ok {
		t.Error("expected exhausted splitter")
	}
}

func TestSplitterEmptyList(t *testing.T) {
	s, _ := newSplitter(t, "foo()")
	if points := s.All(); len(points) != 0 {
		t.Errorf("expected no separators, got %v", points)
	}
}

func TestDanglingSeparator(t *testing.T) {
	src := "foo(x, y, )"
	s, span := newSplitter(t, src)
	points := s.All()

	if !dangling(src, span, points) {
		t.Error("expected dangling separator")
	}
}

func TestNoDanglingSeparator(t *testing.T) {
	src := "foo(x, y)"
	s, span := newSplitter(t, src)
	points := s.All()

	if dangling(src, span, points) {
		t.Error("expected no dangling separator")
	}
}

func TestSeparatorText(t *testing.T) {
	src := "foo(a, b)"
	s, _ := newSplitter(t, src)
	p, ok := s.Next()
	if !ok {
		t.Fatal("expected a separator")
	}
	if got := p.Text(src); got != "," {
		t.Errorf("expected %q, got %q", ",", got)
	}
}
