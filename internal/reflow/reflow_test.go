package reflow

import (
	"testing"

	"github.com/dshills/argfill/internal/engine/buffer"
	"github.com/dshills/argfill/internal/scan"
)

type recordingIndenter struct {
	calls [][2]uint32
}

func (r *recordingIndenter) ReindentRange(startLine, endLine uint32) error {
	r.calls = append(r.calls, [2]uint32{startLine, endLine})
	return nil
}

type recordingFiller struct {
	calls []buffer.ByteOffset
}

func (r *recordingFiller) FillAt(offset buffer.ByteOffset) error {
	r.calls = append(r.calls, offset)
	return nil
}

func newTestReflow(src string, policy Policy) (*Reflow, *buffer.Buffer) {
	buf := buffer.NewBufferFromString(src)
	return New(buf, scan.GoLanguage(), policy), buf
}

func TestCollapseMultiLineCall(t *testing.T) {
	r, buf := newTestReflow("foo(\n  x,\n  y,\n  z\n)", DefaultPolicy())

	out, err := r.ToSingleLine(7) // inside "x"
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Changed {
		t.Error("expected a change")
	}
	if got := buf.Text(); got != "foo(x, y, z)" {
		t.Errorf("expected %q, got %q", "foo(x, y, z)", got)
	}
}

func TestExpandSingleLineCall(t *testing.T) {
	r, buf := newTestReflow("foo(x, y, z)", DefaultPolicy())

	out, err := r.ToMultiLine(5, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Op != OpExpand {
		t.Errorf("expected expand, got %v", out.Op)
	}
	if got := buf.Text(); got != "foo(\nx,\ny,\nz\n)" {
		t.Errorf("expected %q, got %q", "foo(\nx,\ny,\nz\n)", got)
	}
}

func TestExpandPreservesStringLiteral(t *testing.T) {
	src := `foo(x, "a string, with commas", y)`
	r, buf := newTestReflow(src, DefaultPolicy())

	if _, err := r.ToMultiLine(32, nil); err != nil { // inside "y"
		t.Fatalf("unexpected error: %v", err)
	}
	want := "foo(\nx,\n\"a string, with commas\",\ny\n)"
	if got := buf.Text(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestExpandPreservesNestedCall(t *testing.T) {
	r, buf := newTestReflow("foo(x, g(a, b, c), y, z)", DefaultPolicy())

	if _, err := r.ToMultiLine(19, nil); err != nil { // before "y"
		t.Fatalf("unexpected error: %v", err)
	}
	want := "foo(\nx,\ng(a, b, c),\ny,\nz\n)"
	if got := buf.Text(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestExpandInnermostBracket(t *testing.T) {
	r, buf := newTestReflow("foo(x, g(a, b, c), y, z)", DefaultPolicy())

	if _, err := r.ToMultiLine(12, nil); err != nil { // inside g(...), at "b"
		t.Fatalf("unexpected error: %v", err)
	}
	want := "foo(x, g(\na,\nb,\nc\n), y, z)"
	if got := buf.Text(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestCollapseReproducesPatternSeparator(t *testing.T) {
	src := "run(\n  alpha AND;\n  beta OR;\n  gamma\n)"
	policy := DefaultPolicy()
	policy.Separator = `.*;`
	policy.SeparatorIsPattern = true
	r, buf := newTestReflow(src, policy)

	if _, err := r.ToSingleLine(8); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "run(alpha AND; beta OR; gamma)"
	if got := buf.Text(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestCollapseIdempotent(t *testing.T) {
	src := "foo(x, y, z)"
	r, buf := newTestReflow(src, DefaultPolicy())

	out, err := r.ToSingleLine(5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Changed {
		t.Error("expected no change on single-line region")
	}
	if got := buf.Text(); got != src {
		t.Errorf("expected buffer unchanged, got %q", got)
	}
}

func TestRoundTrip(t *testing.T) {
	src := "foo(x, y, z)"
	r, buf := newTestReflow(src, DefaultPolicy())

	if _, err := r.ToMultiLine(5, nil); err != nil {
		t.Fatalf("expand failed: %v", err)
	}
	if _, err := r.ToSingleLine(5); err != nil {
		t.Fatalf("collapse failed: %v", err)
	}
	if got := buf.Text(); got != src {
		t.Errorf("round trip expected %q, got %q", src, got)
	}
}

func TestCollapseStripsTrailingSeparator(t *testing.T) {
	r, buf := newTestReflow("foo(\n  x,\n  y,\n)", DefaultPolicy())

	if _, err := r.ToSingleLine(7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := buf.Text(); got != "foo(x, y)" {
		t.Errorf("expected %q, got %q", "foo(x, y)", got)
	}
}

func TestCollapseKeepsTrailingSeparatorWhenWanted(t *testing.T) {
	policy := DefaultPolicy()
	policy.TrailingSeparator = true
	r, buf := newTestReflow("foo(\n  x,\n  y,\n)", policy)

	if _, err := r.ToSingleLine(7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := buf.Text(); got != "foo(x, y,)" {
		t.Errorf("expected %q, got %q", "foo(x, y,)", got)
	}
}

func TestExpandAddsTrailingSeparator(t *testing.T) {
	policy := DefaultPolicy()
	policy.TrailingSeparator = true
	r, buf := newTestReflow("foo(x, y)", policy)

	if _, err := r.ToMultiLine(5, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := buf.Text(); got != "foo(\nx,\ny,\n)" {
		t.Errorf("expected %q, got %q", "foo(\nx,\ny,\n)", got)
	}
}

func TestExpandDoesNotDuplicateTrailingSeparator(t *testing.T) {
	policy := DefaultPolicy()
	policy.TrailingSeparator = true
	r, buf := newTestReflow("foo(x, y,)", policy)

	if _, err := r.ToMultiLine(5, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := buf.Text(); got != "foo(\nx,\ny,\n)" {
		t.Errorf("expected %q, got %q", "foo(\nx,\ny,\n)", got)
	}
}

func TestExpandTrailingSeparatorWithLastArgSameLine(t *testing.T) {
	// The separator sits directly before the closing bracket with no break.
	policy := DefaultPolicy()
	policy.TrailingSeparator = true
	policy.LastArgSameLine = true
	r, buf := newTestReflow("foo(x, y)", policy)

	if _, err := r.ToMultiLine(5, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := buf.Text(); got != "foo(\nx,\ny,)" {
		t.Errorf("expected %q, got %q", "foo(\nx,\ny,)", got)
	}
}

func TestExpandPlacementFlags(t *testing.T) {
	tests := []struct {
		name   string
		policy func(*Policy)
		want   string
	}{
		{
			name:   "first arg same line",
			policy: func(p *Policy) { p.FirstArgSameLine = true },
			want:   "foo(x,\ny,\nz\n)",
		},
		{
			name:   "last arg same line",
			policy: func(p *Policy) { p.LastArgSameLine = true },
			want:   "foo(\nx,\ny,\nz)",
		},
		{
			name:   "second arg same line",
			policy: func(p *Policy) { p.SecondArgSameLine = true },
			want:   "foo(\nx, y,\nz\n)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := DefaultPolicy()
			tt.policy(&policy)
			r, buf := newTestReflow("foo(x, y, z)", policy)
			if _, err := r.ToMultiLine(5, nil); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := buf.Text(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestExpandEmptyList(t *testing.T) {
	r, buf := newTestReflow("foo()", DefaultPolicy())

	if _, err := r.ToMultiLine(4, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := buf.Text(); got != "foo(\n)" {
		t.Errorf("expected %q, got %q", "foo(\n)", got)
	}
}

func TestExpandEmptyListBothFlagsNoOp(t *testing.T) {
	policy := DefaultPolicy()
	policy.FirstArgSameLine = true
	policy.LastArgSameLine = true
	r, buf := newTestReflow("foo()", policy)

	out, err := r.ToMultiLine(4, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Changed {
		t.Error("expected no change")
	}
	if got := buf.Text(); got != "foo()" {
		t.Errorf("expected %q, got %q", "foo()", got)
	}
}

func TestExpandSecondArgSameLineSingleItem(t *testing.T) {
	// Fewer than two items: the same-line skip finds nothing and the
	// expansion proceeds normally.
	policy := DefaultPolicy()
	policy.SecondArgSameLine = true
	r, buf := newTestReflow("foo(x)", policy)

	if _, err := r.ToMultiLine(4, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := buf.Text(); got != "foo(\nx\n)" {
		t.Errorf("expected %q, got %q", "foo(\nx\n)", got)
	}
}

func TestNoEnclosingBracketIsSilentNoOp(t *testing.T) {
	src := "plain prose, no brackets"
	r, buf := newTestReflow(src, DefaultPolicy())

	out, err := r.ToSingleLine(5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Op != OpNone || out.Changed {
		t.Errorf("expected silent no-op, got %+v", out)
	}
	if got := buf.Text(); got != src {
		t.Errorf("expected buffer unchanged, got %q", got)
	}
}

func TestUnbalancedBracketAbortsWithoutEdit(t *testing.T) {
	src := "foo(x, y"
	r, buf := newTestReflow(src, DefaultPolicy())

	if _, err := r.ToSingleLine(5); err == nil {
		t.Fatal("expected an error for unbalanced brackets")
	}
	if got := buf.Text(); got != src {
		t.Errorf("expected buffer unchanged, got %q", got)
	}
}

func TestExpandDelegatesIndentation(t *testing.T) {
	r, _ := newTestReflow("foo(x, y)", DefaultPolicy())
	ind := &recordingIndenter{}

	if _, err := r.ToMultiLine(5, ind); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ind.calls) != 1 {
		t.Fatalf("expected one reindent call, got %d", len(ind.calls))
	}
	if got := ind.calls[0]; got != [2]uint32{1, 3} {
		t.Errorf("expected reindent of lines 1-3, got %v", got)
	}
}

func TestDwimCollapsesMultiLine(t *testing.T) {
	r, buf := newTestReflow("foo(\n  x,\n  y\n)", DefaultPolicy())

	out, err := r.Dwim(7, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Op != OpCollapse {
		t.Errorf("expected collapse, got %v", out.Op)
	}
	if got := buf.Text(); got != "foo(x, y)" {
		t.Errorf("expected %q, got %q", "foo(x, y)", got)
	}
}

func TestDwimExpandsSingleLine(t *testing.T) {
	r, buf := newTestReflow("foo(x, y)", DefaultPolicy())

	out, err := r.Dwim(5, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Op != OpExpand {
		t.Errorf("expected expand, got %v", out.Op)
	}
	if got := buf.Text(); got != "foo(\nx,\ny\n)" {
		t.Errorf("expected %q, got %q", "foo(\nx,\ny\n)", got)
	}
}

func TestDwimFallsBackToFillOutsideBrackets(t *testing.T) {
	r, _ := newTestReflow("plain prose without any list", DefaultPolicy())
	fil := &recordingFiller{}

	out, err := r.Dwim(6, nil, fil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Op != OpFill {
		t.Errorf("expected fill, got %v", out.Op)
	}
	if len(fil.calls) != 1 || fil.calls[0] != 6 {
		t.Errorf("expected fill at offset 6, got %v", fil.calls)
	}
}

func TestDwimFallsBackToFillInComment(t *testing.T) {
	r, _ := newTestReflow("// notes (a, b, c)\nfoo(x)\n", DefaultPolicy())
	fil := &recordingFiller{}

	out, err := r.Dwim(12, nil, fil) // inside the comment's bracket
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Op != OpFill {
		t.Errorf("expected fill, got %v", out.Op)
	}
}

func TestDwimFillDisabledUsesBracketLogic(t *testing.T) {
	policy := DefaultPolicy()
	policy.FallbackFill = false
	r, _ := newTestReflow(`foo("a, b", y)`, policy)

	op, _, err := r.Decide(6) // inside the string, enclosing paren exists
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op != OpExpand {
		t.Errorf("expected expand, got %v", op)
	}
}

func TestDecideTagModeSuppressesFallback(t *testing.T) {
	// In a markup mode, a non-tag bracket pair is an argument list even when
	// the cursor sits in a string.
	r := New(buffer.NewBufferFromString(`call(a, "b, c", d)`), scan.XMLLanguage(), DefaultPolicy())

	op, _, err := r.Decide(10) // inside "b, c"
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op != OpExpand {
		t.Errorf("expected expand, got %v", op)
	}
}

func TestDecideTagModeKeepsFallbackForTags(t *testing.T) {
	r := New(buffer.NewBufferFromString(`<a href="x y z">`), scan.XMLLanguage(), DefaultPolicy())

	op, _, err := r.Decide(10) // inside the attribute string
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op != OpFill {
		t.Errorf("expected fill, got %v", op)
	}
}

func TestLanguageSeparatorOverride(t *testing.T) {
	// Lisp lists split on whitespace, so the policy's comma is ignored.
	r := New(buffer.NewBufferFromString("(foo bar baz)"), scan.LispLanguage(), DefaultPolicy())

	if _, err := r.ToMultiLine(6, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "(\nfoo\nbar\nbaz\n)"
	if got := r.eng.Text(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
