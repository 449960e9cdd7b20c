package scan

import (
	"errors"
	"testing"
)

func TestScanStringRegions(t *testing.T) {
	s := NewScanner(GoLanguage(), `foo("a, b", x)`)

	if !s.InString(5) {
		t.Error("offset 5 should be inside the string literal")
	}
	if s.InString(0) {
		t.Error("offset 0 should not be inside a string")
	}
	if s.InString(12) {
		t.Error("offset 12 should not be inside a string")
	}
}

func TestScanStringEscape(t *testing.T) {
	s := NewScanner(GoLanguage(), `x := "a\"b"; y`)

	if !s.InString(9) {
		t.Error("escaped quote should not terminate the string")
	}
	if s.InString(12) {
		t.Error("string should end at the unescaped quote")
	}
}

func TestScanLineComment(t *testing.T) {
	s := NewScanner(GoLanguage(), "x // trailing, comment\ny")

	if !s.InComment(6) {
		t.Error("offset 6 should be inside the line comment")
	}
	if s.InComment(23) {
		t.Error("next line should not be inside the comment")
	}
	if s.InString(6) {
		t.Error("comment text should not be a string region")
	}
}

func TestScanBlockComment(t *testing.T) {
	s := NewScanner(GoLanguage(), "a /* b,\nc */ d")

	if !s.InComment(6) {
		t.Error("offset 6 should be inside the block comment")
	}
	if !s.InComment(9) {
		t.Error("block comments span lines")
	}
	if s.InComment(13) {
		t.Error("offset past */ should not be in the comment")
	}
}

func TestScanStringInsideComment(t *testing.T) {
	s := NewScanner(GoLanguage(), `// "not a string`+"\n"+`"real"`)

	if !s.InComment(4) {
		t.Error("quoted text inside a comment is comment, not string")
	}
	if !s.InString(18) {
		t.Error("string on the next line should be a string region")
	}
}

func TestScanPythonTripleQuote(t *testing.T) {
	s := NewScanner(PythonLanguage(), `x = """a, 'b', c""" + 'd'`)

	if !s.InString(10) {
		t.Error("single quote inside triple-quoted string stays inside it")
	}
	if s.InString(20) {
		t.Error("triple-quoted string should end at its closing delimiter")
	}
	if !s.InString(23) {
		t.Error("offset 23 should be inside the single-quoted string")
	}
}

func TestScanUnterminatedString(t *testing.T) {
	s := NewScanner(GoLanguage(), "x := \"abc\ny := 1")

	if !s.InString(7) {
		t.Error("offset 7 should be inside the unterminated string")
	}
	if s.InString(11) {
		t.Error("unterminated single-line string stops at the line break")
	}
}

func TestEnclosingBracket(t *testing.T) {
	src := "foo(x, g(a, b), y)"
	s := NewScanner(GoLanguage(), src)

	open, ok := s.EnclosingBracket(5)
	if !ok || open != 3 {
		t.Errorf("expected enclosing bracket 3, got %d (ok=%v)", open, ok)
	}

	open, ok = s.EnclosingBracket(10)
	if !ok || open != 8 {
		t.Errorf("expected nested enclosing bracket 8, got %d (ok=%v)", open, ok)
	}

	open, ok = s.EnclosingBracket(16)
	if !ok || open != 3 {
		t.Errorf("expected enclosing bracket 3 after nested call, got %d (ok=%v)", open, ok)
	}

	if _, ok := s.EnclosingBracket(1); ok {
		t.Error("expected no enclosing bracket at top level")
	}
}

func TestEnclosingBracketIgnoresStrings(t *testing.T) {
	src := `foo("(", x)`
	s := NewScanner(GoLanguage(), src)

	open, ok := s.EnclosingBracket(9)
	if !ok || open != 3 {
		t.Errorf("paren inside string must not be structural; got %d (ok=%v)", open, ok)
	}
}

func TestMatchingClose(t *testing.T) {
	src := "foo(x, g(a, b), y)"
	s := NewScanner(GoLanguage(), src)

	end, err := s.MatchingClose(3)
	if err != nil {
		t.Fatalf("matching close failed: %v", err)
	}
	if end != int64(len(src)) {
		t.Errorf("expected close at %d, got %d", len(src), end)
	}

	end, err = s.MatchingClose(8)
	if err != nil {
		t.Fatalf("matching close failed: %v", err)
	}
	if end != 14 {
		t.Errorf("expected nested close at 14, got %d", end)
	}
}

func TestMatchingCloseUnbalanced(t *testing.T) {
	s := NewScanner(GoLanguage(), "foo(x, y")

	if _, err := s.MatchingClose(3); !errors.Is(err, ErrUnbalanced) {
		t.Errorf("expected ErrUnbalanced, got %v", err)
	}
}

func TestMatchingCloseNotBracket(t *testing.T) {
	s := NewScanner(GoLanguage(), "foo(x)")

	if _, err := s.MatchingClose(1); !errors.Is(err, ErrNotBracket) {
		t.Errorf("expected ErrNotBracket, got %v", err)
	}
	if _, err := s.MatchingClose(100); !errors.Is(err, ErrNotBracket) {
		t.Errorf("expected ErrNotBracket for out of range, got %v", err)
	}
}

func TestTagModeBrackets(t *testing.T) {
	src := `<div class="a" id="b">`
	s := NewScanner(XMLLanguage(), src)

	open, ok := s.EnclosingBracket(5)
	if !ok || open != 0 {
		t.Errorf("expected enclosing tag bracket 0, got %d (ok=%v)", open, ok)
	}

	end, err := s.MatchingClose(0)
	if err != nil {
		t.Fatalf("matching close failed: %v", err)
	}
	if end != int64(len(src)) {
		t.Errorf("expected tag close at %d, got %d", len(src), end)
	}
}

func TestTagModeAngleNotBracketElsewhere(t *testing.T) {
	s := NewScanner(GoLanguage(), "a < b")

	if _, ok := s.EnclosingBracket(4); ok {
		t.Error("'<' must not be structural outside tag mode")
	}
}

func TestRegistryForFile(t *testing.T) {
	r := NewRegistryWithBuiltins()

	if lang := r.ForFile("main.go"); lang.Name != "go" {
		t.Errorf("expected go, got %s", lang.Name)
	}
	if lang := r.ForFile("index.html"); lang.Name != "xml" {
		t.Errorf("expected xml, got %s", lang.Name)
	}
	if lang := r.ForFile("notes.txt"); lang.Name != "plain" {
		t.Errorf("expected plain fallback, got %s", lang.Name)
	}
}

func TestRegistryRegisterReplaces(t *testing.T) {
	r := NewRegistryWithBuiltins()
	r.Register(&Language{Name: "go", Extensions: []string{".go"}, Separator: ";"})

	lang, ok := r.Get("go")
	if !ok || lang.Separator != ";" {
		t.Error("expected re-registered language to replace the builtin")
	}
}

func TestLanguagePackParse(t *testing.T) {
	r := NewRegistry()
	data := []byte(`
languages:
  - name: ini
    extensions: [".ini", ".cfg"]
    comments:
      - start: ";"
      - start: "#"
    strings:
      - start: '"'
        escape: "\\"
`)
	if err := r.ParsePack(data); err != nil {
		t.Fatalf("parse pack failed: %v", err)
	}

	lang, ok := r.Get("ini")
	if !ok {
		t.Fatal("expected ini language to be registered")
	}
	if len(lang.Comments) != 2 {
		t.Errorf("expected 2 comment rules, got %d", len(lang.Comments))
	}
	if len(lang.Strings) != 1 || lang.Strings[0].End != `"` {
		t.Error("expected symmetric string delimiter default")
	}
	if lang.Strings[0].Escape != '\\' {
		t.Error("expected backslash escape")
	}
}

func TestLanguagePackErrors(t *testing.T) {
	r := NewRegistry()

	if err := r.ParsePack([]byte("languages:\n  - extensions: ['.x']\n")); err == nil {
		t.Error("expected error for entry missing name")
	}
	if err := r.ParsePack([]byte("{")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}
