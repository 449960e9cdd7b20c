package lua

import (
	"os"
	"path/filepath"
	"testing"

	glua "github.com/yuin/gopher-lua"

	"github.com/dshills/argfill/internal/scan"
)

func newTestBridge(t *testing.T) (*State, *scan.Registry) {
	t.Helper()
	s := NewState()
	t.Cleanup(s.Close)
	reg := scan.NewRegistryWithBuiltins()
	NewBridge(reg).Register(s)
	return s, reg
}

func TestRegisterLanguageFromLua(t *testing.T) {
	s, reg := newTestBridge(t)

	err := s.DoString(`
		argfill.register_language{
			name = "sql",
			extensions = {".sql"},
			separator = ",",
			strings = {{start = "'", ["end"] = "'", escape = "\\"}},
			comments = {{start = "--"}},
		}
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lang, ok := reg.Get("sql")
	if !ok {
		t.Fatal("expected sql language registered")
	}
	if len(lang.Strings) != 1 || lang.Strings[0].Start != "'" {
		t.Errorf("unexpected string rules: %+v", lang.Strings)
	}
	if len(lang.Comments) != 1 || lang.Comments[0].Start != "--" {
		t.Errorf("unexpected comment rules: %+v", lang.Comments)
	}
	if got := reg.ForFile("query.sql"); got.Name != "sql" {
		t.Errorf("expected extension mapping, got %q", got.Name)
	}
}

func TestSetSeparatorFromLua(t *testing.T) {
	s, reg := newTestBridge(t)

	if err := s.DoString(`argfill.set_separator("go", ";", false)`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lang, ok := reg.Get("go")
	if !ok {
		t.Fatal("expected go language present")
	}
	if lang.Separator != ";" {
		t.Errorf("expected separator %q, got %q", ";", lang.Separator)
	}
}

func TestLanguagesFromLua(t *testing.T) {
	s, _ := newTestBridge(t)

	err := s.DoString(`
		local names = argfill.languages()
		found = false
		for _, n in ipairs(names) do
			if n == "go" then found = true end
		end
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.L.GetGlobal("found") != glua.LTrue {
		t.Error("expected go in language list")
	}
}

func TestLoadDir(t *testing.T) {
	s, reg := newTestBridge(t)

	dir := t.TempDir()
	script := `argfill.register_language{name = "ini", comments = {{start = ";"}}}`
	if err := os.WriteFile(filepath.Join(dir, "ini.lua"), []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := s.LoadDir(dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := reg.Get("ini"); !ok {
		t.Error("expected ini language registered from plugin dir")
	}
}

func TestLoadDirMissingIsNoOp(t *testing.T) {
	s, _ := newTestBridge(t)
	if err := s.LoadDir(filepath.Join(t.TempDir(), "absent")); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDoStringAfterClose(t *testing.T) {
	s := NewState()
	reg := scan.NewRegistryWithBuiltins()
	NewBridge(reg).Register(s)
	s.Close()

	if err := s.DoString(`print("x")`); err != ErrStateClosed {
		t.Errorf("expected ErrStateClosed, got %v", err)
	}
}
