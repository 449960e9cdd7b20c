package lua

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/argfill/internal/scan"
)

// Bridge exposes the language registry to Lua scripts through a global
// `argfill` table:
//
//	argfill.register_language{
//	    name = "sql",
//	    extensions = {".sql"},
//	    separator = ",",
//	    strings = {{start = "'", ["end"] = "'", escape = "\\"}},
//	    comments = {{start = "--"}},
//	}
//	argfill.set_separator("go", ";", false)
type Bridge struct {
	registry *scan.Registry
}

// NewBridge creates a bridge over registry.
func NewBridge(registry *scan.Registry) *Bridge {
	return &Bridge{registry: registry}
}

// Register installs the argfill table into the state.
func (b *Bridge) Register(s *State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	L := s.L

	mod := L.NewTable()
	L.SetField(mod, "register_language", L.NewFunction(b.registerLanguage))
	L.SetField(mod, "set_separator", L.NewFunction(b.setSeparator))
	L.SetField(mod, "languages", L.NewFunction(b.languages))
	L.SetGlobal("argfill", mod)
}

// registerLanguage implements argfill.register_language(table).
func (b *Bridge) registerLanguage(L *lua.LState) int {
	tbl := L.CheckTable(1)

	name := stringField(tbl, "name")
	if name == "" {
		L.ArgError(1, "language name is required")
		return 0
	}

	lang := &scan.Language{
		Name:               name,
		Extensions:         stringSlice(L, tbl, "extensions"),
		TagMode:            boolField(tbl, "tag_mode"),
		Separator:          stringField(tbl, "separator"),
		SeparatorIsPattern: boolField(tbl, "separator_is_pattern"),
	}

	eachTable(L, tbl, "strings", func(rule *lua.LTable) {
		sr := scan.StringRule{
			Start:     stringField(rule, "start"),
			End:       stringField(rule, "end"),
			Multiline: boolField(rule, "multiline"),
		}
		if esc := stringField(rule, "escape"); esc != "" {
			sr.Escape = esc[0]
		}
		lang.Strings = append(lang.Strings, sr)
	})
	eachTable(L, tbl, "comments", func(rule *lua.LTable) {
		lang.Comments = append(lang.Comments, scan.CommentRule{
			Start: stringField(rule, "start"),
			End:   stringField(rule, "end"),
		})
	})

	b.registry.Register(lang)
	return 0
}

// setSeparator implements argfill.set_separator(name, separator, isPattern).
func (b *Bridge) setSeparator(L *lua.LState) int {
	name := L.CheckString(1)
	sep := L.CheckString(2)
	isPattern := L.OptBool(3, false)

	lang, ok := b.registry.Get(name)
	if !ok {
		L.ArgError(1, "unknown language: "+name)
		return 0
	}
	updated := *lang
	updated.Separator = sep
	updated.SeparatorIsPattern = isPattern
	b.registry.Register(&updated)
	return 0
}

// languages implements argfill.languages(), returning registered names.
func (b *Bridge) languages(L *lua.LState) int {
	tbl := L.NewTable()
	for i, name := range b.registry.Names() {
		L.RawSetInt(tbl, i+1, lua.LString(name))
	}
	L.Push(tbl)
	return 1
}

func stringField(tbl *lua.LTable, key string) string {
	if v, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(v)
	}
	return ""
}

func boolField(tbl *lua.LTable, key string) bool {
	if v, ok := tbl.RawGetString(key).(lua.LBool); ok {
		return bool(v)
	}
	return false
}

func stringSlice(L *lua.LState, tbl *lua.LTable, key string) []string {
	list, ok := tbl.RawGetString(key).(*lua.LTable)
	if !ok {
		return nil
	}
	var out []string
	list.ForEach(func(_, v lua.LValue) {
		if s, ok := v.(lua.LString); ok {
			out = append(out, string(s))
		}
	})
	return out
}

func eachTable(L *lua.LState, tbl *lua.LTable, key string, fn func(*lua.LTable)) {
	list, ok := tbl.RawGetString(key).(*lua.LTable)
	if !ok {
		return
	}
	list.ForEach(func(_, v lua.LValue) {
		if t, ok := v.(*lua.LTable); ok {
			fn(t)
		}
	})
}
