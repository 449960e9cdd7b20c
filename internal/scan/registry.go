package scan

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Registry maps language names and file extensions to lexical definitions.
// All methods are thread-safe.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*Language
	byExt  map[string]*Language
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*Language),
		byExt:  make(map[string]*Language),
	}
}

// NewRegistryWithBuiltins creates a registry preloaded with the built-in
// language definitions.
func NewRegistryWithBuiltins() *Registry {
	r := NewRegistry()
	r.Register(GoLanguage())
	r.Register(PythonLanguage())
	r.Register(JavaScriptLanguage())
	r.Register(RustLanguage())
	r.Register(LispLanguage())
	r.Register(XMLLanguage())
	r.Register(PlainLanguage())
	return r
}

// Register adds a language definition, replacing any existing definition
// with the same name.
func (r *Registry) Register(lang *Language) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byName[strings.ToLower(lang.Name)] = lang
	for _, ext := range lang.Extensions {
		r.byExt[strings.ToLower(ext)] = lang
	}
}

// Get returns the language with the given name.
func (r *Registry) Get(name string) (*Language, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lang, ok := r.byName[strings.ToLower(name)]
	return lang, ok
}

// ForFile returns the language for a file path based on its extension,
// falling back to the plain definition when the extension is unknown.
func (r *Registry) ForFile(path string) *Language {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := r.byExt[ext]; ok {
		return lang
	}
	if lang, ok := r.byName["plain"]; ok {
		return lang
	}
	return PlainLanguage()
}

// Names returns all registered language names sorted alphabetically.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
