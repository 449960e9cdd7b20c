// Package scan provides string/comment-aware lexical scanning and balanced
// bracket matching over buffer text. It knows nothing about a language's
// grammar beyond its string, comment, and bracket boundaries.
package scan

// StringRule describes one string literal form of a language.
type StringRule struct {
	// Start and End are the delimiter sequences. For symmetric delimiters
	// they are the same string.
	Start string
	End   string

	// Escape is the escape byte honored inside the literal (0 = none).
	Escape byte

	// Multiline allows the literal to span line breaks.
	Multiline bool
}

// CommentRule describes one comment form of a language.
type CommentRule struct {
	// Start begins the comment.
	Start string

	// End terminates the comment. Empty means the comment runs to end of line.
	End string
}

// Language defines the lexical surface the scanner needs: how strings and
// comments begin and end, and whether '<' opens a structural bracket
// (markup/tag modes).
type Language struct {
	// Name is the language identifier (e.g., "go", "python").
	Name string

	// Extensions lists file extensions including the dot (e.g., ".go").
	Extensions []string

	// Strings lists string literal forms. Longer delimiters must come first
	// so that e.g. Python's triple quotes win over single quotes.
	Strings []StringRule

	// Comments lists comment forms.
	Comments []CommentRule

	// TagMode marks markup languages where '<' and '>' delimit tags and
	// attribute lists inside tags reflow like argument lists.
	TagMode bool

	// Separator overrides the configured list separator for this language
	// ("" = use the configured default).
	Separator string

	// SeparatorIsPattern treats Separator as a regular expression.
	SeparatorIsPattern bool
}

// bracketPairs maps opening brackets to their closing counterparts.
var bracketPairs = map[byte]byte{
	'(': ')',
	'[': ']',
	'{': '}',
}

// CloseFor returns the closing bracket for an opening bracket byte.
func (l *Language) CloseFor(open byte) (byte, bool) {
	if l.TagMode && open == '<' {
		return '>', true
	}
	close, ok := bracketPairs[open]
	return close, ok
}

// IsOpenBracket reports whether b opens a bracket in this language.
func (l *Language) IsOpenBracket(b byte) bool {
	_, ok := l.CloseFor(b)
	return ok
}

// IsCloseBracket reports whether b closes a bracket in this language.
func (l *Language) IsCloseBracket(b byte) bool {
	switch b {
	case ')', ']', '}':
		return true
	case '>':
		return l.TagMode
	}
	return false
}

// GoLanguage returns the lexical definition for Go.
func GoLanguage() *Language {
	return &Language{
		Name:       "go",
		Extensions: []string{".go"},
		Strings: []StringRule{
			{Start: "`", End: "`", Multiline: true},
			{Start: `"`, End: `"`, Escape: '\\'},
			{Start: "'", End: "'", Escape: '\\'},
		},
		Comments: []CommentRule{
			{Start: "//"},
			{Start: "/*", End: "*/"},
		},
	}
}

// PythonLanguage returns the lexical definition for Python.
func PythonLanguage() *Language {
	return &Language{
		Name:       "python",
		Extensions: []string{".py", ".pyw", ".pyi"},
		Strings: []StringRule{
			{Start: `"""`, End: `"""`, Escape: '\\', Multiline: true},
			{Start: "'''", End: "'''", Escape: '\\', Multiline: true},
			{Start: `"`, End: `"`, Escape: '\\'},
			{Start: "'", End: "'", Escape: '\\'},
		},
		Comments: []CommentRule{
			{Start: "#"},
		},
	}
}

// JavaScriptLanguage returns the lexical definition for JavaScript/TypeScript.
func JavaScriptLanguage() *Language {
	return &Language{
		Name:       "javascript",
		Extensions: []string{".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs"},
		Strings: []StringRule{
			{Start: "`", End: "`", Escape: '\\', Multiline: true},
			{Start: `"`, End: `"`, Escape: '\\'},
			{Start: "'", End: "'", Escape: '\\'},
		},
		Comments: []CommentRule{
			{Start: "//"},
			{Start: "/*", End: "*/"},
		},
	}
}

// RustLanguage returns the lexical definition for Rust.
func RustLanguage() *Language {
	return &Language{
		Name:       "rust",
		Extensions: []string{".rs"},
		Strings: []StringRule{
			{Start: `"`, End: `"`, Escape: '\\', Multiline: true},
		},
		Comments: []CommentRule{
			{Start: "//"},
			{Start: "/*", End: "*/"},
		},
	}
}

// LispLanguage returns the lexical definition for Lisp dialects.
func LispLanguage() *Language {
	return &Language{
		Name:       "lisp",
		Extensions: []string{".el", ".lisp", ".clj", ".scm"},
		Strings: []StringRule{
			{Start: `"`, End: `"`, Escape: '\\', Multiline: true},
		},
		Comments: []CommentRule{
			{Start: ";"},
		},
		Separator: " ",
	}
}

// XMLLanguage returns the lexical definition for XML/HTML markup.
func XMLLanguage() *Language {
	return &Language{
		Name:       "xml",
		Extensions: []string{".xml", ".html", ".htm", ".svg", ".sgml"},
		Strings: []StringRule{
			{Start: `"`, End: `"`, Multiline: true},
			{Start: "'", End: "'", Multiline: true},
		},
		Comments: []CommentRule{
			{Start: "<!--", End: "-->"},
		},
		TagMode:   true,
		Separator: " ",
	}
}

// PlainLanguage returns a definition with no lexical rules. Every separator
// and bracket is structural.
func PlainLanguage() *Language {
	return &Language{Name: "plain"}
}
