package buffer

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithLineEnding sets the buffer's line ending style.
func WithLineEnding(le LineEnding) Option {
	return func(b *Buffer) {
		b.lineEnding = le
	}
}

// WithTabWidth sets the buffer's tab width.
func WithTabWidth(width int) Option {
	return func(b *Buffer) {
		if width > 0 {
			b.tabWidth = width
		}
	}
}

// DetectLineEnding returns the dominant line ending style in the text.
// Returns LineEndingLF when no line endings are found.
func DetectLineEnding(text string) LineEnding {
	var lfCount, crlfCount int

	for i := 0; i < len(text); i++ {
		if text[i] != '\n' {
			continue
		}
		if i > 0 && text[i-1] == '\r' {
			crlfCount++
		} else {
			lfCount++
		}
	}

	if crlfCount > lfCount {
		return LineEndingCRLF
	}
	return LineEndingLF
}
