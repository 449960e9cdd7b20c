package app

import "errors"

// ErrUnknownLanguage indicates a language name with no registry entry.
var ErrUnknownLanguage = errors.New("unknown language")
