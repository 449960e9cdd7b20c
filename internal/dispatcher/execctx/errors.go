package execctx

import "errors"

var (
	// ErrNoEngine indicates the context has no text engine.
	ErrNoEngine = errors.New("execution context has no engine")

	// ErrNoCursor indicates the context has no cursor tracker.
	ErrNoCursor = errors.New("execution context has no cursor")
)
