package lua

import "errors"

// ErrStateClosed indicates use of a closed Lua state.
var ErrStateClosed = errors.New("lua state is closed")
