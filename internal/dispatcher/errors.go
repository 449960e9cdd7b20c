package dispatcher

import "errors"

// ErrUnknownAction indicates no registered handler claims an action name.
var ErrUnknownAction = errors.New("unknown action")
