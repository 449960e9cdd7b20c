// Package dispatcher routes named actions to registered handlers.
package dispatcher

import (
	"sync"

	"github.com/dshills/argfill/internal/dispatcher/execctx"
	"github.com/dshills/argfill/internal/dispatcher/handler"
)

// Hook observes dispatches. Before runs ahead of the handler; After sees the
// result. Hooks must not mutate the context.
type Hook interface {
	Before(action handler.Action)
	After(action handler.Action, result handler.Result)
}

// Dispatcher routes actions to the first handler that claims them.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers []handler.Handler
	hooks    []Hook
}

// New creates an empty dispatcher.
func New() *Dispatcher {
	return &Dispatcher{}
}

// Register adds a handler. Handlers are consulted in registration order.
func (d *Dispatcher) Register(h handler.Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = append(d.handlers, h)
}

// RegisterNamespace adds a namespace handler.
func (d *Dispatcher) RegisterNamespace(h handler.NamespaceHandler) {
	d.Register(handler.NewNamespaceAdapter(h))
}

// AddHook attaches a dispatch observer.
func (d *Dispatcher) AddHook(hook Hook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hooks = append(d.hooks, hook)
}

// Dispatch routes action to a handler and returns its result. An action no
// handler claims yields an error result.
func (d *Dispatcher) Dispatch(action handler.Action, ctx *execctx.ExecutionContext) handler.Result {
	d.mu.RLock()
	handlers := d.handlers
	hooks := d.hooks
	d.mu.RUnlock()

	for _, hook := range hooks {
		hook.Before(action)
	}

	result := handler.Errorf("%w: %s", ErrUnknownAction, action.Name)
	for _, h := range handlers {
		if h.CanHandle(action.Name) {
			result = h.Handle(action, ctx)
			break
		}
	}

	for _, hook := range hooks {
		hook.After(action, result)
	}
	return result
}

// CanDispatch reports whether any handler claims the action name.
func (d *Dispatcher) CanDispatch(actionName string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, h := range d.handlers {
		if h.CanHandle(actionName) {
			return true
		}
	}
	return false
}
