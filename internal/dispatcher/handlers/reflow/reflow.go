// Package reflow provides handlers for list reflow actions.
package reflow

import (
	"fmt"

	"github.com/dshills/argfill/internal/dispatcher/execctx"
	"github.com/dshills/argfill/internal/dispatcher/handler"
	"github.com/dshills/argfill/internal/engine/buffer"
	"github.com/dshills/argfill/internal/fill"
	"github.com/dshills/argfill/internal/indent"
	"github.com/dshills/argfill/internal/reflow"
)

// Action names for reflow operations.
const (
	ActionDwim         = "reflow.dwim"         // context-sensitive toggle
	ActionToSingleLine = "reflow.toSingleLine" // collapse list to one line
	ActionToMultiLine  = "reflow.toMultiLine"  // expand list, one item per line
	ActionFill         = "reflow.fill"         // paragraph fill at cursor
)

// Handler handles reflow actions.
type Handler struct{}

// NewHandler creates a reflow handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Namespace returns the reflow namespace.
func (h *Handler) Namespace() string {
	return "reflow"
}

// CanHandle returns true if this handler can process the action.
func (h *Handler) CanHandle(actionName string) bool {
	switch actionName {
	case ActionDwim, ActionToSingleLine, ActionToMultiLine, ActionFill:
		return true
	}
	return false
}

// HandleAction processes a reflow action. The cursor position is restored
// after the transformation on every path.
func (h *Handler) HandleAction(action handler.Action, ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.Validate(); err != nil {
		return handler.Error(err)
	}

	// Restore the pre-invocation cursor, then clamp it in case the edit
	// shrank the buffer past it.
	defer func() { ctx.Cursor.Clamp(ctx.Engine.Len()) }()
	saved := ctx.Cursor.Save()
	defer saved.Restore()

	offset := ctx.CursorOffset()
	r := reflow.New(ctx.Engine, ctx.Lang(), ctx.Policy)
	ind := indent.New(ctx.Engine, ctx.IndentUnit)
	fil := fill.New(ctx.Engine, ctx.Lang(), ctx.Policy.FillColumn)

	var out reflow.Outcome
	var err error
	switch action.Name {
	case ActionDwim:
		out, err = r.Dwim(offset, ind, fil)
	case ActionToSingleLine:
		out, err = r.ToSingleLine(offset)
	case ActionToMultiLine:
		out, err = r.ToMultiLine(offset, ind)
	case ActionFill:
		if err := fil.FillAt(offset); err != nil {
			return handler.Error(err)
		}
		return handler.Success().WithMessage("fill")
	default:
		return handler.Errorf("unknown reflow action: %s", action.Name)
	}
	if err != nil {
		return handler.Error(err)
	}
	return resultFor(ctx, out)
}

func resultFor(ctx *execctx.ExecutionContext, out reflow.Outcome) handler.Result {
	if !out.Changed {
		return handler.NoOp().WithMessage(out.Op.String())
	}
	res := handler.Success().WithMessage(fmt.Sprintf("%s %s", out.Op, out.NewSpan))
	if out.NewSpan.IsValid() && !out.NewSpan.IsEmpty() {
		res = res.WithEdit(handler.Edit{
			Range:   out.NewSpan,
			NewText: newText(ctx, out.NewSpan),
		})
	}
	return res
}

func newText(ctx *execctx.ExecutionContext, r buffer.Range) string {
	return ctx.Engine.TextRange(r.Start, r.End)
}
