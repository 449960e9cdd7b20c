// Package execctx provides the execution context for action handlers.
package execctx

import (
	"github.com/dshills/argfill/internal/engine/buffer"
	"github.com/dshills/argfill/internal/engine/cursor"
	"github.com/dshills/argfill/internal/reflow"
	"github.com/dshills/argfill/internal/scan"
)

// EngineInterface abstracts the text engine for handlers. *buffer.Buffer
// satisfies it.
type EngineInterface interface {
	Text() string
	TextRange(start, end buffer.ByteOffset) string
	Len() buffer.ByteOffset
	LineCount() uint32
	LineText(line uint32) string
	LineStartOffset(line uint32) buffer.ByteOffset
	OffsetToPoint(offset buffer.ByteOffset) buffer.Point
	Replace(start, end buffer.ByteOffset, text string) (buffer.EditResult, error)
	Narrow(start, end buffer.ByteOffset) (*buffer.Narrowing, error)
}

// ExecutionContext carries the state a handler needs for one action.
type ExecutionContext struct {
	// Engine is the text buffer under edit.
	Engine EngineInterface

	// Cursor tracks the selection within the engine.
	Cursor *cursor.Tracker

	// Language supplies the lexical rules of the buffer's content.
	Language *scan.Language

	// Policy is the placement policy in effect.
	Policy reflow.Policy

	// IndentUnit is one level of indentation for re-indenting split lines.
	IndentUnit string
}

// New creates an ExecutionContext with the given engine and cursor.
func New(engine EngineInterface, cur *cursor.Tracker) *ExecutionContext {
	return &ExecutionContext{
		Engine: engine,
		Cursor: cur,
		Policy: reflow.DefaultPolicy(),
	}
}

// Validate checks that the context can support an edit.
func (ctx *ExecutionContext) Validate() error {
	if ctx.Engine == nil {
		return ErrNoEngine
	}
	if ctx.Cursor == nil {
		return ErrNoCursor
	}
	return nil
}

// Lang returns the context's language, defaulting to plain text.
func (ctx *ExecutionContext) Lang() *scan.Language {
	if ctx.Language == nil {
		return scan.PlainLanguage()
	}
	return ctx.Language
}

// CursorOffset returns the current cursor position clamped to the buffer.
func (ctx *ExecutionContext) CursorOffset() buffer.ByteOffset {
	off := ctx.Cursor.Current().Cursor()
	if max := ctx.Engine.Len(); off > max {
		return max
	}
	if off < 0 {
		return 0
	}
	return off
}
