package cursor

import "sync"

// Tracker holds the primary selection for a buffer and supports scoped
// save/restore around operations that move the cursor internally.
// All methods are thread-safe.
type Tracker struct {
	mu      sync.Mutex
	current Selection
}

// NewTracker creates a tracker with the cursor at the given offset.
func NewTracker(offset ByteOffset) *Tracker {
	return &Tracker{current: NewCursorSelection(offset)}
}

// Current returns the current selection.
func (t *Tracker) Current() Selection {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Set replaces the current selection.
func (t *Tracker) Set(sel Selection) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = sel
}

// MoveTo collapses the selection to a cursor at the given offset.
func (t *Tracker) MoveTo(offset ByteOffset) {
	t.Set(NewCursorSelection(offset))
}

// Clamp limits the selection to [0, maxOffset].
func (t *Tracker) Clamp(maxOffset ByteOffset) {
	t.mu.Lock()
	defer t.mu.Unlock()
	clamp := func(o ByteOffset) ByteOffset {
		if o < 0 {
			return 0
		}
		if o > maxOffset {
			return maxOffset
		}
		return o
	}
	t.current = Selection{
		Anchor: clamp(t.current.Anchor),
		Head:   clamp(t.current.Head),
	}
}

// Saved captures the selection at save time and restores it on Restore.
// Restore is safe to call more than once, so it can be deferred on every
// exit path of an operation that moves the cursor while working.
type Saved struct {
	tracker  *Tracker
	saved    Selection
	restored bool
}

// Save captures the current selection for later restoration.
func (t *Tracker) Save() *Saved {
	return &Saved{tracker: t, saved: t.Current()}
}

// Restore puts the selection back where it was at save time.
func (s *Saved) Restore() {
	if s == nil || s.restored {
		return
	}
	s.restored = true
	s.tracker.Set(s.saved)
}
