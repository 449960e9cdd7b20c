package buffer

// Narrowing restricts buffer edits to a byte range until released. It is the
// guard around the active region during a reflow: edits that touch text
// outside the narrowed range fail with ErrOutsideNarrowing, and Release
// restores full-buffer editing on every exit path when deferred.
//
// Edits inside the narrowed range grow or shrink it by their delta, so the
// range keeps tracking the same region as the text changes.
type Narrowing struct {
	buf      *Buffer
	start    ByteOffset
	end      ByteOffset
	released bool
}

// Narrow restricts edits to [start, end). Only one narrowing may be active
// at a time; narrowing an already-narrowed buffer fails unless the new range
// lies within the active one.
func (b *Buffer) Narrow(start, end ByteOffset) (*Narrowing, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if start < 0 || start > end || end > ByteOffset(len(b.text)) {
		return nil, ErrRangeInvalid
	}
	if b.narrowed != nil && !b.narrowed.allows(start, end) {
		return nil, ErrOutsideNarrowing
	}

	n := &Narrowing{buf: b, start: start, end: end}
	b.narrowed = n
	return n, nil
}

// Release removes the edit restriction. Safe to call more than once.
func (n *Narrowing) Release() {
	if n == nil || n.released {
		return
	}
	n.buf.mu.Lock()
	defer n.buf.mu.Unlock()
	n.released = true
	if n.buf.narrowed == n {
		n.buf.narrowed = nil
	}
}

// Range returns the current narrowed range, adjusted for edits applied
// while the narrowing was active.
func (n *Narrowing) Range() Range {
	n.buf.mu.RLock()
	defer n.buf.mu.RUnlock()
	return Range{Start: n.start, End: n.end}
}

// Text returns the narrowed region's current content.
func (n *Narrowing) Text() string {
	return n.buf.TextRange(n.start, n.end)
}

// allows reports whether an edit of [start, end) stays inside the narrowing.
// Callers must hold the buffer lock.
func (n *Narrowing) allows(start, end ByteOffset) bool {
	return start >= n.start && end <= n.end
}

// extend adjusts the narrowed range after an in-range edit.
// Callers must hold the buffer lock.
func (n *Narrowing) extend(delta int64) {
	n.end += delta
	if n.end < n.start {
		n.end = n.start
	}
}
