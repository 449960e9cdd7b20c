// Package buffer provides a thread-safe, line-indexed text buffer. It is the
// sole mutable resource the reflow engine operates on.
//
// The buffer package provides:
//
//   - Thread-safe read/write access via sync.RWMutex
//   - Coordinate conversion between byte offsets and line/column positions
//   - Atomic range replacement (an edit either fully applies or leaves the
//     buffer untouched)
//   - Narrowing: a releasable guard that restricts edits to a byte range
//   - Line ending normalization and revision tracking
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("foo(x, y, z)")
//	n, _ := buf.Narrow(4, 11)
//	defer n.Release()
//	buf.Replace(4, 11, "x,\n y,\n z")
//
// Position Types:
//
//   - ByteOffset: raw byte position in the buffer
//   - Point: line and column position (0-indexed, column in bytes)
package buffer
