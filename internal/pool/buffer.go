// Package pool provides a sync.Pool-backed byte buffer used as the scratch
// buffer for chunked persister body reads without per-read allocation.
package pool

import "sync"

// DefaultChunkSize is the default capacity handed out by the chunk pool;
// roughly one persister body chunk (see persist.CompactPersister).
const DefaultChunkSize = 4 * 1024 * 1024

// maxRetainedSize is the largest buffer capacity the pool will keep around;
// larger buffers are discarded on Put to avoid memory bloat from one-off
// oversized writes.
const maxRetainedSize = 32 * 1024 * 1024

// Buffer is a reusable byte buffer with a reset-and-grow discipline.
type Buffer struct {
	B []byte
}

// Reset empties the buffer while retaining its backing array.
func (b *Buffer) Reset() {
	b.B = b.B[:0]
}

// Grow ensures the buffer can hold n more bytes without reallocating.
func (b *Buffer) Grow(n int) {
	if cap(b.B)-len(b.B) >= n {
		return
	}
	newBuf := make([]byte, len(b.B), len(b.B)+n)
	copy(newBuf, b.B)
	b.B = newBuf
}

var chunkPool = sync.Pool{
	New: func() any {
		return &Buffer{B: make([]byte, 0, DefaultChunkSize)}
	},
}

// Get retrieves a pooled chunk buffer, reset to zero length.
func Get() *Buffer {
	buf, _ := chunkPool.Get().(*Buffer)
	buf.Reset()

	return buf
}

// Put returns a chunk buffer to the pool, discarding it if it grew too large.
func Put(buf *Buffer) {
	if buf == nil {
		return
	}
	if cap(buf.B) > maxRetainedSize {
		return
	}
	chunkPool.Put(buf)
}
