// Package buffer provides the columnar byte buffer that backs every compact
// collection: a contiguous, append-only, element-sized-addressable region of
// bytes, parametric in a fixed per-record stride.
//
// Growth is geometric-then-linear: buffers under 128 records grow by 32
// records, small buffers double, larger ones grow by a fraction of current
// capacity, and very large ones grow in fixed-size chunks, so a
// multi-million-record buffer doesn't double its way into gigabytes of
// headroom. See growthStep for the table.
package buffer

import "fmt"

// Growth step thresholds, in records. See growthStep.
const (
	growthChunkThreshold  = 1 << 18 // 262144
	growthChunkStep       = 1 << 17 // 131072
	growthQuarterThresh   = 1 << 16 // 65536
	growthHalfThreshold   = 1 << 13 // 8192
	growthDoubleThreshold = 1 << 7  // 128
	growthMinStep         = 32
)

// Buffer is a contiguous, byte-addressable, append-only region of memory
// holding fixed-stride records. It is not safe for concurrent mutation; it
// may be read concurrently by multiple goroutines as long as none is
// appending.
type Buffer struct {
	stride int
	data   []byte // len(data) == length*stride; cap(data) == capacity*stride
}

// New creates an empty Buffer with the given per-record stride in bytes.
func New(stride int) *Buffer {
	if stride <= 0 {
		panic("buffer: stride must be positive")
	}

	return &Buffer{stride: stride}
}

// Stride returns the fixed number of bytes per record.
func (b *Buffer) Stride() int { return b.stride }

// Len returns the number of records currently stored.
func (b *Buffer) Len() int { return len(b.data) / b.stride }

// Cap returns the number of records the buffer can hold without reallocating.
func (b *Buffer) Cap() int { return cap(b.data) / b.stride }

// Record returns a stride-byte slice sharing memory with the buffer,
// covering record i. The caller must not retain it past the next mutating
// call, since a growth reallocation invalidates prior slices.
func (b *Buffer) Record(i int) []byte {
	if i < 0 || i >= b.Len() {
		panic(fmt.Sprintf("buffer: index %d out of range [0, %d)", i, b.Len()))
	}
	off := i * b.stride

	return b.data[off : off+b.stride]
}

// Push appends one record's raw bytes (exactly Stride() bytes long),
// growing the backing array if necessary.
func (b *Buffer) Push(record []byte) {
	if len(record) != b.stride {
		panic(fmt.Sprintf("buffer: record length %d != stride %d", len(record), b.stride))
	}
	b.reserve(1, 0)
	b.data = append(b.data, record...)
}

// PushRaw appends raw bytes whose length must be a whole multiple of the
// stride; used by the persister's bulk read path and by the sorting
// wrapper's fast bulk-append path.
func (b *Buffer) PushRaw(raw []byte) error {
	if len(raw)%b.stride != 0 {
		return fmt.Errorf("buffer: raw byte length %d is not a multiple of stride %d", len(raw), b.stride)
	}
	n := len(raw) / b.stride
	b.reserve(n, 0)
	b.data = append(b.data, raw...)

	return nil
}

// PushMany reserves capacity for n additional records, honoring hint as a
// minimum increment override (used when a caller knows it is about to push
// many records and wants to avoid repeated reallocation along the way).
func (b *Buffer) PushMany(n int, hint int) {
	b.reserve(n, hint)
}

// SetCapacity reallocates the backing array to hold exactly n records.
// Fails if n is less than the current length: capacity may never shrink
// below length.
func (b *Buffer) SetCapacity(n int) error {
	if n < b.Len() {
		return fmt.Errorf("buffer: cannot set capacity %d below length %d", n, b.Len())
	}
	newData := make([]byte, len(b.data), n*b.stride)
	copy(newData, b.data)
	b.data = newData

	return nil
}

// ExportBytes returns a zero-copy view of count records starting at start,
// for the persister's write path.
func (b *Buffer) ExportBytes(start, count int) ([]byte, error) {
	if start < 0 || count < 0 || start+count > b.Len() {
		return nil, fmt.Errorf("buffer: export range [%d, %d) out of bounds (len=%d)", start, start+count, b.Len())
	}
	lo := start * b.stride
	hi := (start + count) * b.stride

	return b.data[lo:hi], nil
}

// Truncate drops the buffer to n records, used by the sorting wrapper to
// roll back a rejected append. n must not exceed the current length.
func (b *Buffer) Truncate(n int) {
	if n < 0 || n > b.Len() {
		panic(fmt.Sprintf("buffer: truncate length %d out of range [0, %d]", n, b.Len()))
	}
	b.data = b.data[:n*b.stride]
}

// reserve ensures the buffer can hold n more records, applying the growth
// policy (or the caller's larger hint) when the backing array must grow.
func (b *Buffer) reserve(n int, hint int) {
	curLen := b.Len()
	curCap := b.Cap()
	need := curLen + n
	if need <= curCap {
		return
	}

	step := growthStep(curCap)
	if hint > step {
		step = hint
	}
	newCap := curCap + step
	for newCap < need {
		newCap += growthStep(newCap)
		if hint > 0 {
			newCap += hint
		}
	}

	newData := make([]byte, len(b.data), newCap*b.stride)
	copy(newData, b.data)
	b.data = newData
}

// growthStep returns the absolute growth step, in records, for a buffer
// currently at the given capacity.
func growthStep(curCap int) int {
	switch {
	case curCap >= growthChunkThreshold:
		return growthChunkStep
	case curCap >= growthQuarterThresh:
		return curCap / 4
	case curCap >= growthHalfThreshold:
		return curCap / 2
	case curCap >= growthDoubleThreshold:
		return curCap
	default:
		return growthMinStep
	}
}
