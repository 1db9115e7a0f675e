package persist

import (
	"context"
	"fmt"

	"github.com/gpshistory/gpshistory/errs"
	"github.com/gpshistory/gpshistory/internal/pool"
)

// compactTarget is the subset of collection.Collection[R] CompactPersister
// needs. All three compact collections (PointCollection, MeasurementCollection,
// StayCollection) satisfy it without a type parameter, since body framing
// never decodes individual fields — it moves whole encoded records.
type compactTarget interface {
	Len() int
	Stride() int
	SetCapacity(n int) error
	PushRaw(data []byte) error
	ExportBytes(start, count int) ([]byte, error)
}

// CompactPersister reads and writes the uncompressed, element-aligned body
// format shared by every fixed-stride columnar collection: the
// body is exactly length*stride bytes, the concatenation of in-memory
// records, moved in ~4 MiB chunks: zero-copy slices of the columnar buffer
// on write, and the pooled chunk buffer as scratch space on read.
type CompactPersister struct {
	signature string
	version   uint16
}

// NewCompactPersister derives a signature from typeName, padded/truncated to
// 20 ASCII characters.
func NewCompactPersister(typeName string, version uint16) *CompactPersister {
	return &CompactPersister{signature: sanitizeSignature(typeName, signatureLen), version: version}
}

func (p *CompactPersister) Signature() string { return p.signature }
func (p *CompactPersister) Version() uint16   { return p.version }

// Metadata is currently unused for compact persisters.
func (p *CompactPersister) Metadata(_ any) []byte { return nil }

// WriteBody emits target's records as ~4 MiB chunks, each a zero-copy slice
// of the underlying columnar buffer.
func (p *CompactPersister) WriteBody(ctx context.Context, target any, w *ChunkWriter) error {
	t, ok := target.(compactTarget)
	if !ok {
		return fmt.Errorf("%w: %T is not a compact columnar collection", errs.ErrUnexpectedType, target)
	}

	stride := t.Stride()
	recordsPerChunk := pool.DefaultChunkSize / stride
	if recordsPerChunk < 1 {
		recordsPerChunk = 1
	}

	for start := 0; start < t.Len(); start += recordsPerChunk {
		count := recordsPerChunk
		if start+count > t.Len() {
			count = t.Len() - start
		}

		chunk, err := t.ExportBytes(start, count)
		if err != nil {
			return err
		}
		if err := w.WriteBytes(chunk); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("persist: write canceled after %d records: %w", start+count, err)
		}
	}

	return nil
}

// ReadBody pre-reserves capacity using the reader's remaining-bytes hint
// when known, then reads element-aligned chunks of ~4 MiB, appending raw
// bytes to target until the first short read. version and
// metadata are accepted for interface conformance; the compact format has
// had only one version and no metadata since inception.
func (p *CompactPersister) ReadBody(ctx context.Context, target any, r *ChunkReader, _ uint16, _ []byte) error {
	t, ok := target.(compactTarget)
	if !ok {
		return fmt.Errorf("%w: %T is not a compact columnar collection", errs.ErrUnexpectedType, target)
	}

	stride := t.Stride()

	if hint, known := r.RemainingBytesHint(); known && stride > 0 {
		if err := t.SetCapacity(int(hint) / stride); err != nil {
			return err
		}
	}

	chunkBytes := pool.DefaultChunkSize / stride * stride
	if chunkBytes < stride {
		chunkBytes = stride
	}

	buf := pool.Get()
	defer pool.Put(buf)
	buf.Grow(chunkBytes)
	scratch := buf.B[:chunkBytes]

	for {
		n, err := r.ReadByteData(scratch)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}

		aligned := n - n%stride
		if aligned > 0 {
			if err := t.PushRaw(scratch[:aligned]); err != nil {
				return err
			}
		}
		if n < chunkBytes {
			return nil // short read: end of body
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("persist: read canceled after %d bytes: %w", r.BytesRead(), err)
		}
	}
}
