package persist

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
)

// ChunkReader presents a linear byte interface over a pull-based byte
// source, caching nothing across calls beyond what io.Reader buffers for
// us. ctx is checked before every underlying read, giving the persister's
// ~4 MiB chunked body reads a cancellation point at each chunk boundary.
type ChunkReader struct {
	ctx       context.Context
	r         io.Reader
	read      int64
	hint      int64
	hintKnown bool
}

// NewChunkReader wraps r. If the remaining byte count is known (e.g. from a
// framing length prefix or a file size), pass it via hint/hintKnown so
// persisters can pre-reserve capacity.
func NewChunkReader(ctx context.Context, r io.Reader, hint int64, hintKnown bool) *ChunkReader {
	return &ChunkReader{ctx: ctx, r: r, hint: hint, hintKnown: hintKnown}
}

// BytesRead returns the total number of bytes consumed so far.
func (c *ChunkReader) BytesRead() int64 { return c.read }

// RemainingBytesHint returns the caller-supplied remaining-byte estimate, if
// known.
func (c *ChunkReader) RemainingBytesHint() (int64, bool) { return c.hint, c.hintKnown }

func (c *ChunkReader) checkCancel() error {
	if err := c.ctx.Err(); err != nil {
		return fmt.Errorf("chunk read canceled after %d bytes: %w", c.read, err)
	}

	return nil
}

// ReadBytes reads exactly n bytes, failing on short read.
func (c *ChunkReader) ReadBytes(n int) ([]byte, error) {
	if err := c.checkCancel(); err != nil {
		return nil, err
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(c.r, buf); err != nil {
		return nil, fmt.Errorf("read %d bytes at offset %d: %w", n, c.read, err)
	}
	c.read += int64(n)

	return buf, nil
}

// ReadU8 reads a single byte.
func (c *ChunkReader) ReadU8() (byte, error) {
	b, err := c.ReadBytes(1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

// ReadU16 reads a little-endian uint16.
func (c *ChunkReader) ReadU16() (uint16, error) {
	b, err := c.ReadBytes(2)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint16(b), nil
}

// ReadString reads n bytes and returns them as a string.
func (c *ChunkReader) ReadString(n int) (string, error) {
	b, err := c.ReadBytes(n)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// ReadByteData fills dst as far as possible, returning a short count at EOF
// rather than an error: this is the primitive the persister body loop uses
// to pull one ~4 MiB chunk at a time, into a caller-supplied (typically
// pooled) buffer, without knowing in advance how many chunks remain.
func (c *ChunkReader) ReadByteData(dst []byte) (int, error) {
	if err := c.checkCancel(); err != nil {
		return 0, err
	}

	n, err := io.ReadFull(c.r, dst)
	c.read += int64(n)

	switch {
	case err == nil:
		return n, nil
	case err == io.ErrUnexpectedEOF || err == io.EOF: //nolint:errorlint
		return n, nil
	default:
		return n, fmt.Errorf("read chunk at offset %d: %w", c.read, err)
	}
}

// ChunkWriter wraps a byte sink, providing little-endian fixed-width writes
// and a running byte count.
type ChunkWriter struct {
	ctx     context.Context
	w       io.Writer
	written int64
}

// NewChunkWriter wraps w.
func NewChunkWriter(ctx context.Context, w io.Writer) *ChunkWriter {
	return &ChunkWriter{ctx: ctx, w: w}
}

// BytesWritten returns the total number of bytes written so far.
func (c *ChunkWriter) BytesWritten() int64 { return c.written }

func (c *ChunkWriter) checkCancel() error {
	if err := c.ctx.Err(); err != nil {
		return fmt.Errorf("chunk write canceled after %d bytes: %w", c.written, err)
	}

	return nil
}

// WriteBytes writes b verbatim.
func (c *ChunkWriter) WriteBytes(b []byte) error {
	if err := c.checkCancel(); err != nil {
		return err
	}

	n, err := c.w.Write(b)
	c.written += int64(n)
	if err != nil {
		return fmt.Errorf("write %d bytes at offset %d: %w", len(b), c.written, err)
	}

	return nil
}

// WriteU8 writes a single byte.
func (c *ChunkWriter) WriteU8(b byte) error {
	return c.WriteBytes([]byte{b})
}

// WriteU16 writes v little-endian.
func (c *ChunkWriter) WriteU16(v uint16) error {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)

	return c.WriteBytes(b[:])
}

// WriteString writes s, replacing any byte outside printable ASCII
// (32..=126) with a space.
func (c *ChunkWriter) WriteString(s string) error {
	b := []byte(s)
	for i, ch := range b {
		if ch < 32 || ch > 126 {
			b[i] = ' '
		}
	}

	return c.WriteBytes(b)
}
