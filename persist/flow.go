package persist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gpshistory/gpshistory/errs"
)

// Sized is the capability a read target must expose so Read can refuse to
// overwrite a non-empty collection.
type Sized interface {
	Len() int
}

// readOnly is the optional capability a target may expose to mark itself
// immutable; Read rejects such targets before touching the stream. Index
// views report true.
type readOnly interface {
	ReadOnly() bool
}

// remaining is satisfied by bytes.Reader, bytes.Buffer, and strings.Reader;
// Read uses it to derive the persister's remaining-bytes hint so the body
// reader can pre-reserve capacity.
type remaining interface {
	Len() int
}

// Write serializes target's container header followed by its persister
// body to w, using the persister registered for target's concrete type.
// containerSignature selects the container signature to embed; an empty
// string uses DefaultContainerSignature.
func Write(ctx context.Context, w io.Writer, registry *Registry, target any, containerSignature string) error {
	persister, err := registry.Lookup(target)
	if err != nil {
		return err
	}

	header, err := NewHeader(containerSignature, persister.Signature(), persister.Version(), persister.Metadata(target))
	if err != nil {
		return err
	}

	if _, err := w.Write(header.Bytes()); err != nil {
		return fmt.Errorf("write container header: %w", err)
	}

	cw := NewChunkWriter(ctx, w)

	return persister.WriteBody(ctx, target, cw)
}

// Read deserializes a container from r into target, using the persister
// registered for target's concrete type. target must be empty and mutable:
// a target exposing ReadOnly() true is rejected before any bytes are
// consumed.
func Read(ctx context.Context, r io.Reader, registry *Registry, target Sized, containerSignature string) error {
	if ro, ok := target.(readOnly); ok && ro.ReadOnly() {
		return fmt.Errorf("%w: %T", errs.ErrReadonlyContainer, target)
	}
	if target.Len() != 0 {
		return fmt.Errorf("%w: target already has %d records", errs.ErrNotEmptyContainer, target.Len())
	}

	raw := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, raw); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: stream too short for container header: %w", errs.ErrInvalidMetadata, err)
		}

		return fmt.Errorf("read container header: %w", err)
	}

	header, err := ParseHeader(raw)
	if err != nil {
		return err
	}

	expected := containerSignature
	if expected == "" {
		expected = DefaultContainerSignature
	}
	if strings.TrimRight(header.ContainerSignature, " ") != strings.TrimRight(sanitizeSignature(expected, signatureLen), " ") {
		return fmt.Errorf("%w: container signature %q", errs.ErrInvalidSignature, header.ContainerSignature)
	}
	if header.ContainerVersion > ContainerVersion {
		return fmt.Errorf("%w: container version %d exceeds max %d", errs.ErrNewerVersion, header.ContainerVersion, ContainerVersion)
	}

	persister, err := registry.Lookup(target)
	if err != nil {
		return err
	}

	if strings.TrimRight(header.PersisterSignature, " ") != strings.TrimRight(persister.Signature(), " ") {
		return fmt.Errorf("%w: persister signature %q does not match registered %q", errs.ErrInvalidSignature, header.PersisterSignature, persister.Signature())
	}
	if header.PersisterVersion > persister.Version() {
		return fmt.Errorf("%w: persister version %d exceeds max %d", errs.ErrNewerVersion, header.PersisterVersion, persister.Version())
	}

	var cr *ChunkReader
	if rem, ok := r.(remaining); ok {
		cr = NewChunkReader(ctx, r, int64(rem.Len()), true)
	} else {
		cr = NewChunkReader(ctx, r, 0, false)
	}

	return persister.ReadBody(ctx, target, cr, header.PersisterVersion, header.Metadata)
}
