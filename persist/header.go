// Package persist implements the binary container format that wraps any
// registered collection type: a fixed-size header pair (container and
// persister), a case-insensitive-signature registry of persister
// strategies, and chunked reader/writer abstractions the persisters use to
// stream their body in ~4 MiB slices.
package persist

import (
	"fmt"

	"github.com/gpshistory/gpshistory/errs"
)

// HeaderSize is the fixed on-disk size of the combined header.
const HeaderSize = 100

// DefaultContainerSignature is the container signature used when none is
// supplied.
const DefaultContainerSignature = "AnqsGpsHistoryFile--"

// ContainerVersion is this package's current container-format version.
const ContainerVersion uint16 = 1

const (
	signatureLen       = 20
	metadataCapacity   = 55
	maxMetadataLen     = metadataCapacity
	containerSigOffset = 0
	containerVerOffset = 20
	persisterSigOffset = 22
	persisterVerOffset = 42
	metaLenOffset      = 44
	metaBytesOffset    = 45
)

// Header is the 100-byte wire header: a container
// signature/version pair, a persister signature/version pair, and a short
// inline metadata blob.
type Header struct {
	ContainerSignature string
	ContainerVersion   uint16
	PersisterSignature string
	PersisterVersion   uint16
	Metadata           []byte
}

// sanitizeSignature pads/truncates s to exactly n bytes, replacing any byte
// outside the printable ASCII range 32..=126 with a space.
func sanitizeSignature(s string, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	for i := 0; i < len(s) && i < n; i++ {
		c := s[i]
		if c < 32 || c > 126 {
			c = ' '
		}
		b[i] = c
	}

	return string(b)
}

// NewHeader builds a Header, rejecting a persister signature longer than 20
// bytes and metadata longer than 55 bytes.
func NewHeader(containerSig, persisterSig string, persisterVersion uint16, metadata []byte) (Header, error) {
	if len(persisterSig) > signatureLen {
		return Header{}, fmt.Errorf("%w: persister signature %q exceeds %d bytes", errs.ErrInvalidSignature, persisterSig, signatureLen)
	}
	if len(metadata) > maxMetadataLen {
		return Header{}, fmt.Errorf("%w: metadata length %d exceeds %d", errs.ErrInvalidMetadata, len(metadata), maxMetadataLen)
	}
	if containerSig == "" {
		containerSig = DefaultContainerSignature
	}
	if len(containerSig) > signatureLen {
		return Header{}, fmt.Errorf("%w: container signature %q exceeds %d bytes", errs.ErrInvalidSignature, containerSig, signatureLen)
	}

	return Header{
		ContainerSignature: sanitizeSignature(containerSig, signatureLen),
		ContainerVersion:   ContainerVersion,
		PersisterSignature: sanitizeSignature(persisterSig, signatureLen),
		PersisterVersion:   persisterVersion,
		Metadata:           metadata,
	}, nil
}

// Bytes serializes the header into a 100-byte little-endian slice,
// zero-padding metadata past its declared length.
func (h Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	copy(b[containerSigOffset:containerSigOffset+signatureLen], sanitizeSignature(h.ContainerSignature, signatureLen))
	putU16(b[containerVerOffset:], h.ContainerVersion)
	copy(b[persisterSigOffset:persisterSigOffset+signatureLen], sanitizeSignature(h.PersisterSignature, signatureLen))
	putU16(b[persisterVerOffset:], h.PersisterVersion)

	m := len(h.Metadata)
	if m > maxMetadataLen {
		m = maxMetadataLen
	}
	b[metaLenOffset] = byte(m)
	copy(b[metaBytesOffset:metaBytesOffset+m], h.Metadata[:m])

	return b
}

// ParseHeader parses a 100-byte slice into a Header. It does not validate
// signatures or versions against a registry; callers do that as part of the
// read flow.
func ParseHeader(data []byte) (Header, error) {
	if len(data) != HeaderSize {
		return Header{}, fmt.Errorf("%w: header must be %d bytes, got %d", errs.ErrInvalidValue, HeaderSize, len(data))
	}

	m := int(data[metaLenOffset])
	if m > maxMetadataLen {
		return Header{}, fmt.Errorf("%w: declared metadata length %d exceeds %d", errs.ErrInvalidMetadata, m, maxMetadataLen)
	}
	metadata := make([]byte, m)
	copy(metadata, data[metaBytesOffset:metaBytesOffset+m])

	return Header{
		ContainerSignature: string(data[containerSigOffset : containerSigOffset+signatureLen]),
		ContainerVersion:   u16(data[containerVerOffset:]),
		PersisterSignature: string(data[persisterSigOffset : persisterSigOffset+signatureLen]),
		PersisterVersion:   u16(data[persisterVerOffset:]),
		Metadata:           metadata,
	}, nil
}

func putU16(dst []byte, v uint16) {
	dst[0] = byte(v)
	dst[1] = byte(v >> 8)
}

func u16(src []byte) uint16 {
	return uint16(src[0]) | uint16(src[1])<<8
}
