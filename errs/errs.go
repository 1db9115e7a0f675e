// Package errs defines the sentinel error values returned across the gpshistory
// core. Callers should match on these with errors.Is; wrapped errors attach the
// offending field, index, or value via fmt.Errorf("%w: ...", errs.ErrX, ...).
package errs

import "errors"

var (
	// ErrSortingViolation is returned when an append would break the
	// monotonic-time invariant under ThrowIfWrong enforcement.
	ErrSortingViolation = errors.New("sorting violation")

	// ErrInvalidSignature is returned when a container or persister signature
	// is the wrong length, contains non-ASCII bytes, or mismatches at read time.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrNewerVersion is returned when a stream's container or persister
	// version exceeds the reader's compile-time maximum.
	ErrNewerVersion = errors.New("stream version newer than supported")

	// ErrNoPersister is returned when no persister is registered for the
	// target collection's concrete type.
	ErrNoPersister = errors.New("no persister registered for type")

	// ErrConflictingPersister is returned when registering a persister whose
	// signature case-insensitively collides with an already-registered one.
	ErrConflictingPersister = errors.New("conflicting persister signature")

	// ErrReadonlyContainer is returned when reading into a read-only target.
	ErrReadonlyContainer = errors.New("read target is read-only")

	// ErrNotEmptyContainer is returned when reading into a non-empty target.
	ErrNotEmptyContainer = errors.New("read target is not empty")

	// ErrInvalidMetadata is returned when the declared metadata length is out
	// of [0, 55] or the stream is too short to contain it.
	ErrInvalidMetadata = errors.New("invalid metadata")

	// ErrOutOfRange is returned for invalid arguments to indexed operations.
	ErrOutOfRange = errors.New("index out of range")

	// ErrInvalidValue is returned for invalid constructed values, e.g. a Stay
	// with endTime before time.
	ErrInvalidValue = errors.New("invalid value")

	// ErrUnexpectedType is returned when a stream transducer receives a
	// record variant it does not know how to handle.
	ErrUnexpectedType = errors.New("unexpected record type")
)
