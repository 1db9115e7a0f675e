package persist

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gpshistory/gpshistory/errs"
)

// Persister is the per-collection-type strategy a Registry dispatches to.
// A Persister is stateless: ReadBody/WriteBody take the target collection
// as an argument rather than owning a reference to it, so one registered
// Persister serves every instance of its collection type.
type Persister interface {
	// Signature is this persister's 20-byte (or shorter) ASCII identifier.
	Signature() string
	// Version is this persister's current on-disk format version.
	Version() uint16
	// Metadata returns the bytes to embed in the header's metadata field
	// for target. Compact persisters currently return none, but the header
	// must still round-trip whatever is returned here.
	Metadata(target any) []byte
	// ReadBody reads a collection body written at the given version into
	// target, using metadata recovered from the header.
	ReadBody(ctx context.Context, target any, r *ChunkReader, version uint16, metadata []byte) error
	// WriteBody writes target's body.
	WriteBody(ctx context.Context, target any, w *ChunkWriter) error
}

// Registry is a process-wide mapping from a collection's concrete type to
// the Persister that reads and writes it, keyed by reflect.Type. A
// signature collision between distinct types is rejected rather than
// silently overwritten.
type Registry struct {
	mu         sync.RWMutex
	byType     map[reflect.Type]Persister
	signatures map[string]reflect.Type
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		byType:     make(map[reflect.Type]Persister),
		signatures: make(map[string]reflect.Type),
	}
}

// Register installs p as the persister for the concrete type of sample.
// Re-registering the same type replaces the prior strategy. Registering a
// different type whose signature case-insensitively collides with an
// already-registered persister fails with ErrConflictingPersister.
func (r *Registry) Register(sample any, p Persister) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := reflect.TypeOf(sample)
	key := strings.ToLower(strings.TrimRight(p.Signature(), " "))

	if existingType, ok := r.signatures[key]; ok && existingType != t {
		return fmt.Errorf("%w: signature %q already registered for %s", errs.ErrConflictingPersister, p.Signature(), existingType)
	}

	if oldPersister, ok := r.byType[t]; ok {
		delete(r.signatures, strings.ToLower(strings.TrimRight(oldPersister.Signature(), " ")))
	}

	r.byType[t] = p
	r.signatures[key] = t

	return nil
}

// Lookup returns the persister registered for the concrete type of sample.
func (r *Registry) Lookup(sample any) (Persister, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t := reflect.TypeOf(sample)
	p, ok := r.byType[t]
	if !ok {
		return nil, fmt.Errorf("%w: no persister registered for %s", errs.ErrNoPersister, t)
	}

	return p, nil
}

// defaultRegistry is the process-wide registry used by the package-level
// Read/Write convenience functions.
var defaultRegistry = NewRegistry() //nolint:gochecknoglobals

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry { return defaultRegistry }
