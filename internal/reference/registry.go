// Package reference implements the process-wide identity registry
// from §4.B: a write-once, bidirectional table between caller-chosen
// string keys and host values, consulted by the parser so that
// pre-registered values (and only those) serialize as an opaque
// Reference node instead of being decomposed.
//
// The mutex-guarded map shape follows the concurrency-safe handles in
// davidkellis-able/interpreter10-go/pkg/runtime (ProcHandleValue
// guards its state with a sync.Mutex rather than relying on the
// caller to serialize access).
package reference

import (
	"fmt"
	"sync"

	"github.com/samualtnorman/seroval/internal/value"
)

// Registry is the bidirectional key<->value table. The zero value is
// usable; Global is the process-wide instance the public API and the
// emitted code's host lookup both consult.
type Registry struct {
	mu        sync.RWMutex
	byKey     map[string]value.Value
	keyForPtr map[value.Value]string
}

// Global is the process-wide registry referenced by §4.B and §6's
// "Global host contract." The emitted code's host-side lookup under
// the conventional name $seroval resolves against this instance.
var Global = New()

// New returns an empty registry. Most callers should use Global;
// New exists for tests that need isolation from other tests'
// registrations.
func New() *Registry {
	return &Registry{
		byKey:     make(map[string]value.Value),
		keyForPtr: make(map[value.Value]string),
	}
}

// ErrAlreadyRegistered is returned by Register when key is already bound.
type ErrAlreadyRegistered struct {
	Key string
}

func (e *ErrAlreadyRegistered) Error() string {
	return fmt.Sprintf("reference: key %q is already registered", e.Key)
}

// Register binds key to v. It fails if key is already bound, per
// §4.B's "fails if key already bound." Re-registering the same
// (key, value) pair under a different key is allowed — the key is
// the identity registry's namespace, not the value's.
func (r *Registry) Register(key string, v value.Value) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byKey[key]; exists {
		return &ErrAlreadyRegistered{Key: key}
	}
	if r.byKey == nil {
		r.byKey = make(map[string]value.Value)
		r.keyForPtr = make(map[value.Value]string)
	}
	r.byKey[key] = v
	// Only the first key registered for a given value is recorded as
	// its canonical lookup key; later aliases still resolve by key but
	// won't be discovered by LookupByValue.
	if _, exists := r.keyForPtr[v]; !exists {
		r.keyForPtr[v] = key
	}
	return nil
}

// LookupByValue returns the key a value was registered under, if any.
func (r *Registry) LookupByValue(v value.Value) (key string, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key, ok = r.keyForPtr[v]
	return key, ok
}

// LookupByKey returns the value bound to key, if any.
func (r *Registry) LookupByKey(key string) (v value.Value, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok = r.byKey[key]
	return v, ok
}
