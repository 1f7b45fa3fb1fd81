package kiln

import (
	"io"
	"reflect"
	"sync"

	"github.com/xraph/go-utils/di"
)

// entry is one resolve-once slot. Its mutex serializes construction of a
// single service type within a single scope.
type entry struct {
	mu    sync.Mutex
	done  bool
	value any
}

// lifetimeStore caches instances for one scope and owns the instances that
// must be disposed with it. The root's store doubles as the singleton store.
type lifetimeStore struct {
	mu       sync.Mutex
	entries  map[string]*entry
	owned    []any // disposable instances, creation order
	disposed bool
}

func newLifetimeStore() *lifetimeStore {
	return &lifetimeStore{
		entries: make(map[string]*entry),
	}
}

// getOrCreate returns the cached instance for key, building it with create
// on first use. Concurrent callers for the same key wait for the first build;
// a failed build leaves the slot empty. own is false for instances the store
// caches but must never dispose.
func (s *lifetimeStore) getOrCreate(key string, own bool, create func() (any, error)) (any, error) {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()

		return nil, ErrScopeDisposed
	}

	e, ok := s.entries[key]
	if !ok {
		e = &entry{}
		s.entries[key] = e
	}
	s.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.done {
		return e.value, nil
	}

	instance, err := create()
	if err != nil {
		return nil, err
	}

	if err := s.track(instance, e, own); err != nil {
		return nil, err
	}

	return instance, nil
}

// track records a freshly built instance for disposal when own is set and,
// when e is not nil, publishes it into the slot. If the store was disposed
// while the instance was being built, an owned instance is released
// immediately and ErrScopeDisposed is returned.
func (s *lifetimeStore) track(instance any, e *entry, own bool) error {
	s.mu.Lock()

	if s.disposed {
		s.mu.Unlock()

		if own {
			_ = disposeInstance(instance)
		}

		return ErrScopeDisposed
	}

	if own && isDisposable(instance) {
		s.owned = append(s.owned, instance)
	}

	if e != nil {
		e.value = instance
		e.done = true
	}

	s.mu.Unlock()

	return nil
}

// close marks the store disposed and hands back the owned instances in
// reverse creation order. Only the first call returns true.
func (s *lifetimeStore) close() ([]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return nil, false
	}

	s.disposed = true

	owned := make([]any, 0, len(s.owned))
	seen := make(map[any]struct{}, len(s.owned))

	for i := len(s.owned) - 1; i >= 0; i-- {
		instance := s.owned[i]

		// A comparable static type can still hold an unhashable dynamic
		// value, such as a slice in an interface field.
		if reflect.ValueOf(instance).Comparable() {
			if _, dup := seen[instance]; dup {
				continue
			}

			seen[instance] = struct{}{}
		}

		owned = append(owned, instance)
	}

	s.owned = nil
	s.entries = nil

	return owned, true
}

// isClosed reports whether close has been called.
func (s *lifetimeStore) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.disposed
}

// size returns the number of populated slots.
func (s *lifetimeStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, e := range s.entries {
		if e.done {
			n++
		}
	}

	return n
}

// isDisposable reports whether instance exposes a disposal hook.
func isDisposable(instance any) bool {
	switch instance.(type) {
	case di.Disposable, io.Closer:
		return true
	default:
		return false
	}
}

// disposeInstance invokes the disposal hook of instance, preferring Dispose
// over Close when both exist.
func disposeInstance(instance any) error {
	switch v := instance.(type) {
	case di.Disposable:
		return v.Dispose()
	case io.Closer:
		return v.Close()
	default:
		return nil
	}
}
