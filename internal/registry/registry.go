package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Registry is a concurrent map from module name to registration record.
// Reads proceed in parallel under the shared side of the lock; writes are
// serialized. Registration is expected once at startup and rarely after,
// so the structure is tuned purely for concurrent-reader throughput.
type Registry struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		records: make(map[string]*Record),
	}
}

// Register inserts a record under the given name with default metadata.
// A second registration for the same name returns *DuplicateError; the
// old record is never silently replaced.
func (r *Registry) Register(name, moduleType string, factory Factory) error {
	return r.RegisterWithMetadata(name, moduleType, factory,
		NewMetadata(name, moduleType, "factory", "", ""))
}

// RegisterWithMetadata inserts a record with caller-supplied metadata.
func (r *Registry) RegisterWithMetadata(name, moduleType string, factory Factory, meta Metadata) error {
	if err := validateRecord(name, moduleType, factory, meta); err != nil {
		return err
	}
	meta.Name = name
	meta.ModuleType = moduleType

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[name]; exists {
		return &DuplicateError{Name: name}
	}

	r.records[name] = &Record{
		Name:       name,
		ModuleType: moduleType,
		Factory:    factory,
		Metadata:   meta.clone(),
	}
	slog.Debug("Registered module.", "name", name, "type", moduleType)
	return nil
}

// MustRegister is Register for composition-root use, where a duplicate or
// invalid registration is a programmer error.
func (r *Registry) MustRegister(name, moduleType string, factory Factory) {
	if err := r.Register(name, moduleType, factory); err != nil {
		panic(fmt.Sprintf("registry: %v", err))
	}
}

// Unregister removes the record under name, reporting whether one existed.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[name]; !exists {
		return false
	}
	delete(r.records, name)
	slog.Debug("Unregistered module.", "name", name)
	return true
}

// Lookup returns a copy of the metadata stored under name.
func (r *Registry) Lookup(name string) (Metadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[name]
	if !ok {
		return Metadata{}, false
	}
	return rec.Metadata.clone(), true
}

// Has reports whether a record exists under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.records[name]
	return ok
}

// List returns all registered names, sorted lexically so output is
// reproducible for a given store.
func (r *Registry) List() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.records))
	for name := range r.records {
		names = append(names, name)
	}
	r.mu.RUnlock()

	sort.Strings(names)
	return names
}

// Count returns the number of registered modules.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// Clear removes every record. Intended for test isolation, not production.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = make(map[string]*Record)
}

// Create looks up the record under name and invokes its factory, returning
// the type-erased instance. The factory runs with no registry lock held:
// it may be arbitrarily slow or recursively create other modules without
// risking deadlock. Each call constructs a fresh instance; the registry
// never caches what a factory produces.
func (r *Registry) Create(name string) (*Instance, error) {
	r.mu.RLock()
	rec, ok := r.records[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &NotFoundError{Name: name}
	}

	slog.Debug("Creating module instance.", "name", name)
	value, err := rec.Factory()
	if err != nil {
		return nil, &FactoryError{Name: name, Err: err}
	}
	return &Instance{name: name, value: value}, nil
}

// UpdateMetadata replaces the metadata stored under name with the result of
// applying update to a copy of the current metadata. The record's name,
// type, and factory are not updatable; a registration is otherwise
// immutable.
func (r *Registry) UpdateMetadata(name string, update func(*Metadata)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[name]
	if !ok {
		return &NotFoundError{Name: name}
	}

	meta := rec.Metadata.clone()
	update(&meta)
	meta.Name = rec.Name
	meta.ModuleType = rec.ModuleType

	r.records[name] = &Record{
		Name:       rec.Name,
		ModuleType: rec.ModuleType,
		Factory:    rec.Factory,
		Metadata:   meta,
	}
	return nil
}
