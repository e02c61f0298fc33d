package registry

import (
	"fmt"
	"reflect"
)

// NotFoundError reports that no record exists under the requested name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("module not found: %s", e.Name)
}

// DuplicateError reports a second registration under an already-taken name.
// The registry rejects duplicates; it never silently overwrites.
type DuplicateError struct {
	Name string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("module already registered: %s", e.Name)
}

// FactoryError reports that a factory ran and failed. The construction
// cause is available via errors.Unwrap.
type FactoryError struct {
	Name string
	Err  error
}

func (e *FactoryError) Error() string {
	return fmt.Sprintf("failed to instantiate module %s: %v", e.Name, e.Err)
}

func (e *FactoryError) Unwrap() error {
	return e.Err
}

// TypeMismatchError reports a downcast to an interface the stored factory
// does not produce. It is distinct from FactoryError because it indicates
// a caller/registrant contract violation, not a construction failure.
type TypeMismatchError struct {
	Name      string
	Requested reflect.Type
	Stored    reflect.Type
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("module type mismatch for %s: requested %v, stored %v",
		e.Name, e.Requested, e.Stored)
}

// SecurityError reports that the secure creation path refused to run the
// factory for the named module.
type SecurityError struct {
	Name   string
	Reason string
}

func (e *SecurityError) Error() string {
	return fmt.Sprintf("security check failed for module %s: %s", e.Name, e.Reason)
}
