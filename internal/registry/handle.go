package registry

import "reflect"

// Instance is the type-erased handle returned by Create. It owns the value
// the factory produced and has no back-reference to the registry; once
// downcast, the value is fully independent of the store it came from.
type Instance struct {
	name  string
	value any
}

// ModuleName returns the registry name the instance was created under.
func (i *Instance) ModuleName() string {
	return i.name
}

// Value returns the raw, untyped value. Most callers should use As instead.
func (i *Instance) Value() any {
	return i.value
}

// As narrows the handle to the requested interface or concrete type. A
// request the stored value does not satisfy returns *TypeMismatchError,
// never a wrong-typed value. This assertion is the registry's only runtime
// type-safety gate.
func As[T any](inst *Instance) (T, error) {
	v, ok := inst.value.(T)
	if !ok {
		var zero T
		return zero, &TypeMismatchError{
			Name:      inst.name,
			Requested: reflect.TypeOf((*T)(nil)).Elem(),
			Stored:    reflect.TypeOf(inst.value),
		}
	}
	return v, nil
}

// CreateAs creates an instance of the named module and narrows it to T in
// one step.
func CreateAs[T any](r *Registry, name string) (T, error) {
	inst, err := r.Create(name)
	if err != nil {
		var zero T
		return zero, err
	}
	return As[T](inst)
}
