// Package registry provides the process-wide catalog of named module
// factories.
//
// Independently written packages register a factory under a unique string
// name, and unrelated call sites later look that name up and obtain a
// freshly constructed instance without knowing the concrete implementing
// type at compile time. The registry stores only factories and descriptive
// metadata; it never owns or caches the instances a factory produces.
//
// The store is guarded by a reader/writer lock. Lookups, listings, and
// discovery queries run concurrently; registrations are serialized. Create
// resolves the factory under the read lock and then invokes it with the
// lock released, so a slow factory (or one that calls back into the
// registry) can never deadlock other callers.
//
// Each failure is a distinct, matchable error type: NotFoundError,
// DuplicateError, FactoryError (wrapping the construction cause), and
// TypeMismatchError for a wrong-interface downcast.
package registry
