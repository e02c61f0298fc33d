// Package manifest loads declarative HCL policy files and applies them to a
// registry.
//
// A manifest does not register modules; the Go composition root does that.
// It amends the metadata of modules that are already registered: capability
// tags, permission grants, code review decisions, supply chain provenance,
// and sandbox settings. Referencing a module name that is not registered is
// an error, so manifests and compiled-in modules are kept in sync the same
// way the rest of the application validates config against code at startup.
package manifest
