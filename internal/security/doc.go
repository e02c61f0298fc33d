// Package security defines the advisory security profile attached to every
// registered module and the validator that evaluates it.
//
// A profile carries a cryptographic signature, a permission grant set, a code
// review status, supply chain provenance, and a sandbox configuration. None
// of it affects plain instantiation through the registry; it is consulted
// only by the secure creation path and by audit reporting, so a registry
// without any profiles behaves exactly like one that never imported this
// package.
package security
