// Package driven defines the interfaces the core depends on (driven ports).
//
// Driven ports are implemented by adapters on the outside of the hexagon:
// destination API clients, credential stores, token caches, the audit
// logger. The core services call these interfaces and never a concrete
// implementation.
package driven
