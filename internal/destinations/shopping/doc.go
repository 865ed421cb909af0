// Package shopping implements the search-shopping catalog destination.
// The provider exposes a true synchronous batch endpoint: one
// products/batch call returns a per-entry result array, so per-item
// failures map back precisely.
package shopping
