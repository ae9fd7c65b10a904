// Package middleware wraps a coverage store to add behavior around it.
package middleware

import "github.com/aretw0/tally/pkg/ports"

// Middleware allows wrapping a CoverageStore to add behavior.
type Middleware func(ports.CoverageStore) ports.CoverageStore

// Chain applies mws so that the first one is the outermost wrapper.
func Chain(store ports.CoverageStore, mws ...Middleware) ports.CoverageStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
