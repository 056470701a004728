// Package middleware wraps a KVStore with value transformations applied on the way in
// and out: encryption at rest and masking of sensitive JSON fields.
package middleware

import "github.com/aretw0/agentcore/pkg/ports"

// Middleware allows wrapping a KVStore to add behavior.
type Middleware func(ports.KVStore) ports.KVStore

// Chain applies middlewares so that the first one listed sees values first on Set.
func Chain(store ports.KVStore, mws ...Middleware) ports.KVStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
