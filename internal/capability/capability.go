// Package capability defines the stateless capability handlers the
// router dispatches to, one per intent category.
package capability

import (
	"context"

	"github.com/tripwise/gateway/internal/domain"
)

// Handler serves one intent category. Handle receives a self-contained
// request and returns the handler's raw output; an error is a provider
// failure, which the router converts into a degraded result.
type Handler interface {
	Intent() domain.Intent
	Handle(ctx context.Context, req domain.CapabilityRequest) (*domain.CapabilityResult, error)
}

// Registry is the fixed set of named handlers.
type Registry struct {
	handlers map[domain.Intent]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[domain.Intent]Handler)}
}

// Register installs a handler for its intent.
func (r *Registry) Register(h Handler) {
	r.handlers[h.Intent()] = h
}

// Get returns the handler for intent, or nil if none is registered.
func (r *Registry) Get(intent domain.Intent) Handler {
	return r.handlers[intent]
}
