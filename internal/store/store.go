// Package store provides session persistence for the travel gateway.
package store

import (
	"context"

	"github.com/tripwise/gateway/internal/domain"
)

// Store is the session store interface. Sessions are append-only: turns
// are recorded atomically and never edited or removed. GetSession returns
// (nil, nil) when the session id is unknown.
type Store interface {
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)

	// AppendTurn records a turn. Returns domain.ErrSessionNotFound if the
	// session id is unknown.
	AppendTurn(ctx context.Context, turn *domain.Turn) error

	// Turns returns the session's turns in insertion order. A limit > 0
	// returns only the most recent turns; the read never mutates state.
	Turns(ctx context.Context, sessionID string, limit int) ([]domain.Turn, error)

	Close() error
}
