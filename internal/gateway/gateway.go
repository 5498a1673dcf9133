// Package gateway composes the session store, context synthesizer,
// router and artifact pipeline behind the public session API.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tripwise/gateway/internal/artifact"
	"github.com/tripwise/gateway/internal/config"
	"github.com/tripwise/gateway/internal/domain"
	"github.com/tripwise/gateway/internal/normalize"
	"github.com/tripwise/gateway/internal/reasoning"
	"github.com/tripwise/gateway/internal/router"
	"github.com/tripwise/gateway/internal/store"
	"github.com/tripwise/gateway/internal/synthesizer"
)

// Gateway is the session-scoped request gateway. Operations within one
// session are serialized; different sessions proceed concurrently.
type Gateway struct {
	store       store.Store
	synthesizer *synthesizer.Synthesizer
	router      *router.Router
	extractor   *artifact.Extractor
	reasoning   reasoning.Client
	config      *config.Config

	// sessionLocks serializes the append-dispatch-append critical
	// section per session id.
	sessionLocks sync.Map // map[string]*sync.Mutex
}

// New creates a gateway.
func New(db store.Store, synth *synthesizer.Synthesizer, rt *router.Router, ex *artifact.Extractor, rc reasoning.Client, cfg *config.Config) *Gateway {
	return &Gateway{
		store:       db,
		synthesizer: synth,
		router:      rt,
		extractor:   ex,
		reasoning:   rc,
		config:      cfg,
	}
}

// StartSession creates a fresh session for ownerID.
func (g *Gateway) StartSession(ctx context.Context, ownerID string) (*domain.Session, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner_id is required", domain.ErrInvalidInput)
	}

	session := &domain.Session{
		SessionID: "sess_" + uuid.New().String()[:8],
		OwnerID:   ownerID,
		CreatedAt: time.Now(),
	}
	if err := g.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	log.Printf("INFO: session created: %s for owner %s", session.SessionID, ownerID)
	return session, nil
}

// SendMessage runs one conversational turn: append the user turn,
// dispatch the synthesized request, normalize and extract artifacts,
// append the assistant turn, return the envelope. Exactly one
// (user, assistant) turn pair is recorded per call, even when the
// dispatch path fails.
func (g *Gateway) SendMessage(ctx context.Context, sessionID, ownerID, message string, image []byte) (*domain.ResponseEnvelope, error) {
	if message == "" {
		return nil, fmt.Errorf("%w: message is required", domain.ErrInvalidInput)
	}

	session, err := g.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, domain.ErrSessionNotFound
	}
	if ownerID != session.OwnerID {
		return nil, fmt.Errorf("%w: owner_id does not match session owner", domain.ErrInvalidInput)
	}

	lock := g.lockFor(sessionID)
	lock.Lock()
	defer lock.Unlock()

	history, err := g.store.Turns(ctx, sessionID, g.config.HistoryWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	userTurn := &domain.Turn{
		TurnID:    "turn_" + uuid.New().String()[:8],
		SessionID: sessionID,
		Role:      domain.RoleUser,
		Content:   message,
		HasImage:  len(image) > 0,
		CreatedAt: time.Now(),
	}
	if err := g.store.AppendTurn(ctx, userTurn); err != nil {
		return nil, fmt.Errorf("failed to append user turn: %w", err)
	}

	prompt := g.synthesizer.Synthesize(message, history)
	result := g.router.Dispatch(ctx, domain.CapabilityRequest{
		Prompt:    prompt,
		ImageData: image,
	})

	text := normalize.Normalize(result)
	cleaned, artifacts := g.extractor.Extract(text)

	assistantTurn := &domain.Turn{
		TurnID:    "turn_" + uuid.New().String()[:8],
		SessionID: sessionID,
		Role:      domain.RoleAssistant,
		Content:   cleaned,
		Artifacts: artifacts,
		CreatedAt: time.Now(),
	}
	if err := g.store.AppendTurn(ctx, assistantTurn); err != nil {
		// The user turn is already recorded; surface the store failure
		// but do not lose the envelope.
		log.Printf("ERROR: failed to append assistant turn: %v", err)
	}

	return &domain.ResponseEnvelope{
		Success:   result.Status == domain.ResultSuccess,
		Text:      cleaned,
		Artifacts: artifacts,
		SessionID: sessionID,
		Intent:    result.Intent,
	}, nil
}

// Turns returns the session's turn history.
func (g *Gateway) Turns(ctx context.Context, sessionID string) ([]domain.Turn, error) {
	turns, err := g.store.Turns(ctx, sessionID, 0)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read turns: %w", err)
	}
	return turns, nil
}

// Health reports reachability of the reasoning engine.
func (g *Gateway) Health(ctx context.Context) (string, string) {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := g.reasoning.Ping(pingCtx); err != nil {
		log.Printf("WARN: reasoning engine unreachable: %v", err)
		return "degraded", "unreachable"
	}
	return "healthy", "online"
}

func (g *Gateway) lockFor(sessionID string) *sync.Mutex {
	lock, _ := g.sessionLocks.LoadOrStore(sessionID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}
