// Package domain defines the core domain models for the travel gateway.
package domain

import "time"

// Role identifies the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Intent is the routing category assigned to an inbound message.
// Classification is total: every message maps to exactly one intent,
// with IntentGeneral as the fallback.
type Intent string

const (
	IntentWeather      Intent = "weather"
	IntentTime         Intent = "time"
	IntentTouristSpots Intent = "tourist_spots"
	IntentWalkingRoute Intent = "walking_route"
	IntentRestaurant   Intent = "restaurant"
	IntentBlog         Intent = "blog"
	IntentPhotoStory   Intent = "photo_story"
	IntentImageSearch  Intent = "image_search"
	IntentGeneral      Intent = "general"
)

// ResultStatus is the outcome variant of a capability invocation.
type ResultStatus string

const (
	ResultSuccess            ResultStatus = "success"
	ResultProviderError      ResultStatus = "provider_error"
	ResultHandlerUnavailable ResultStatus = "handler_unavailable"
)

// Session is a conversation scoped to one owner, holding ordered turn history.
// Sessions are append-only: turns are never edited or removed.
type Session struct {
	SessionID string    `json:"session_id"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Turn is one message (user or assistant) within a session.
type Turn struct {
	TurnID    string     `json:"turn_id"`
	SessionID string     `json:"session_id"`
	Role      Role       `json:"role"`
	Content   string     `json:"content"`
	Artifacts []Artifact `json:"artifacts,omitempty"`
	HasImage  bool       `json:"has_image,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Artifact is a structured link/thumbnail record extracted from
// marker-annotated handler output.
type Artifact struct {
	Label        string `json:"label"`
	LocationHint string `json:"location_hint"`
	PrimaryURL   string `json:"primary_url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// CapabilityRequest is the self-contained input handed to a capability
// handler. The prompt must not require the handler to consult history;
// the image is carried only when classified as relevant.
type CapabilityRequest struct {
	Prompt    string `json:"prompt"`
	ImageData []byte `json:"-"`
}

// OutputRecord is one event-like record from a reasoning-engine stream.
// Handlers that proxy the engine may return several of these instead of
// a single text blob.
type OutputRecord struct {
	Role     string `json:"role"`
	Text     string `json:"text,omitempty"`
	ToolCall bool   `json:"tool_call,omitempty"`
}

// CapabilityResult is the single outcome produced per inbound message.
type CapabilityResult struct {
	Status  ResultStatus   `json:"status"`
	Text    string         `json:"text,omitempty"`
	Records []OutputRecord `json:"records,omitempty"`
	Reason  string         `json:"reason,omitempty"`
	Intent  Intent         `json:"intent"`
}

// ResponseEnvelope is the canonical reply returned to the client.
type ResponseEnvelope struct {
	Success   bool       `json:"success"`
	Text      string     `json:"response"`
	Artifacts []Artifact `json:"image_links,omitempty"`
	SessionID string     `json:"session_id,omitempty"`
	Intent    Intent     `json:"intent,omitempty"`
}
