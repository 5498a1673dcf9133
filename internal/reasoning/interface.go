// Package reasoning provides the client for the external reasoning service
// that produces prose for capability handlers.
package reasoning

import "context"

// Client defines the reasoning-service operations the gateway depends on.
type Client interface {
	// CreateChatCompletion sends a chat completion request.
	CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error)

	// Ping reports whether the reasoning service is reachable.
	Ping(ctx context.Context) error
}

// Ensure implementations satisfy the interface.
var (
	_ Client = (*HTTPClient)(nil)
	_ Client = (*MockClient)(nil)
)
