package reasoning

import (
	"log"
	"os"
	"time"
)

const (
	// EnvGatewayMode is the environment variable name for mode selection.
	EnvGatewayMode = "GATEWAY_MODE"
	// ModeMock indicates mock mode should be used.
	ModeMock = "MOCK"
)

// NewClient creates a reasoning client based on the GATEWAY_MODE
// environment variable. If GATEWAY_MODE=MOCK, returns a MockClient;
// otherwise returns a real HTTPClient.
func NewClient(baseURL, apiKey string, timeout time.Duration) Client {
	mode := os.Getenv(EnvGatewayMode)

	if mode == ModeMock {
		log.Println("GATEWAY_MODE=MOCK detected, using mock reasoning client")
		return NewMockClient()
	}

	return NewHTTPClient(baseURL, apiKey, timeout)
}
