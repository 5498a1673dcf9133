package capability

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tripwise/gateway/internal/domain"
	"github.com/tripwise/gateway/internal/reasoning"
)

// failingClient simulates an unreachable reasoning service.
type failingClient struct{}

func (f *failingClient) CreateChatCompletion(ctx context.Context, req *reasoning.ChatCompletionRequest) (*reasoning.ChatCompletionResponse, error) {
	return nil, errors.New("connection refused")
}

func (f *failingClient) Ping(ctx context.Context) error {
	return errors.New("connection refused")
}

func TestReasoningHandlerWeather(t *testing.T) {
	h := NewReasoningHandler(domain.IntentWeather, reasoning.NewMockClient(), "test-model")

	result, err := h.Handle(context.Background(), domain.CapabilityRequest{Prompt: "What's the weather in Paris?"})
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if result.Status != domain.ResultSuccess {
		t.Fatalf("expected success, got %s", result.Status)
	}
	if len(result.Records) == 0 {
		t.Fatalf("expected output records")
	}
	if !strings.Contains(result.Records[0].Text, "°C") {
		t.Fatalf("weather persona not applied: %q", result.Records[0].Text)
	}
}

func TestReasoningHandlerTouristMarkers(t *testing.T) {
	h := NewReasoningHandler(domain.IntentTouristSpots, reasoning.NewMockClient(), "test-model")

	result, err := h.Handle(context.Background(), domain.CapabilityRequest{Prompt: "Top attractions in Rome"})
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !strings.Contains(result.Records[0].Text, "[IMAGE:") {
		t.Fatalf("tourist persona produced no image markers: %q", result.Records[0].Text)
	}
}

func TestReasoningHandlerProviderFailure(t *testing.T) {
	h := NewReasoningHandler(domain.IntentGeneral, &failingClient{}, "test-model")

	_, err := h.Handle(context.Background(), domain.CapabilityRequest{Prompt: "hello"})
	if err == nil {
		t.Fatalf("expected a provider error")
	}
	if !strings.Contains(err.Error(), "reasoning call failed") {
		t.Fatalf("unexpected error: %v", err)
	}
}
