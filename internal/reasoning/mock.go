package reasoning

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"
)

// MockClient is a canned implementation of Client for tests and offline
// runs. Responses are shaped by the capability persona in the system
// message so downstream stages see realistic output.
type MockClient struct{}

// NewMockClient creates a new mock reasoning client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// CreateChatCompletion returns a canned response.
func (m *MockClient) CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error) {
	content := m.generateResponse(req)

	return &ChatCompletionResponse{
		ID:      fmt.Sprintf("mock-chatcmpl-%d", time.Now().UnixNano()),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   req.Model,
		Choices: []Choice{
			{
				Index: 0,
				Message: &ChatMessage{
					Role:    "assistant",
					Content: content,
				},
				FinishReason: "stop",
			},
		},
		Usage: &Usage{
			PromptTokens:     estimateTokens(req),
			CompletionTokens: len(content) / 4,
			TotalTokens:      estimateTokens(req) + len(content)/4,
		},
	}, nil
}

// Ping always succeeds for the mock.
func (m *MockClient) Ping(ctx context.Context) error {
	return nil
}

func (m *MockClient) generateResponse(req *ChatCompletionRequest) string {
	var system, user string
	for _, msg := range req.Messages {
		switch msg.Role {
		case "system":
			system = msg.Content
		case "user":
			user = msg.Content
		}
	}

	place := lastProperNoun(user)
	if place == "" {
		place = "Paris"
	}

	lower := strings.ToLower(system)
	switch {
	case strings.Contains(lower, "weather"):
		return fmt.Sprintf("Current weather in %s: 18.0°C (64.4°F), partly cloudy, humidity 62%%, wind 3.4 m/s.", place)
	case strings.Contains(lower, "tourist"):
		return fmt.Sprintf(
			"Top sights in %s:\n\n**Grand Museum** [IMAGE: Grand Museum, %s]\nHome to world-famous collections.\n\n"+
				"**Old Town Square** [IMAGE: Old Town Square, %s]\nThe historic heart of the city.",
			place, place, place)
	case strings.Contains(lower, "restaurant") || strings.Contains(lower, "dining"):
		return fmt.Sprintf("For dining in %s, try the market halls for local specialties and book bistros ahead for dinner.", place)
	case strings.Contains(lower, "blog"):
		return fmt.Sprintf("# A Journey Through %s\n\nFrom the first morning coffee to the last evening stroll, %s rewards the curious traveler.", place, place)
	case strings.Contains(lower, "storyteller") || strings.Contains(lower, "photo"):
		return "This photo shows a historic landmark. Built centuries ago, it remains one of the most recognizable sights in the region."
	}

	if user == "" {
		return "[MOCK] This is a mock response from the reasoning client."
	}
	return fmt.Sprintf("[MOCK] Received your message: %q. This is a mock response.", truncate(user, 100))
}

// lastProperNoun returns the last capitalized word of s, stripped of
// punctuation. Good enough for shaping canned responses.
func lastProperNoun(s string) string {
	fields := strings.Fields(s)
	for i := len(fields) - 1; i >= 0; i-- {
		word := strings.TrimFunc(fields[i], func(r rune) bool {
			return !unicode.IsLetter(r)
		})
		if word == "" {
			continue
		}
		if unicode.IsUpper([]rune(word)[0]) && i > 0 {
			return word
		}
	}
	return ""
}

func estimateTokens(req *ChatCompletionRequest) int {
	total := 0
	for _, msg := range req.Messages {
		total += len(msg.Content) / 4
	}
	return total
}

// truncate truncates a string to the given length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
