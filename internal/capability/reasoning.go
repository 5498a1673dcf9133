package capability

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/tripwise/gateway/internal/domain"
	"github.com/tripwise/gateway/internal/reasoning"
)

// personas are the capability instructions sent as the system message.
// They mirror the sub-agent briefs of the assistant this gateway fronts.
var personas = map[domain.Intent]string{
	domain.IntentWeather: "You are a weather expert for travelers. Answer with current conditions for the " +
		"requested city: temperature in °C and °F, sky condition, humidity and wind. Be direct and helpful.",
	domain.IntentTouristSpots: "You are a travel expert that recommends top tourist spots and attractions. " +
		"For each major attraction you mention, append a marker of the exact form " +
		"[IMAGE: <attraction name>, <city>] right after the attraction heading. The attraction name must not " +
		"contain a comma. Cover must-see landmarks, hidden gems and practical visiting tips.",
	domain.IntentRestaurant: "You are a food and dining expert. Recommend restaurants and local cuisine for the " +
		"requested location: specialties, dining districts, budget options and etiquette tips.",
	domain.IntentBlog: "You are a creative travel blogger. Write an engaging blog post with a personal voice, " +
		"vivid descriptions of places and food, cultural insights and practical advice.",
	domain.IntentPhotoStory: "You are an expert travel storyteller and photo analyst. Identify the landmark or " +
		"place in the attached photo and tell its background story: history, architecture, cultural " +
		"significance and visiting tips. If you cannot identify it, say so and ask for more context.",
	domain.IntentGeneral: "You are a knowledgeable travel assistant. Answer the traveler's question directly " +
		"and helpfully.",
}

// ReasoningHandler serves an intent by delegating prose generation to
// the reasoning service with a capability persona.
type ReasoningHandler struct {
	intent domain.Intent
	client reasoning.Client
	model  string
}

// NewReasoningHandler creates a reasoning-backed handler for intent.
func NewReasoningHandler(intent domain.Intent, client reasoning.Client, model string) *ReasoningHandler {
	return &ReasoningHandler{intent: intent, client: client, model: model}
}

func (h *ReasoningHandler) Intent() domain.Intent {
	return h.intent
}

func (h *ReasoningHandler) Handle(ctx context.Context, req domain.CapabilityRequest) (*domain.CapabilityResult, error) {
	userMsg := reasoning.ChatMessage{
		Role:    "user",
		Content: req.Prompt,
	}
	if len(req.ImageData) > 0 {
		userMsg.ImageData = base64.StdEncoding.EncodeToString(req.ImageData)
	}

	resp, err := h.client.CreateChatCompletion(ctx, &reasoning.ChatCompletionRequest{
		Model: h.model,
		Messages: []reasoning.ChatMessage{
			{Role: "system", Content: personas[h.intent]},
			userMsg,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("reasoning call failed: %w", err)
	}

	// The engine may stream several internal records; surface all of
	// them and let the normalizer pick the final answer.
	var records []domain.OutputRecord
	for _, choice := range resp.Choices {
		if choice.Message == nil {
			continue
		}
		records = append(records, domain.OutputRecord{
			Role: choice.Message.Role,
			Text: choice.Message.Content,
		})
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("reasoning response carried no choices")
	}

	return &domain.CapabilityResult{
		Status:  domain.ResultSuccess,
		Records: records,
		Intent:  h.intent,
	}, nil
}
