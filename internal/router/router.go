package router

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/tripwise/gateway/internal/capability"
	"github.com/tripwise/gateway/internal/domain"
	"github.com/tripwise/gateway/policy"
)

// degradedText is the best-effort apology used when a handler fails;
// the gateway still appends it as the assistant turn so the
// conversation never drops a turn.
const degradedText = "I'm sorry, I couldn't complete that request right now. Please try again in a moment."

// Router selects exactly one destination per inbound message and
// produces exactly one CapabilityResult, degrading on handler failure
// instead of retrying a different handler.
type Router struct {
	classifier Classifier
	registry   *capability.Registry
	policy     *policy.Engine
	timeout    time.Duration
}

// New creates a router. policyEngine may be nil, which allows every
// route.
func New(classifier Classifier, registry *capability.Registry, policyEngine *policy.Engine, timeout time.Duration) *Router {
	return &Router{
		classifier: classifier,
		registry:   registry,
		policy:     policyEngine,
		timeout:    timeout,
	}
}

// Dispatch routes the synthesized request and returns its single
// result. It never returns an error: handler failures become degraded
// results.
func (r *Router) Dispatch(ctx context.Context, req domain.CapabilityRequest) *domain.CapabilityResult {
	intent := r.resolveIntent(&req)

	if r.policy != nil {
		decision, reason, err := r.policy.Evaluate(ctx, map[string]interface{}{
			"category":  string(intent),
			"has_image": len(req.ImageData) > 0,
		})
		if err != nil {
			log.Printf("WARN: route policy evaluation failed: %v", err)
		} else if decision == policy.DecisionBlock {
			log.Printf("INFO: route %s blocked by policy (%s), degrading to general", intent, reason)
			intent = domain.IntentGeneral
			req.ImageData = nil
		}
	}

	handler := r.registry.Get(intent)
	if handler == nil {
		return &domain.CapabilityResult{
			Status: domain.ResultHandlerUnavailable,
			Text:   degradedText,
			Reason: "no handler registered for " + string(intent),
			Intent: intent,
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := handler.Handle(callCtx, req)
	if err != nil {
		status := domain.ResultProviderError
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			status = domain.ResultHandlerUnavailable
		}
		log.Printf("ERROR: handler %s failed: %v", intent, err)
		return &domain.CapabilityResult{
			Status: status,
			Text:   degradedText,
			Reason: err.Error(),
			Intent: intent,
		}
	}
	result.Intent = intent
	return result
}

// resolveIntent applies the image-relevance rule, then classifies. An
// attached image only matters when the text is about it; otherwise the
// image is dropped and the message is treated as text-only.
func (r *Router) resolveIntent(req *domain.CapabilityRequest) domain.Intent {
	if len(req.ImageData) > 0 {
		if RefersToImage(req.Prompt) {
			return domain.IntentPhotoStory
		}
		req.ImageData = nil
	}
	return r.classifier.Classify(req.Prompt)
}
