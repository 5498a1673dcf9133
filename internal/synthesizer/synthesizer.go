// Package synthesizer rewrites context-dependent user messages into
// self-contained instructions, since capability handlers are stateless.
package synthesizer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tripwise/gateway/internal/domain"
)

// objectPronounPattern matches demonstrative object pronouns that point
// at entities from prior turns. Bare "it", "that" and "there" are left
// alone: they are usually dummy or existential ("what time is it",
// "is there a cafe", "a restaurant that serves pasta"), not references.
var objectPronounPattern = regexp.MustCompile(`(?i)\b(those|these|them)\b`)

// attachedPronounPattern matches "it"/"that" only as the object of a
// preposition or movement verb ("route to that", "more about it"),
// where the reading is genuinely referential.
var attachedPronounPattern = regexp.MustCompile(`(?i)\b(between|about|to|of|for|near|from|around|visit|see)\s+(it|that)\b`)

// followUpPattern matches elliptical follow-ups that carry the previous
// question's topic ("what about in Paris?").
var followUpPattern = regexp.MustCompile(`(?i)^\s*(what|how)\s+about\b`)

// historyRefPattern matches explicit mentions of prior conversation.
var historyRefPattern = regexp.MustCompile(`(?i)\b(earlier|previous)\b`)

// entityPattern matches capitalized word sequences, allowing lowercase
// connectives inside ("Arc de Triomphe", "Museum of Modern Art").
var entityPattern = regexp.MustCompile(`[A-Z][A-Za-z'&-]*(?:\s+(?:of|the|de|la|du|des|da)\s+[A-Z][A-Za-z'-]*|\s+[A-Z][A-Za-z'&-]*)*`)

// stopwords are capitalized words that start sentences or headings but
// name nothing.
var stopwords = map[string]bool{
	"The": true, "A": true, "An": true, "I": true, "It": true, "Is": true,
	"What": true, "Where": true, "When": true, "How": true, "Why": true, "Who": true,
	"You": true, "We": true, "They": true, "Here": true, "There": true,
	"This": true, "These": true, "Those": true, "That": true,
	"Top": true, "Best": true, "Step": true, "Tips": true, "For": true,
	"Current": true, "Walking": true, "Estimated": true, "Distance": true,
	"Home": true, "From": true, "Built": true, "Try": true, "If": true,
	"Please": true, "Sorry": true, "Visit": true, "Check": true, "Use": true,
	"Plan": true, "Show": true, "Give": true, "Find": true, "Tell": true,
	"Create": true, "Make": true, "Recommend": true, "Suggest": true,
	"Consider": true, "Wear": true, "Your": true, "Welcome": true, "In": true,
	"And": true, "Or": true, "But": true, "To": true, "On": true, "At": true,
}

// Synthesizer produces context-free instructions from a message plus the
// session's recent turn history. It is a total function: resolution
// failures degrade to pass-through, never errors.
type Synthesizer struct {
	window int
}

// New creates a synthesizer reading at most window recent turns.
func New(window int) *Synthesizer {
	if window <= 0 {
		window = 10
	}
	return &Synthesizer{window: window}
}

// Synthesize returns the self-contained instruction for message given
// history (oldest first). A message with no referential language is
// returned unchanged.
func (s *Synthesizer) Synthesize(message string, history []domain.Turn) string {
	if !referential(message) {
		return message
	}
	if len(history) > s.window {
		history = history[len(history)-s.window:]
	}

	out := message

	if entities := s.recentEntities(history); len(entities) > 0 {
		out = substitute(out, strings.Join(entities, ", "))
	}

	// Elliptical follow-ups additionally carry the prior question's topic.
	if followUpPattern.MatchString(message) {
		if last := lastUserContent(history); last != "" {
			out = fmt.Sprintf("%s (as a follow-up to: %s)", out, last)
		}
	}

	return out
}

// referential reports whether the message contains language that needs
// prior turns to resolve. Anything else passes through unchanged.
func referential(message string) bool {
	return objectPronounPattern.MatchString(message) ||
		attachedPronounPattern.MatchString(message) ||
		followUpPattern.MatchString(message) ||
		historyRefPattern.MatchString(message)
}

// substitute replaces the first referential pronoun with the concrete
// referents. Demonstrative objects win over preposition-attached
// "it"/"that"; at most one replacement per message.
func substitute(message, referents string) string {
	replaced := false
	out := objectPronounPattern.ReplaceAllStringFunc(message, func(m string) string {
		if replaced {
			return m
		}
		replaced = true
		return referents
	})
	if replaced {
		return out
	}
	return attachedPronounPattern.ReplaceAllStringFunc(message, func(m string) string {
		if replaced {
			return m
		}
		replaced = true
		sub := attachedPronounPattern.FindStringSubmatch(m)
		return sub[1] + " " + referents
	})
}

// recentEntities harvests named entities from history, most recent
// first, preferring assistant turns over user turns of equal recency.
// Assistant-turn artifact labels are the cleanest source; free-text
// capitalized sequences are the fallback.
func (s *Synthesizer) recentEntities(history []domain.Turn) []string {
	var userFallback []string
	for i := len(history) - 1; i >= 0; i-- {
		turn := history[i]
		entities := turnEntities(turn)
		if len(entities) == 0 {
			continue
		}
		if turn.Role == domain.RoleAssistant {
			return entities
		}
		if userFallback == nil {
			userFallback = entities
		}
	}
	return userFallback
}

func turnEntities(turn domain.Turn) []string {
	if len(turn.Artifacts) > 0 {
		var labels []string
		for _, a := range turn.Artifacts {
			labels = append(labels, a.Label)
		}
		return dedup(labels)
	}
	return Entities(turn.Content)
}

// Entities scans text for capitalized sequences that look like named
// places, dropping sentence-starter noise. Shared with the
// walking-routes handler, which needs waypoints from a prompt.
func Entities(text string) []string {
	matches := entityPattern.FindAllString(text, -1)
	var out []string
	for _, m := range matches {
		words := strings.Fields(m)
		// A stripped stopword can expose a lowercase connective that
		// was part of the chained match ("Visit the Museum of ...").
		for len(words) > 0 && (stopwords[words[0]] || isLowerWord(words[0])) {
			words = words[1:]
		}
		if len(words) == 0 {
			continue
		}
		candidate := strings.Join(words, " ")
		if len(words) == 1 && stopwords[candidate] {
			continue
		}
		out = append(out, candidate)
	}
	return dedup(out)
}

func isLowerWord(w string) bool {
	return w != "" && w[0] >= 'a' && w[0] <= 'z'
}

func lastUserContent(history []domain.Turn) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == domain.RoleUser {
			return history[i].Content
		}
	}
	return ""
}

func dedup(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
		if len(out) == 6 {
			break
		}
	}
	return out
}
