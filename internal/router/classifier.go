// Package router classifies inbound messages and dispatches them to
// capability handlers.
package router

import (
	"regexp"
	"strings"

	"github.com/tripwise/gateway/internal/domain"
)

// Classifier assigns exactly one intent to any input. Implementations
// must be total: every string maps to a category, with IntentGeneral as
// the fallback, so the router never lacks a destination.
type Classifier interface {
	Classify(text string) domain.Intent
}

// intentRule scores one category by phrase hits.
type intentRule struct {
	intent  domain.Intent
	phrases []string
}

// Rules are ordered: on a tie the earlier, more specific category wins.
var defaultRules = []intentRule{
	{domain.IntentWalkingRoute, []string{
		"walking route", "walking tour", "walk from", "walking plan",
		"route between", "route from", "on foot", "walking directions",
	}},
	{domain.IntentTime, []string{
		"what time", "current time", "time is it", "local time", "time in",
	}},
	{domain.IntentWeather, []string{
		"weather", "temperature", "forecast", "how hot", "how cold",
		"raining", "sunny", "humidity",
	}},
	{domain.IntentTouristSpots, []string{
		"tourist", "attraction", "attractions", "sightseeing", "sights",
		"things to do", "places to visit", "places to see", "landmarks",
		"must-see", "tourist spots", "hidden gems",
	}},
	{domain.IntentRestaurant, []string{
		"restaurant", "restaurants", "where to eat", "dining", "dinner",
		"lunch", "cuisine", "food in", "eat in", "cafes",
	}},
	{domain.IntentBlog, []string{
		"blog", "blog post", "write a post", "travel article",
		"write about my trip", "write up my trip",
	}},
	{domain.IntentImageSearch, []string{
		"show me a picture", "show me pictures", "show me photos",
		"show me an image", "find images", "find pictures", "picture of",
		"pictures of", "photos of", "images of", "image of",
	}},
}

// RuleClassifier is the keyword-scoring classifier. The concrete
// classifier is swappable behind the Classifier interface; only the
// totality contract must hold.
type RuleClassifier struct {
	rules []intentRule
}

// NewRuleClassifier creates the default rule-based classifier.
func NewRuleClassifier() *RuleClassifier {
	return &RuleClassifier{rules: defaultRules}
}

// Classify maps text to exactly one intent.
func (c *RuleClassifier) Classify(text string) domain.Intent {
	lower := strings.ToLower(text)

	best := domain.IntentGeneral
	bestScore := 0
	for _, rule := range c.rules {
		score := 0
		for _, phrase := range rule.phrases {
			if strings.Contains(lower, phrase) {
				// Multi-word phrases are stronger evidence.
				if strings.Contains(phrase, " ") {
					score += 2
				} else {
					score++
				}
			}
		}
		if score > bestScore {
			best = rule.intent
			bestScore = score
		}
	}
	return best
}

// imageRefPattern is the decision boundary for "the text is about the
// attached image": demonstrative references to a depicted subject.
var imageRefPattern = regexp.MustCompile(`(?i)\b(what('?s| is) this|this (place|landmark|building|monument|photo|picture|image|spot)|history of this|about this|in (this|the) (photo|picture|image)|the attached (photo|picture|image))\b`)

// RefersToImage reports whether text is directly asking about an
// attached image. A general query with an unrelated image attached must
// return false so the image is ignored, not silently hijacking the
// route.
func RefersToImage(text string) bool {
	return imageRefPattern.MatchString(text)
}
