package capability

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tripwise/gateway/internal/domain"
	"github.com/tripwise/gateway/internal/synthesizer"
)

// timezoneMap maps lowercase city names to IANA zone names for cities
// whose zone is not simply "<Region>/<City>".
var timezoneMap = map[string]string{
	"new york":    "America/New_York",
	"los angeles": "America/Los_Angeles",
	"mumbai":      "Asia/Kolkata",
	"beijing":     "Asia/Shanghai",
	"geneva":      "Europe/Zurich",
	"milan":       "Europe/Rome",
	"barcelona":   "Europe/Madrid",
	"seville":     "Europe/Madrid",
	"valencia":    "Europe/Madrid",
	"bilbao":      "Europe/Madrid",
	"porto":       "Europe/Lisbon",
	"edinburgh":   "Europe/London",
	"glasgow":     "Europe/London",
	"manchester":  "Europe/London",
	"birmingham":  "Europe/London",
	"leeds":       "Europe/London",
	"liverpool":   "Europe/London",
	"newcastle":   "Europe/London",
	"cardiff":     "Europe/London",
	"belfast":     "Europe/London",
	"aberdeen":    "Europe/London",
	"inverness":   "Europe/London",
}

// zoneRegions are tried in order when guessing "<Region>/<City>".
var zoneRegions = []string{"Europe", "America", "Asia", "Australia", "Africa", "Pacific"}

// TimeHandler answers current-time questions locally from the timezone
// database; no reasoning call is needed.
type TimeHandler struct {
	now func() time.Time
}

// NewTimeHandler creates the current-time handler.
func NewTimeHandler() *TimeHandler {
	return &TimeHandler{now: time.Now}
}

func (h *TimeHandler) Intent() domain.Intent {
	return domain.IntentTime
}

func (h *TimeHandler) Handle(ctx context.Context, req domain.CapabilityRequest) (*domain.CapabilityResult, error) {
	location := firstPlace(req.Prompt)
	if location == "" {
		return &domain.CapabilityResult{
			Status: domain.ResultSuccess,
			Text:   "To get the current time, please specify a city name, for example: 'What time is it in Tokyo?'",
			Intent: domain.IntentTime,
		}, nil
	}

	loc, zoneName := resolveZone(location)
	if loc == nil {
		return &domain.CapabilityResult{
			Status: domain.ResultSuccess,
			Text: fmt.Sprintf("Sorry, I couldn't find timezone information for '%s'. Please try with a major city name.",
				location),
			Intent: domain.IntentTime,
		}, nil
	}

	now := h.now().In(loc)
	return &domain.CapabilityResult{
		Status: domain.ResultSuccess,
		Text: fmt.Sprintf("Current time in %s: %s (%s)",
			location, now.Format("03:04 PM, Monday, January 02, 2006"), zoneName),
		Intent: domain.IntentTime,
	}, nil
}

// resolveZone maps a city name to a time.Location, first via the alias
// map, then by guessing "<Region>/<City>" across common regions.
func resolveZone(city string) (*time.Location, string) {
	lower := strings.ToLower(city)
	if zone, ok := timezoneMap[lower]; ok {
		if loc, err := time.LoadLocation(zone); err == nil {
			return loc, zone
		}
		return nil, ""
	}

	guess := zoneCity(lower)
	for _, region := range zoneRegions {
		zone := region + "/" + guess
		if loc, err := time.LoadLocation(zone); err == nil {
			return loc, zone
		}
	}
	return nil, ""
}

// zoneCity turns "new york" into the zone-file spelling "New_York".
func zoneCity(lower string) string {
	words := strings.Fields(lower)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, "_")
}

// firstPlace pulls the first named place out of a prompt.
func firstPlace(prompt string) string {
	entities := synthesizer.Entities(prompt)
	if len(entities) == 0 {
		return ""
	}
	return entities[0]
}
