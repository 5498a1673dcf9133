package capability

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/tripwise/gateway/internal/domain"
	"github.com/tripwise/gateway/internal/synthesizer"
)

// walkingModeSuffix is the Google Maps data parameter selecting walking
// directions.
const walkingModeSuffix = "/data=!4m2!4m1!3e2"

const mapsDirBase = "https://www.google.com/maps/dir/"

// clarificationNeedLocations is returned when the prompt names fewer
// than two waypoints. Rejecting here is the handler's responsibility,
// not the router's.
const clarificationNeedLocations = "Please provide at least 2 locations to create a walking route, " +
	"for example: 'Walking route from the Eiffel Tower to the Louvre'."

// WalkingRoutesHandler builds Google Maps walking links between the
// waypoints named in the prompt. Fully deterministic, no reasoning call.
type WalkingRoutesHandler struct{}

// NewWalkingRoutesHandler creates the walking-route handler.
func NewWalkingRoutesHandler() *WalkingRoutesHandler {
	return &WalkingRoutesHandler{}
}

func (h *WalkingRoutesHandler) Intent() domain.Intent {
	return domain.IntentWalkingRoute
}

func (h *WalkingRoutesHandler) Handle(ctx context.Context, req domain.CapabilityRequest) (*domain.CapabilityResult, error) {
	spots := synthesizer.Entities(req.Prompt)
	if len(spots) < 2 {
		return &domain.CapabilityResult{
			Status: domain.ResultSuccess,
			Text:   clarificationNeedLocations,
			Intent: domain.IntentWalkingRoute,
		}, nil
	}

	var b strings.Builder
	b.WriteString("**Walking Route Plan**\n\n")

	for i := 0; i < len(spots)-1; i++ {
		start, end := spots[i], spots[i+1]
		b.WriteString(fmt.Sprintf("**Step %d: %s to %s**\n", i+1, start, end))
		b.WriteString(fmt.Sprintf("Walking Route Map: %s\n", routeURL(start, end, nil)))
		b.WriteString("Estimated walking time: 15-30 minutes (depending on distance)\n\n")
	}

	if len(spots) > 2 {
		b.WriteString(fmt.Sprintf("**Complete Route Map (All Stops):**\n%s\n\n",
			routeURL(spots[0], spots[len(spots)-1], spots[1:len(spots)-1])))
	}

	b.WriteString("**Tips:**\n")
	b.WriteString("- Use the map links for real-time directions\n")
	b.WriteString("- Check opening hours of attractions before visiting\n")
	b.WriteString("- Wear comfortable walking shoes\n")

	return &domain.CapabilityResult{
		Status: domain.ResultSuccess,
		Text:   b.String(),
		Intent: domain.IntentWalkingRoute,
	}, nil
}

// routeURL builds a Google Maps walking-directions URL from start to
// end through the optional waypoints.
func routeURL(start, end string, waypoints []string) string {
	var b strings.Builder
	b.WriteString(mapsDirBase)
	b.WriteString(url.PathEscape(start))
	for _, wp := range waypoints {
		b.WriteString("/")
		b.WriteString(url.PathEscape(wp))
	}
	b.WriteString("/")
	b.WriteString(url.PathEscape(end))
	b.WriteString(walkingModeSuffix)
	return b.String()
}
