package capability

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/tripwise/gateway/internal/domain"
)

const imagesSearchBase = "https://www.google.com/search?tbm=isch&q="

// searchPreamble strips request phrasing so only the visual subject is
// left as the search query.
var searchPreamble = regexp.MustCompile(`(?i)^\s*(please\s+)?((show|find|get|search(\s+for)?|give)\s+)?(me\s+)?((a|an|some)\s+)?(picture|pictures|photo|photos|image|images)\s*(of\s+)?`)

// ImageSearchHandler turns a visual query into a Google Images search
// link. Deterministic, no reasoning call.
type ImageSearchHandler struct{}

// NewImageSearchHandler creates the image-search handler.
func NewImageSearchHandler() *ImageSearchHandler {
	return &ImageSearchHandler{}
}

func (h *ImageSearchHandler) Intent() domain.Intent {
	return domain.IntentImageSearch
}

func (h *ImageSearchHandler) Handle(ctx context.Context, req domain.CapabilityRequest) (*domain.CapabilityResult, error) {
	query := strings.TrimSpace(searchPreamble.ReplaceAllString(req.Prompt, ""))
	query = strings.TrimRight(query, "?!. ")
	if query == "" {
		query = strings.TrimSpace(req.Prompt)
	}

	link := imagesSearchBase + url.QueryEscape(query)
	return &domain.CapabilityResult{
		Status: domain.ResultSuccess,
		Text:   fmt.Sprintf("Here are image results for %q: %s", query, link),
		Intent: domain.IntentImageSearch,
	}, nil
}
