// Package artifact extracts structured image records from
// marker-annotated text.
package artifact

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/tripwise/gateway/internal/domain"
)

// markerPattern is the wire-level marker grammar:
// [IMAGE: <label>, <locationHint>] with required comma and closing
// bracket; the label must not contain a comma. Whitespace-tolerant.
var markerPattern = regexp.MustCompile(`\[IMAGE:\s*([^,\]]+),\s*([^\]]+)\]`)

// collapseSpaces squeezes runs of spaces and tabs left behind by marker
// removal.
var collapseSpaces = regexp.MustCompile(`[ \t]{2,}`)

// Extractor turns marker-annotated text into clean prose plus artifact
// records. URLs are built from configurable %s templates (primary and
// thumbnail size variants).
type Extractor struct {
	primaryTemplate   string
	thumbnailTemplate string
}

// NewExtractor creates an extractor with the given link templates.
func NewExtractor(primaryTemplate, thumbnailTemplate string) *Extractor {
	return &Extractor{
		primaryTemplate:   primaryTemplate,
		thumbnailTemplate: thumbnailTemplate,
	}
}

// Extract scans text for image markers, emits one artifact per marker
// and strips the markers from the visible text. Pure, idempotent and
// total: zero markers returns the text unchanged with no artifacts.
func (e *Extractor) Extract(text string) (string, []domain.Artifact) {
	matches := markerPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return text, nil
	}

	artifacts := make([]domain.Artifact, 0, len(matches))
	for _, m := range matches {
		label := strings.TrimSpace(m[1])
		location := strings.TrimSpace(m[2])
		query := url.QueryEscape(label + " " + location)
		artifacts = append(artifacts, domain.Artifact{
			Label:        label,
			LocationHint: location,
			PrimaryURL:   fmt.Sprintf(e.primaryTemplate, query),
			ThumbnailURL: fmt.Sprintf(e.thumbnailTemplate, query),
		})
	}

	cleaned := markerPattern.ReplaceAllString(text, "")
	cleaned = collapseSpaces.ReplaceAllString(cleaned, " ")
	// Marker removal can leave a space hanging before a newline or the
	// end of a line.
	cleaned = strings.ReplaceAll(cleaned, " \n", "\n")
	cleaned = strings.TrimRight(cleaned, " ")

	return cleaned, artifacts
}
