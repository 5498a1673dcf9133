// Package normalize converts heterogeneous capability output into the
// single response envelope shape.
package normalize

import (
	"strings"

	"github.com/tripwise/gateway/internal/domain"
)

// Normalize flattens a capability result into one text string. Handlers
// may return a single text value or a list of event-like records; the
// first assistant-authored record wins, and when none exists all
// text-bearing records are concatenated in order. The function is total:
// it never fails on unexpected shapes, it degrades to concatenation.
func Normalize(result *domain.CapabilityResult) string {
	if result == nil {
		return ""
	}
	if len(result.Records) == 0 {
		return result.Text
	}

	for _, rec := range result.Records {
		if rec.Role == string(domain.RoleAssistant) && !rec.ToolCall && rec.Text != "" {
			return rec.Text
		}
	}

	// No final-answer record; concatenate whatever text there is.
	var parts []string
	for _, rec := range result.Records {
		if rec.Text != "" {
			parts = append(parts, rec.Text)
		}
	}
	if len(parts) == 0 {
		return result.Text
	}
	return strings.Join(parts, "")
}
