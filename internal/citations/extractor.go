package citations

import (
	"strings"

	"github.com/veridraft/veridraft/internal/markdown"
	"github.com/veridraft/veridraft/internal/model"
)

// Extract converts the parsed draft's links into citation records.
// Every occurrence is kept for distribution reporting; scoring
// deduplicates by normalized URL separately.
func Extract(doc *markdown.Document) []model.Citation {
	var citations []model.Citation

	for _, link := range doc.Links {
		if !isHTTPURL(link.URL) {
			continue
		}
		citations = append(citations, model.Citation{
			RawText: link.Text,
			URL:     link.URL,
			Section: link.Section,
			// Unknown until the prober resolves it
			Reachable: model.ReachableUnknown,
		})
	}

	return citations
}

// UniqueURLs returns one representative URL per normalized form, in
// first-occurrence order.
func UniqueURLs(citations []model.Citation) []string {
	seen := make(map[string]bool)
	var unique []string

	for _, c := range citations {
		key := model.NormalizeURL(c.URL)
		if !seen[key] {
			seen[key] = true
			unique = append(unique, c.URL)
		}
	}

	return unique
}

func isHTTPURL(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
