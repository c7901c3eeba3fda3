package quality

import (
	"strings"

	"github.com/veridraft/veridraft/internal/model"
)

// Requirement describes one canonical required section of a research
// draft and its minimum depth.
type Requirement struct {
	Name         string   `json:"name" yaml:"name"`
	Aliases      []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	MinWords     int      `json:"min_words,omitempty" yaml:"min_words,omitempty"`
	MinCitations int      `json:"min_citations,omitempty" yaml:"min_citations,omitempty"`
}

// DefaultRequirements returns the canonical section template for a
// comparative research document.
func DefaultRequirements() []Requirement {
	return []Requirement{
		{Name: "Executive Summary", Aliases: []string{"summary", "overview", "abstract"}, MinWords: 150},
		{Name: "Introduction", Aliases: []string{"intro", "background"}, MinWords: 300},
		{Name: "Literature Review", Aliases: []string{"related work", "prior work", "state of the art"}, MinWords: 500},
		{Name: "Comparative Analysis", Aliases: []string{"comparison", "analysis", "evaluation"}, MinWords: 600},
		{Name: "Future Directions", Aliases: []string{"future work", "outlook", "next steps"}, MinWords: 250},
		{Name: "Conclusion", Aliases: []string{"conclusions", "final thoughts", "closing"}, MinWords: 200},
		{Name: "References", Aliases: []string{"bibliography", "sources", "works cited"}, MinCitations: 5},
	}
}

// MatchHeading fuzzy-matches a requirement against the draft's
// sections: case-insensitive substring in either direction on the
// canonical name, or alias containment. Returns the first match in
// document order.
func MatchHeading(req Requirement, sections []model.Section) (model.Section, bool) {
	name := normalizeHeading(req.Name)

	for _, s := range sections {
		h := normalizeHeading(s.Heading)
		if h == "" {
			continue
		}
		if strings.Contains(h, name) || strings.Contains(name, h) {
			return s, true
		}
		for _, alias := range req.Aliases {
			if strings.Contains(h, normalizeHeading(alias)) {
				return s, true
			}
		}
	}

	return model.Section{}, false
}

// normalizeHeading lowercases and strips numbering like "2." or "IV -"
func normalizeHeading(heading string) string {
	h := strings.ToLower(strings.TrimSpace(heading))
	h = strings.TrimLeft(h, "0123456789.)- \t")
	return strings.TrimSpace(h)
}
