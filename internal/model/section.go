package model

// Section is a slice of the draft delimited by Markdown headings.
// Ordering is preserved as it appears in the draft.
type Section struct {
	Heading   string `json:"heading"`
	Level     int    `json:"level"`      // Heading level (1 for #, 2 for ##, ...)
	Content   string `json:"-"`          // Body text, headings excluded
	WordCount int    `json:"word_count"`
}

// SectionPresence classifies a required section against the draft
type SectionPresence string

const (
	SectionPresent SectionPresence = "present" // Found and meets the minimum
	SectionShort   SectionPresence = "short"   // Found but under the minimum word count
	SectionMissing SectionPresence = "missing" // No heading matched
)

// SectionResult reports how one required section fared
type SectionResult struct {
	Name           string          `json:"name"`                      // Canonical required-section name
	MatchedHeading string          `json:"matched_heading,omitempty"` // Actual heading that matched, if any
	Presence       SectionPresence `json:"presence"`
	WordCount      int             `json:"word_count"`
	MinWords       int             `json:"min_words,omitempty"`
	Citations      int             `json:"citations"` // Citations appearing in the matched section
}
