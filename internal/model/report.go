package model

import (
	"fmt"
	"math"
	"time"
)

// Report is the terminal artifact of a verification run. It is built
// once per run and never mutated; re-verification creates a new report.
type Report struct {
	Query      string    `json:"query"`       // Original research query the draft answers
	VerifiedAt time.Time `json:"verified_at"` // When the run completed

	CitationScore          int `json:"citation_score"`           // Reachable citations (0-100)
	CompletenessScore      int `json:"completeness_score"`       // Query keyword coverage (0-100)
	FactAccuracyScore      int `json:"fact_accuracy_score"`      // Corroborated claims (0-100)
	ContentQualityScore    int `json:"content_quality_score"`    // Structure/depth/tables (0-100)
	SourceUtilizationScore int `json:"source_utilization_score"` // Gathered sources cited (0-100)

	OverallScore int    `json:"overall_score"` // Fixed-weight sum, rounded
	Status       Status `json:"status"`

	Issues    []Issue         `json:"issues"`
	Citations []Citation      `json:"citations"`
	Claims    []Claim         `json:"claims"`
	Sections  []SectionResult `json:"sections"`

	WordCount       int      `json:"word_count"`
	MissingKeywords []string `json:"missing_keywords,omitempty"`
	UnusedSources   []string `json:"unused_sources,omitempty"`
}

// Status is the tri-state verdict of the decision gate
type Status string

const (
	StatusValid         Status = "valid"
	StatusNeedsRevision Status = "needs_revision"
	StatusInvalid       Status = "invalid"
)

// Weights holds the fixed aggregation weights for the five sub-scores
type Weights struct {
	Citation          float64 `json:"citation" yaml:"citation" mapstructure:"citation"`
	Completeness      float64 `json:"completeness" yaml:"completeness" mapstructure:"completeness"`
	FactAccuracy      float64 `json:"fact_accuracy" yaml:"fact_accuracy" mapstructure:"fact_accuracy"`
	ContentQuality    float64 `json:"content_quality" yaml:"content_quality" mapstructure:"content_quality"`
	SourceUtilization float64 `json:"source_utilization" yaml:"source_utilization" mapstructure:"source_utilization"`
}

// DefaultWeights returns the standard aggregation weights
func DefaultWeights() Weights {
	return Weights{
		Citation:          0.15,
		Completeness:      0.10,
		FactAccuracy:      0.35,
		ContentQuality:    0.25,
		SourceUtilization: 0.15,
	}
}

// Validate checks the weight configuration. A bad configuration is an
// engine bug, not bad input, and is treated as fatal at construction.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"citation":           w.Citation,
		"completeness":       w.Completeness,
		"fact_accuracy":      w.FactAccuracy,
		"content_quality":    w.ContentQuality,
		"source_utilization": w.SourceUtilization,
	} {
		if v < 0 {
			return fmt.Errorf("weight %s is negative: %v", name, v)
		}
	}

	sum := w.Citation + w.Completeness + w.FactAccuracy + w.ContentQuality + w.SourceUtilization
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("weights must sum to 1.0, got %v", sum)
	}

	return nil
}

// Overall computes the weighted overall score, rounded to the nearest integer
func (w Weights) Overall(citation, completeness, factAccuracy, contentQuality, sourceUtilization int) int {
	sum := w.Citation*float64(citation) +
		w.Completeness*float64(completeness) +
		w.FactAccuracy*float64(factAccuracy) +
		w.ContentQuality*float64(contentQuality) +
		w.SourceUtilization*float64(sourceUtilization)
	return int(math.Round(sum))
}

// ClampScore bounds a sub-score to [0, 100]
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
