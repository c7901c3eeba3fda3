package quality

import (
	"fmt"
	"math"

	"github.com/veridraft/veridraft/internal/markdown"
	"github.com/veridraft/veridraft/internal/model"
)

// SubWeights are the relative weights of the three quality components
type SubWeights struct {
	Structure float64 `json:"structure" yaml:"structure" mapstructure:"structure"`
	Depth     float64 `json:"depth" yaml:"depth" mapstructure:"depth"`
	Tables    float64 `json:"tables" yaml:"tables" mapstructure:"tables"`
}

// DefaultSubWeights weighs structure, depth and tables equally
func DefaultSubWeights() SubWeights {
	return SubWeights{Structure: 1, Depth: 1, Tables: 1}
}

// Result is the content-quality verdict for one draft
type Result struct {
	Score          int
	StructureScore int
	DepthScore     int
	TableScore     int
	Sections       []model.SectionResult
	Issues         []model.Issue
	AnyMissing     bool // At least one required section fully absent
	AllPresent     bool // Every required section present and meeting its minimum
}

// Assessor scores structural completeness and depth of a draft
// against the required-section template.
type Assessor struct {
	requirements   []Requirement
	expectedTables int
	weights        SubWeights
}

// NewAssessor creates an assessor with the canonical template. A
// comparative analysis document is expected to carry at least one table.
func NewAssessor() *Assessor {
	return &Assessor{
		requirements:   DefaultRequirements(),
		expectedTables: 1,
		weights:        DefaultSubWeights(),
	}
}

// NewAssessorWith creates an assessor with overridden template or weights
func NewAssessorWith(requirements []Requirement, expectedTables int, weights SubWeights) *Assessor {
	if len(requirements) == 0 {
		requirements = DefaultRequirements()
	}
	if weights.Structure == 0 && weights.Depth == 0 && weights.Tables == 0 {
		weights = DefaultSubWeights()
	}
	return &Assessor{
		requirements:   requirements,
		expectedTables: expectedTables,
		weights:        weights,
	}
}

// Assess classifies every required section as present, short, or
// missing, and combines structure, depth, and table scores.
func (a *Assessor) Assess(doc *markdown.Document) Result {
	result := Result{AllPresent: true}

	found := 0
	meeting := 0

	for _, req := range a.requirements {
		sr := model.SectionResult{
			Name:     req.Name,
			MinWords: req.MinWords,
		}

		section, ok := MatchHeading(req, doc.Sections)
		if !ok {
			sr.Presence = model.SectionMissing
			result.AnyMissing = true
			result.AllPresent = false
			result.Issues = append(result.Issues, model.Issue{
				Severity:    model.SeverityMajor,
				Description: fmt.Sprintf("required section missing: %s", req.Name),
				Location:    req.Name,
			})
			result.Sections = append(result.Sections, sr)
			continue
		}

		found++
		sr.MatchedHeading = section.Heading
		sr.WordCount = section.WordCount
		sr.Citations = countSectionLinks(doc, section.Heading)

		if meetsMinimum(req, section, sr.Citations) {
			meeting++
			sr.Presence = model.SectionPresent
		} else {
			sr.Presence = model.SectionShort
			result.AllPresent = false
			result.Issues = append(result.Issues, model.Issue{
				Severity:    model.SeverityMinor,
				Description: shortDescription(req, sr),
				Location:    section.Heading,
			})
		}

		result.Sections = append(result.Sections, sr)
	}

	total := len(a.requirements)
	result.StructureScore = ratioScore(found, total)
	result.DepthScore = ratioScore(meeting, total)
	result.TableScore = a.tableScore(doc, &result)

	weightSum := a.weights.Structure + a.weights.Depth + a.weights.Tables
	weighted := (a.weights.Structure*float64(result.StructureScore) +
		a.weights.Depth*float64(result.DepthScore) +
		a.weights.Tables*float64(result.TableScore)) / weightSum
	result.Score = model.ClampScore(int(math.Round(weighted)))

	return result
}

// tableScore scores pipe-table count against the expected minimum
func (a *Assessor) tableScore(doc *markdown.Document, result *Result) int {
	if a.expectedTables <= 0 {
		return 100
	}

	count := len(doc.Tables)
	if count == 0 {
		result.Issues = append(result.Issues, model.Issue{
			Severity:    model.SeverityMajor,
			Description: "no tables found; at least one expected for a comparative analysis document",
		})
	}

	score := int(math.Round(float64(count) / float64(a.expectedTables) * 100))
	return model.ClampScore(score)
}

// meetsMinimum checks the word or citation floor for one section
func meetsMinimum(req Requirement, section model.Section, citations int) bool {
	if req.MinCitations > 0 {
		return citations >= req.MinCitations
	}
	return section.WordCount >= req.MinWords
}

func shortDescription(req Requirement, sr model.SectionResult) string {
	if req.MinCitations > 0 {
		return fmt.Sprintf("section %q has %d citations, expected at least %d", sr.MatchedHeading, sr.Citations, req.MinCitations)
	}
	return fmt.Sprintf("section %q has %d words, expected at least %d", sr.MatchedHeading, sr.WordCount, req.MinWords)
}

func countSectionLinks(doc *markdown.Document, heading string) int {
	count := 0
	for _, link := range doc.Links {
		if link.Section == heading {
			count++
		}
	}
	return count
}

func ratioScore(part, total int) int {
	if total == 0 {
		return 0
	}
	return model.ClampScore(int(math.Round(float64(part) / float64(total) * 100)))
}
