package crossref

import (
	"fmt"
	"math"

	"github.com/veridraft/veridraft/internal/model"
)

// Result is the source-utilization verdict for one draft
type Result struct {
	Score         int
	Gathered      int
	Used          int
	UnusedSources []string
	Issues        []model.Issue
}

// CrossReferencer scores how much of the gathered research material
// the draft actually cites. Citations outside the gathered set are
// never penalized; only the inverse direction (gathered-but-uncited)
// is scored.
type CrossReferencer struct{}

// NewCrossReferencer creates a source cross-referencer
func NewCrossReferencer() *CrossReferencer {
	return &CrossReferencer{}
}

// Check computes citation coverage of the gathered source set. With no
// gathered sources there is nothing uncited, so coverage is full.
func (c *CrossReferencer) Check(sources []model.SourceRecord, citations []model.Citation) Result {
	result := Result{Gathered: len(sources)}

	if len(sources) == 0 {
		result.Score = 100
		return result
	}

	cited := make(map[string]bool, len(citations))
	for _, citation := range citations {
		cited[model.NormalizeURL(citation.URL)] = true
	}

	seen := make(map[string]bool, len(sources))
	unique := 0
	for _, source := range sources {
		key := model.NormalizeURL(source.URL)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique++

		if cited[key] {
			result.Used++
		} else {
			result.UnusedSources = append(result.UnusedSources, source.URL)
		}
	}

	result.Gathered = unique
	result.Score = model.ClampScore(int(math.Round(float64(result.Used) / float64(unique) * 100)))

	if unused := len(result.UnusedSources); unused*2 > unique {
		result.Issues = append(result.Issues, model.Issue{
			Severity:    model.SeverityMajor,
			Description: fmt.Sprintf("%d of %d gathered sources are never cited in the draft", unused, unique),
		})
	}

	return result
}
