package citations

import (
	"context"
	"fmt"
	"math"

	"github.com/veridraft/veridraft/internal/markdown"
	"github.com/veridraft/veridraft/internal/model"
	"github.com/veridraft/veridraft/internal/quality"
)

// Result is the citation checker's verdict for one draft
type Result struct {
	Score     int
	Citations []model.Citation
	Issues    []model.Issue
	Unique    int // Unique URLs after normalization
	Valid     int
	Broken    int
	Unknown   int
}

// Checker extracts citations, probes their reachability, and scores
// the draft's citation health.
type Checker struct {
	prober       *Prober
	requirements []quality.Requirement
}

// NewChecker creates a citation checker. The requirement template is
// used only for the per-section citation distribution check.
func NewChecker(prober *Prober, requirements []quality.Requirement) *Checker {
	if len(requirements) == 0 {
		requirements = quality.DefaultRequirements()
	}
	return &Checker{prober: prober, requirements: requirements}
}

// Check runs extraction, probing, and scoring for one parsed draft
func (c *Checker) Check(ctx context.Context, doc *markdown.Document) Result {
	result := Result{Citations: Extract(doc)}

	if len(result.Citations) == 0 {
		result.Issues = append(result.Issues, model.Issue{
			Severity:    model.SeverityCritical,
			Description: "no citations found in draft",
		})
		return result
	}

	unique := UniqueURLs(result.Citations)
	result.Unique = len(unique)

	probes := c.prober.Probe(ctx, unique)

	// Resolve each occurrence through its normalized URL's probe
	byNormalized := make(map[string]ProbeResult, len(probes))
	for u, pr := range probes {
		byNormalized[model.NormalizeURL(u)] = pr
	}
	for i := range result.Citations {
		pr, ok := byNormalized[model.NormalizeURL(result.Citations[i].URL)]
		if !ok {
			result.Citations[i].Reachable = model.ReachableUnknown
			continue
		}
		result.Citations[i].Reachable = pr.Reachable
		result.Citations[i].StatusCode = pr.StatusCode
	}

	// Score and issues count each unique URL once
	for _, u := range unique {
		pr := byNormalized[model.NormalizeURL(u)]
		switch pr.Reachable {
		case model.ReachableValid:
			result.Valid++
		case model.ReachableBroken:
			result.Broken++
			result.Issues = append(result.Issues, model.Issue{
				Severity:    model.SeverityMajor,
				Description: fmt.Sprintf("broken citation (HTTP %d): %s", pr.StatusCode, u),
				Location:    u,
			})
		default:
			result.Unknown++
			result.Issues = append(result.Issues, model.Issue{
				Severity:    model.SeverityMinor,
				Description: fmt.Sprintf("unreachable citation (%s): %s", pr.Error, u),
				Location:    u,
			})
		}
	}

	result.Score = model.ClampScore(int(math.Round(float64(result.Valid) / float64(result.Unique) * 100)))

	result.Issues = append(result.Issues, c.distributionIssues(doc, result.Citations)...)

	return result
}

// distributionIssues flags required sections present in the draft
// that carry no citations at all.
func (c *Checker) distributionIssues(doc *markdown.Document, cites []model.Citation) []model.Issue {
	perSection := make(map[string]int)
	for _, cite := range cites {
		perSection[cite.Section]++
	}

	var issues []model.Issue
	for _, req := range c.requirements {
		section, ok := quality.MatchHeading(req, doc.Sections)
		if !ok {
			continue // absence is the quality assessor's finding
		}
		if perSection[section.Heading] == 0 {
			issues = append(issues, model.Issue{
				Severity:    model.SeverityMajor,
				Description: fmt.Sprintf("missing citations in section %q", section.Heading),
				Location:    section.Heading,
			})
		}
	}

	return issues
}
