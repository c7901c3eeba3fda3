package verify

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/veridraft/veridraft/internal/model"
)

// Renderer writes verification reports as JSON, Markdown, and a short
// stdout summary.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a report renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// RenderMarkdown writes a human-readable report
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Verification Report\n\n")
	fmt.Fprintf(&b, "**Query:** %s\n\n", report.Query)
	fmt.Fprintf(&b, "**Status:** %s · **Overall:** %d/100\n\n", statusLabel(report.Status), report.OverallScore)

	b.WriteString("## Scores\n\n")
	b.WriteString("| Check | Score |\n|---|---|\n")
	fmt.Fprintf(&b, "| Citations | %d |\n", report.CitationScore)
	fmt.Fprintf(&b, "| Completeness | %d |\n", report.CompletenessScore)
	fmt.Fprintf(&b, "| Fact accuracy | %d |\n", report.FactAccuracyScore)
	fmt.Fprintf(&b, "| Content quality | %d |\n", report.ContentQualityScore)
	fmt.Fprintf(&b, "| Source utilization | %d |\n", report.SourceUtilizationScore)
	fmt.Fprintf(&b, "| **Overall** | **%d** |\n\n", report.OverallScore)

	if len(report.Issues) > 0 {
		b.WriteString("## Issues\n\n")
		for _, severity := range []model.Severity{model.SeverityCritical, model.SeverityMajor, model.SeverityMinor} {
			for _, issue := range report.Issues {
				if issue.Severity != severity {
					continue
				}
				location := ""
				if issue.Location != "" {
					location = fmt.Sprintf(" _(%s)_", issue.Location)
				}
				fmt.Fprintf(&b, "- **%s** %s%s\n", strings.ToUpper(string(issue.Severity)), issue.Description, location)
			}
		}
		b.WriteString("\n")
	}

	if len(report.Sections) > 0 {
		b.WriteString("## Required Sections\n\n")
		b.WriteString("| Section | Presence | Words | Citations |\n|---|---|---|---|\n")
		for _, s := range report.Sections {
			fmt.Fprintf(&b, "| %s | %s | %d | %d |\n", s.Name, s.Presence, s.WordCount, s.Citations)
		}
		b.WriteString("\n")
	}

	if len(report.Citations) > 0 {
		b.WriteString("## Citations\n\n")
		for _, c := range report.Citations {
			status := string(c.Reachable)
			if c.StatusCode != 0 {
				status = fmt.Sprintf("%s (HTTP %d)", c.Reachable, c.StatusCode)
			}
			fmt.Fprintf(&b, "- [%s] %s — %s\n", status, c.URL, c.Section)
		}
		b.WriteString("\n")
	}

	if len(report.Claims) > 0 {
		b.WriteString("## Claims\n\n")
		for _, c := range report.Claims {
			fmt.Fprintf(&b, "- **%s**", c.Verdict)
			if c.Confidence != "" {
				fmt.Fprintf(&b, " (%s confidence)", c.Confidence)
			}
			fmt.Fprintf(&b, ": %s\n", c.Text)
			if c.Evidence != "" {
				fmt.Fprintf(&b, "  - evidence: %q (%s)\n", c.Evidence, c.EvidenceURL)
			}
		}
		b.WriteString("\n")
	}

	if len(report.MissingKeywords) > 0 {
		fmt.Fprintf(&b, "## Missing Keywords\n\n%s\n\n", strings.Join(report.MissingKeywords, ", "))
	}

	if len(report.UnusedSources) > 0 {
		b.WriteString("## Unused Sources\n\n")
		for _, u := range report.UnusedSources {
			fmt.Fprintf(&b, "- %s\n", u)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Total draft length: %d words.\n", report.WordCount)

	if r.includeFooter {
		b.WriteString("\n---\n_Generated by Veridraft. Scores measure verifiable support, not truth._\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// RenderSummary prints a short scoreboard to stdout
func (r *Renderer) RenderSummary(report *model.Report) {
	counts := model.CountBySeverity(report.Issues)

	fmt.Println()
	fmt.Printf("  Status:             %s\n", statusLabel(report.Status))
	fmt.Printf("  Overall score:      %d/100\n", report.OverallScore)
	fmt.Printf("  Citations:          %d\n", report.CitationScore)
	fmt.Printf("  Completeness:       %d\n", report.CompletenessScore)
	fmt.Printf("  Fact accuracy:      %d\n", report.FactAccuracyScore)
	fmt.Printf("  Content quality:    %d\n", report.ContentQualityScore)
	fmt.Printf("  Source utilization: %d\n", report.SourceUtilizationScore)
	fmt.Printf("  Issues:             %d critical, %d major, %d minor\n",
		counts[model.SeverityCritical], counts[model.SeverityMajor], counts[model.SeverityMinor])
	fmt.Println()
}

func statusLabel(status model.Status) string {
	switch status {
	case model.StatusValid:
		return "VALID"
	case model.StatusInvalid:
		return "INVALID"
	default:
		return "NEEDS REVISION"
	}
}
