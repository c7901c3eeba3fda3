package quality

import (
	"fmt"
	"strings"
	"testing"

	"github.com/veridraft/veridraft/internal/markdown"
	"github.com/veridraft/veridraft/internal/model"
)

// buildDraft assembles a draft with the given sections, each padded to
// its word count.
func buildDraft(sections map[string]int, withTable bool, refLinks int) string {
	order := []string{
		"Executive Summary", "Introduction", "Literature Review",
		"Comparative Analysis", "Future Directions", "Conclusion",
	}

	var b strings.Builder
	for _, name := range order {
		words, ok := sections[name]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "# %s\n\n", name)
		for i := 0; i < words; i++ {
			b.WriteString("word ")
		}
		b.WriteString("\n\n")
		if withTable && name == "Comparative Analysis" {
			b.WriteString("| A | B |\n|---|---|\n| 1 | 2 |\n\n")
		}
	}

	if refLinks > 0 {
		b.WriteString("# References\n\n")
		for i := 0; i < refLinks; i++ {
			fmt.Fprintf(&b, "- [Paper %d](https://example.com/p%d)\n", i, i)
		}
	}

	return b.String()
}

func fullSections() map[string]int {
	return map[string]int{
		"Executive Summary":    150,
		"Introduction":         300,
		"Literature Review":    500,
		"Comparative Analysis": 600,
		"Future Directions":    250,
		"Conclusion":           200,
	}
}

func TestAssessor_AllSectionsMeeting(t *testing.T) {
	doc := markdown.Parse(buildDraft(fullSections(), true, 5))

	result := NewAssessor().Assess(doc)

	if result.StructureScore != 100 {
		t.Errorf("Expected structure 100, got %d", result.StructureScore)
	}
	if result.DepthScore != 100 {
		t.Errorf("Expected depth 100, got %d", result.DepthScore)
	}
	if result.TableScore != 100 {
		t.Errorf("Expected table score 100, got %d", result.TableScore)
	}
	if result.Score != 100 {
		t.Errorf("Expected overall 100, got %d", result.Score)
	}
	if !result.AllPresent || result.AnyMissing {
		t.Errorf("Expected AllPresent without AnyMissing, got %v/%v", result.AllPresent, result.AnyMissing)
	}
	if len(result.Issues) != 0 {
		t.Errorf("Expected no issues, got %v", result.Issues)
	}
}

func TestAssessor_MissingSectionIsMajor(t *testing.T) {
	sections := fullSections()
	delete(sections, "Future Directions")
	doc := markdown.Parse(buildDraft(sections, true, 5))

	result := NewAssessor().Assess(doc)

	if !result.AnyMissing {
		t.Error("Expected AnyMissing for absent Future Directions")
	}
	if result.AllPresent {
		t.Error("Expected AllPresent false")
	}

	// 6 of 7 requirements found
	if result.StructureScore != 86 {
		t.Errorf("Expected structure 86, got %d", result.StructureScore)
	}

	found := false
	for _, issue := range result.Issues {
		if issue.Severity == model.SeverityMajor && strings.Contains(issue.Description, "Future Directions") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected major issue naming Future Directions, got %v", result.Issues)
	}
}

func TestAssessor_ShortSectionIsMinor(t *testing.T) {
	sections := fullSections()
	sections["Conclusion"] = 50 // Below the 200-word floor
	doc := markdown.Parse(buildDraft(sections, true, 5))

	result := NewAssessor().Assess(doc)

	if result.AnyMissing {
		t.Error("Expected no missing sections")
	}
	if result.AllPresent {
		t.Error("Expected AllPresent false when a section is short")
	}

	// Short counts toward structure but not depth
	if result.StructureScore != 100 {
		t.Errorf("Expected structure 100, got %d", result.StructureScore)
	}
	if result.DepthScore != 86 {
		t.Errorf("Expected depth 86, got %d", result.DepthScore)
	}

	var short *model.SectionResult
	for i := range result.Sections {
		if result.Sections[i].Name == "Conclusion" {
			short = &result.Sections[i]
		}
	}
	if short == nil || short.Presence != model.SectionShort {
		t.Fatalf("Expected Conclusion marked short, got %+v", short)
	}

	counts := model.CountBySeverity(result.Issues)
	if counts[model.SeverityMinor] != 1 {
		t.Errorf("Expected 1 minor issue, got %d", counts[model.SeverityMinor])
	}
}

func TestAssessor_ReferencesMeasuredByCitations(t *testing.T) {
	// Plenty of words but only 2 reference links: still short
	doc := markdown.Parse(buildDraft(fullSections(), true, 2))

	result := NewAssessor().Assess(doc)

	var refs *model.SectionResult
	for i := range result.Sections {
		if result.Sections[i].Name == "References" {
			refs = &result.Sections[i]
		}
	}
	if refs == nil {
		t.Fatal("Expected References section result")
	}
	if refs.Presence != model.SectionShort {
		t.Errorf("Expected References short with 2 citations, got %v", refs.Presence)
	}
	if refs.Citations != 2 {
		t.Errorf("Expected 2 citations counted, got %d", refs.Citations)
	}
}

func TestAssessor_NoTablesIsMajor(t *testing.T) {
	doc := markdown.Parse(buildDraft(fullSections(), false, 5))

	result := NewAssessor().Assess(doc)

	if result.TableScore != 0 {
		t.Errorf("Expected table score 0, got %d", result.TableScore)
	}

	found := false
	for _, issue := range result.Issues {
		if issue.Severity == model.SeverityMajor && strings.Contains(issue.Description, "no tables") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected major no-tables issue, got %v", result.Issues)
	}

	// (100 + 100 + 0) / 3
	if result.Score != 67 {
		t.Errorf("Expected overall 67, got %d", result.Score)
	}
}

func TestAssessor_EmptyDraft(t *testing.T) {
	result := NewAssessor().Assess(markdown.Parse(""))

	if result.Score != 0 {
		t.Errorf("Expected score 0 for empty draft, got %d", result.Score)
	}
	if !result.AnyMissing {
		t.Error("Expected AnyMissing for empty draft")
	}
	if len(result.Sections) != 7 {
		t.Errorf("Expected all 7 requirements reported, got %d", len(result.Sections))
	}
}

func TestMatchHeading(t *testing.T) {
	req := Requirement{Name: "Literature Review", Aliases: []string{"related work", "prior work"}}

	tests := []struct {
		desc    string
		heading string
		match   bool
	}{
		{"exact", "Literature Review", true},
		{"case and numbering", "2. literature review", true},
		{"substring", "Literature Review and Context", true},
		{"alias", "Related Work", true},
		{"unrelated", "Methodology", false},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			sections := []model.Section{{Heading: tt.heading, WordCount: 10}}
			section, ok := MatchHeading(req, sections)
			if ok != tt.match {
				t.Fatalf("MatchHeading(%q) = %v, want %v", tt.heading, ok, tt.match)
			}
			if ok && section.Heading != tt.heading {
				t.Errorf("Expected matched section returned, got %q", section.Heading)
			}
		})
	}
}

func TestNormalizeHeading(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2. Literature Review", "literature review"},
		{"3) Conclusion", "conclusion"},
		{"  Introduction  ", "introduction"},
		{"- Future Directions", "future directions"},
	}

	for _, tt := range tests {
		if got := normalizeHeading(tt.in); got != tt.want {
			t.Errorf("normalizeHeading(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
