package citations

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/veridraft/veridraft/internal/markdown"
	"github.com/veridraft/veridraft/internal/model"
)

func TestChecker_NoCitations(t *testing.T) {
	doc := markdown.Parse("# Introduction\n\nNo links here at all.\n")

	checker := NewChecker(newTestProber(nil), nil)
	result := checker.Check(context.Background(), doc)

	if result.Score != 0 {
		t.Errorf("Expected score 0 for no citations, got %d", result.Score)
	}
	if len(result.Issues) != 1 {
		t.Fatalf("Expected 1 issue, got %d", len(result.Issues))
	}
	if result.Issues[0].Severity != model.SeverityCritical {
		t.Errorf("Expected critical issue, got %v", result.Issues[0].Severity)
	}
}

func TestChecker_MixedReachability(t *testing.T) {
	// /ok-* resolve, /gone-* break
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/gone") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	var b strings.Builder
	b.WriteString("# Literature Review\n\n")
	for i := 0; i < 8; i++ {
		fmt.Fprintf(&b, "[ok %d](%s/ok-%d)\n", i, server.URL, i)
	}
	for i := 0; i < 2; i++ {
		fmt.Fprintf(&b, "[gone %d](%s/gone-%d)\n", i, server.URL, i)
	}

	checker := NewChecker(newTestProber(nil), nil)
	result := checker.Check(context.Background(), markdown.Parse(b.String()))

	if result.Unique != 10 {
		t.Fatalf("Expected 10 unique URLs, got %d", result.Unique)
	}
	if result.Valid != 8 || result.Broken != 2 {
		t.Errorf("Expected 8 valid / 2 broken, got %d / %d", result.Valid, result.Broken)
	}
	if result.Score != 80 {
		t.Errorf("Expected score 80, got %d", result.Score)
	}

	majors := model.CountBySeverity(result.Issues)[model.SeverityMajor]
	if majors < 2 {
		t.Errorf("Expected at least 2 major issues for broken citations, got %d", majors)
	}
}

func TestChecker_DuplicatesScoredOnce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	draft := fmt.Sprintf("# Review\n\n[a](%s/paper) and again [b](%s/paper/) and [c](%s/paper#s1)\n",
		server.URL, server.URL, server.URL)

	checker := NewChecker(newTestProber(nil), nil)
	result := checker.Check(context.Background(), markdown.Parse(draft))

	if result.Unique != 1 {
		t.Errorf("Expected 1 unique URL after normalization, got %d", result.Unique)
	}
	if len(result.Citations) != 3 {
		t.Errorf("Expected all 3 occurrences kept, got %d", len(result.Citations))
	}
	if result.Score != 100 {
		t.Errorf("Expected score 100, got %d", result.Score)
	}

	// Every occurrence resolves through the shared probe
	for i, c := range result.Citations {
		if c.Reachable != model.ReachableValid {
			t.Errorf("Citation %d: expected valid, got %v", i, c.Reachable)
		}
	}
}

func TestChecker_UnknownIsMinor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := server.URL
	server.Close()

	draft := fmt.Sprintf("# Review\n\n[dead](%s/x)\n", deadURL)

	checker := NewChecker(newTestProber(nil), nil)
	result := checker.Check(context.Background(), markdown.Parse(draft))

	if result.Unknown != 1 {
		t.Fatalf("Expected 1 unknown, got %d", result.Unknown)
	}
	if result.Score != 0 {
		t.Errorf("Expected score 0 (unknown is not valid), got %d", result.Score)
	}

	counts := model.CountBySeverity(result.Issues)
	if counts[model.SeverityMinor] != 1 {
		t.Errorf("Expected 1 minor issue for unknown citation, got %d", counts[model.SeverityMinor])
	}
	if counts[model.SeverityMajor] != 0 {
		t.Errorf("Expected no major issues, got %d", counts[model.SeverityMajor])
	}
}

func TestChecker_SectionWithoutCitationsFlagged(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	// Literature Review cites, Introduction does not
	draft := fmt.Sprintf(`# Introduction

Opening prose with no citations at all.

# Literature Review

[source](%s/a)
`, server.URL)

	checker := NewChecker(newTestProber(nil), nil)
	result := checker.Check(context.Background(), markdown.Parse(draft))

	found := false
	for _, issue := range result.Issues {
		if issue.Severity == model.SeverityMajor && strings.Contains(issue.Description, `missing citations in section "Introduction"`) {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected missing-citations issue for Introduction, got %v", result.Issues)
	}
}
