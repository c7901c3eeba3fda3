package model

import (
	"strings"
	"testing"
)

func TestDefaultWeights_Valid(t *testing.T) {
	if err := DefaultWeights().Validate(); err != nil {
		t.Errorf("Expected default weights valid, got %v", err)
	}
}

func TestWeights_Validate(t *testing.T) {
	tests := []struct {
		desc    string
		weights Weights
		wantErr string
	}{
		{
			"sum below one",
			Weights{Citation: 0.1, Completeness: 0.1, FactAccuracy: 0.1, ContentQuality: 0.1, SourceUtilization: 0.1},
			"sum to 1.0",
		},
		{
			"negative weight",
			Weights{Citation: -0.1, Completeness: 0.2, FactAccuracy: 0.4, ContentQuality: 0.3, SourceUtilization: 0.2},
			"negative",
		},
		{
			"valid alternative",
			Weights{Citation: 0.2, Completeness: 0.2, FactAccuracy: 0.2, ContentQuality: 0.2, SourceUtilization: 0.2},
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			err := tt.weights.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected valid, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestWeights_Overall(t *testing.T) {
	w := DefaultWeights()

	tests := []struct {
		desc                                                     string
		citation, completeness, fact, quality, utilization, want int
	}{
		{"all perfect", 100, 100, 100, 100, 100, 100},
		{"all zero", 0, 0, 0, 0, 0, 0},
		// 0.15*80 + 0.10*90 + 0.35*70 + 0.25*85 + 0.15*60 = 75.75 -> 76
		{"mixed", 80, 90, 70, 85, 60, 76},
		// Fact accuracy dominates: 0.35*100 = 35
		{"only facts", 0, 0, 100, 0, 0, 35},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got := w.Overall(tt.citation, tt.completeness, tt.fact, tt.quality, tt.utilization)
			if got != tt.want {
				t.Errorf("Overall = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestClampScore(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-5, 0},
		{0, 0},
		{55, 55},
		{100, 100},
		{140, 100},
	}

	for _, tt := range tests {
		if got := ClampScore(tt.in); got != tt.want {
			t.Errorf("ClampScore(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		desc string
		in   string
		want string
	}{
		{"lowercases host", "https://Example.COM/Path", "https://example.com/Path"},
		{"strips trailing slash", "https://example.com/path/", "https://example.com/path"},
		{"strips fragment", "https://example.com/path#section", "https://example.com/path"},
		{"keeps query", "https://example.com/path?page=2", "https://example.com/path?page=2"},
		{"keeps case of path", "https://example.com/CaseSensitive", "https://example.com/CaseSensitive"},
		{"trims whitespace", "  https://example.com/a  ", "https://example.com/a"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := NormalizeURL(tt.in); got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRequest_Validate(t *testing.T) {
	valid := Request{Draft: "# Draft", Query: "topic"}
	if err := valid.Validate(); err != nil {
		t.Errorf("Expected valid request, got %v", err)
	}

	if err := (Request{Query: "topic"}).Validate(); err == nil {
		t.Error("Expected error for empty draft")
	}
	if err := (Request{Draft: "# Draft"}).Validate(); err == nil {
		t.Error("Expected error for empty query")
	}
	if err := (Request{Draft: "   \n", Query: "topic"}).Validate(); err == nil {
		t.Error("Expected error for whitespace-only draft")
	}
}

func TestCountBySeverity(t *testing.T) {
	issues := []Issue{
		{Severity: SeverityCritical},
		{Severity: SeverityMajor},
		{Severity: SeverityMajor},
		{Severity: SeverityMinor},
	}

	counts := CountBySeverity(issues)

	if counts[SeverityCritical] != 1 || counts[SeverityMajor] != 2 || counts[SeverityMinor] != 1 {
		t.Errorf("Unexpected counts: %v", counts)
	}
}
