package model

// Issue is a defect surfaced by any checker. Issues are collected,
// never mutated, and never deduplicated across checkers: the same
// defect may legitimately surface from two angles.
type Issue struct {
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	Location    string   `json:"location,omitempty"` // Section heading, URL, or claim text
}

// Severity indicates the importance of an issue
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityMinor    Severity = "minor"
)

// CountBySeverity tallies issues per severity level
func CountBySeverity(issues []Issue) map[Severity]int {
	counts := make(map[Severity]int)
	for _, issue := range issues {
		counts[issue.Severity]++
	}
	return counts
}
