package model

import (
	"fmt"
	"strings"
)

// Request is the input contract for one verification run. Draft and
// Query are required; Claims and Sources are optional.
type Request struct {
	Draft   string         `json:"draft" yaml:"draft"`
	Query   string         `json:"query" yaml:"query"`
	Claims  []string       `json:"claims,omitempty" yaml:"claims,omitempty"`
	Sources []SourceRecord `json:"sources,omitempty" yaml:"sources,omitempty"`
}

// Validate fails fast on unusable input; no partial report is produced
// for an empty draft or query.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Draft) == "" {
		return fmt.Errorf("draft is empty")
	}
	if strings.TrimSpace(r.Query) == "" {
		return fmt.Errorf("research query is empty")
	}
	return nil
}
