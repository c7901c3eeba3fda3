package model

import (
	"net/url"
	"strings"
)

// Citation represents a Markdown-style [title](url) reference inside the draft
type Citation struct {
	RawText    string       `json:"raw_text"`              // Link title as written in the draft
	URL        string       `json:"url"`                   // Full URL
	Section    string       `json:"section,omitempty"`     // Heading of the section the citation appears in
	Reachable  Reachability `json:"reachable"`             // Result of the reachability probe
	StatusCode int          `json:"status_code,omitempty"` // HTTP status, when a response was received
}

// Reachability classifies the outcome of a reachability probe
type Reachability string

const (
	ReachableValid   Reachability = "valid"   // HTTP 2xx/3xx
	ReachableBroken  Reachability = "broken"  // HTTP 4xx/5xx (hard fail)
	ReachableUnknown Reachability = "unknown" // Transport error, timeout, or robots-disallowed (soft fail)
)

// SourceRecord is a source gathered during research, supplied by the caller
type SourceRecord struct {
	URL   string `json:"url" yaml:"url"`
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
}

// NormalizeURL produces the deduplication key for a URL: lowercased
// scheme and host, trailing slash stripped. Repeated citations of the
// same normalized URL count once for scoring.
func NormalizeURL(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return strings.TrimRight(strings.TrimSpace(rawURL), "/")
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.ToLower(parsed.Host)
	parsed.Path = strings.TrimRight(parsed.Path, "/")
	parsed.Fragment = ""

	return parsed.String()
}
