package search

import "context"

// Result is a single search hit used for claim corroboration
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Provider is the external search capability. It is a black box with
// no latency guarantee beyond the call's own timeout; callers own the
// call budget and retry policy.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Search returns an ordered list of results for a short query
	Search(ctx context.Context, query string) ([]Result, error)
}
