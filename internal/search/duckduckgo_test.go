package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/veridraft/veridraft/internal/cache"
)

const resultsPage = `<!DOCTYPE html>
<html><body>
<div class="results">
  <div class="result">
    <h2 class="result__title">
      <a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Ffunding&amp;rut=abc">Acme announces funding</a>
    </h2>
    <a class="result__snippet" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Ffunding">Acme raised <b>$50 million</b> in 2023.</a>
  </div>
  <div class="result">
    <h2 class="result__title">
      <a class="result__a" href="https://example.com/direct">Direct link result</a>
    </h2>
    <a class="result__snippet" href="https://example.com/direct">A result whose href is not wrapped.</a>
  </div>
</div>
</body></html>`

func TestDuckDuckGo_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "acme funding 2023" {
			t.Errorf("Expected query forwarded, got %q", got)
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(resultsPage))
	}))
	defer server.Close()

	client := NewDuckDuckGo(server.URL, "veridraft-test", 5*time.Second, nil, "", "", "")
	results, err := client.Search(context.Background(), "acme funding 2023")

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}

	first := results[0]
	if first.Title != "Acme announces funding" {
		t.Errorf("Expected title parsed, got %q", first.Title)
	}
	if first.URL != "https://example.com/funding" {
		t.Errorf("Expected redirect unwrapped, got %q", first.URL)
	}
	if first.Snippet != "Acme raised $50 million in 2023." {
		t.Errorf("Expected snippet text flattened, got %q", first.Snippet)
	}

	if results[1].URL != "https://example.com/direct" {
		t.Errorf("Expected direct href kept, got %q", results[1].URL)
	}
}

func TestDuckDuckGo_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewDuckDuckGo(server.URL, "veridraft-test", 5*time.Second, nil, "", "", "")
	_, err := client.Search(context.Background(), "anything")

	if err == nil {
		t.Fatal("Expected error for 429 response")
	}
}

func TestDuckDuckGo_EmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>No results.</body></html>"))
	}))
	defer server.Close()

	client := NewDuckDuckGo(server.URL, "veridraft-test", 5*time.Second, nil, "", "", "")
	results, err := client.Search(context.Background(), "anything")

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected no results, got %d", len(results))
	}
}

func TestCleanResultURL(t *testing.T) {
	tests := []struct {
		desc string
		href string
		want string
	}{
		{
			"uddg redirect",
			"//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fpage&rut=x",
			"https://example.com/page",
		},
		{
			"direct absolute",
			"https://example.com/page",
			"https://example.com/page",
		},
		{
			"protocol-relative",
			"//example.com/page",
			"https://example.com/page",
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := cleanResultURL(tt.href); got != tt.want {
				t.Errorf("cleanResultURL(%q) = %q, want %q", tt.href, got, tt.want)
			}
		})
	}
}

// countingProvider wraps canned results with a call counter
type countingProvider struct {
	calls   atomic.Int32
	results []Result
	err     error
}

func (p *countingProvider) Name() string { return "counting" }

func (p *countingProvider) Search(ctx context.Context, query string) ([]Result, error) {
	p.calls.Add(1)
	if p.err != nil {
		return nil, p.err
	}
	return p.results, nil
}

func TestCachedProvider_ServesFromCache(t *testing.T) {
	inner := &countingProvider{results: []Result{{Title: "t", URL: "https://example.com", Snippet: "s"}}}
	provider := NewCachedProvider(inner, cache.NewMemoryCache(time.Hour, time.Hour), time.Hour)

	first, err := provider.Search(context.Background(), "query")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	second, err := provider.Search(context.Background(), "query")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if inner.calls.Load() != 1 {
		t.Errorf("Expected 1 inner call, got %d", inner.calls.Load())
	}
	if len(first) != 1 || len(second) != 1 || first[0].URL != second[0].URL {
		t.Error("Expected identical results from cache")
	}
}

func TestCachedProvider_DistinctQueriesDistinctEntries(t *testing.T) {
	inner := &countingProvider{results: []Result{{Title: "t"}}}
	provider := NewCachedProvider(inner, cache.NewMemoryCache(time.Hour, time.Hour), time.Hour)

	_, _ = provider.Search(context.Background(), "query one")
	_, _ = provider.Search(context.Background(), "query two")

	if inner.calls.Load() != 2 {
		t.Errorf("Expected 2 inner calls for distinct queries, got %d", inner.calls.Load())
	}
}

func TestCachedProvider_ErrorsNotCached(t *testing.T) {
	inner := &countingProvider{err: errors.New("unavailable")}
	provider := NewCachedProvider(inner, cache.NewMemoryCache(time.Hour, time.Hour), time.Hour)

	if _, err := provider.Search(context.Background(), "query"); err == nil {
		t.Fatal("Expected error passed through")
	}
	if _, err := provider.Search(context.Background(), "query"); err == nil {
		t.Fatal("Expected error on second call too")
	}

	if inner.calls.Load() != 2 {
		t.Errorf("Expected both calls to reach the inner provider, got %d", inner.calls.Load())
	}
}
