package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/veridraft/veridraft/internal/util"
	"github.com/veridraft/veridraft/internal/worker"
)

const maxResults = 10

// DuckDuckGo queries the HTML (non-JS) endpoint and parses the result
// list. No API key required.
type DuckDuckGo struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *worker.Limiter
	maxBytes   int64
}

// NewDuckDuckGo creates a search client against the HTML endpoint
func NewDuckDuckGo(baseURL, userAgent string, timeout time.Duration, limiter *worker.Limiter, httpProxy, httpsProxy, noProxy string) *DuckDuckGo {
	if baseURL == "" {
		baseURL = "https://html.duckduckgo.com/html/"
	}

	return &DuckDuckGo{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(httpProxy, httpsProxy, noProxy),
			},
		},
		baseURL:   baseURL,
		userAgent: userAgent,
		limiter:   limiter,
		maxBytes:  2_000_000,
	}
}

// Name returns the provider name
func (d *DuckDuckGo) Name() string {
	return "duckduckgo"
}

// Search fetches and parses one result page for the query
func (d *DuckDuckGo) Search(ctx context.Context, query string) ([]Result, error) {
	if d.limiter != nil {
		if err := d.limiter.Wait(ctx, d.baseURL); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	reqURL := d.baseURL + "?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, d.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return parseResults(string(body))
}

// parseResults walks the result page for result__a title links and
// result__snippet blocks.
func parseResults(htmlContent string) ([]Result, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}

	var results []Result
	var current *Result

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			class := attr(n, "class")
			switch {
			case strings.Contains(class, "result__a"):
				if current != nil && current.URL != "" {
					results = append(results, *current)
				}
				current = &Result{
					Title: nodeText(n),
					URL:   cleanResultURL(attr(n, "href")),
				}
			case strings.Contains(class, "result__snippet"):
				if current != nil {
					current.Snippet = nodeText(n)
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if current != nil && current.URL != "" {
		results = append(results, *current)
	}

	if len(results) > maxResults {
		results = results[:maxResults]
	}

	return results, nil
}

// cleanResultURL unwraps the redirect links the HTML endpoint uses
// (/l/?uddg=<encoded>).
func cleanResultURL(href string) string {
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}

	if uddg := parsed.Query().Get("uddg"); uddg != "" {
		if target, err := url.QueryUnescape(uddg); err == nil {
			return target
		}
	}

	if parsed.Scheme == "" {
		return "https:" + href
	}

	return href
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	return strings.Join(strings.Fields(buf.String()), " ")
}
