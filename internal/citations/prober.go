package citations

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/veridraft/veridraft/internal/cache"
	"github.com/veridraft/veridraft/internal/model"
	"github.com/veridraft/veridraft/internal/util"
	"github.com/veridraft/veridraft/internal/worker"
)

// One retry with backoff, then the soft-fail classification stands.
const probeMaxAttempts = 2

// probeSleepFunc is the sleep used between retries (injectable for tests)
var probeSleepFunc = time.Sleep

// ProbeResult is the terminal classification of one URL
type ProbeResult struct {
	URL        string             `json:"url"`
	Reachable  model.Reachability `json:"reachable"`
	StatusCode int                `json:"status_code,omitempty"`
	Error      string             `json:"error,omitempty"`
}

// Prober checks URL reachability concurrently: HEAD first, falling
// back to a ranged GET when HEAD is unsupported.
type Prober struct {
	httpClient *http.Client
	userAgent  string
	maxWorkers int
	limiter    *worker.Limiter
	robots     *util.RobotsChecker
	cache      cache.Cache
	cacheTTL   time.Duration
}

// NewProber creates a reachability prober from the HTTP configuration.
// limiter, robots, and resultCache may be nil to disable pacing,
// robots gating, and caching respectively.
func NewProber(cfg model.HTTPConfig, limiter *worker.Limiter, robots *util.RobotsChecker, resultCache cache.Cache, cacheTTL time.Duration, maxWorkers int) *Prober {
	if maxWorkers <= 0 {
		maxWorkers = 10
	}
	maxRedirects := cfg.MaxRedirects
	if maxRedirects <= 0 {
		maxRedirects = 5
	}

	transport := &http.Transport{
		Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
	}
	if cfg.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Prober{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		userAgent:  cfg.UserAgent,
		maxWorkers: maxWorkers,
		limiter:    limiter,
		robots:     robots,
		cache:      resultCache,
		cacheTTL:   cacheTTL,
	}
}

// Probe checks all URLs concurrently under the worker cap and returns
// a result per input URL. Cancellation resolves unprobed URLs to the
// unknown classification rather than blocking.
func (p *Prober) Probe(ctx context.Context, urls []string) map[string]ProbeResult {
	results := make([]ProbeResult, len(urls))
	var wg sync.WaitGroup

	semaphore := make(chan struct{}, p.maxWorkers)

	for i, u := range urls {
		wg.Add(1)
		go func(idx int, rawURL string) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[idx] = ProbeResult{
					URL:       rawURL,
					Reachable: model.ReachableUnknown,
					Error:     "verification deadline exceeded",
				}
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			results[idx] = p.probeWithRetry(ctx, rawURL)
		}(i, u)
	}

	wg.Wait()

	byURL := make(map[string]ProbeResult, len(results))
	for _, r := range results {
		byURL[r.URL] = r
	}
	return byURL
}

// probeWithRetry retries transient failures once with backoff
func (p *Prober) probeWithRetry(ctx context.Context, rawURL string) ProbeResult {
	if cached, ok := p.cachedResult(rawURL); ok {
		return cached
	}

	var result ProbeResult
	for attempt := 0; attempt < probeMaxAttempts; attempt++ {
		result = p.probeSingle(ctx, rawURL)
		if !isRetryableProbe(result) || ctx.Err() != nil {
			break
		}
		if attempt < probeMaxAttempts-1 {
			probeSleepFunc(time.Duration(1<<uint(attempt)) * time.Second)
		}
	}

	p.storeResult(result)
	return result
}

// probeSingle issues one HEAD (or ranged GET fallback) and classifies
// the outcome: 2xx/3xx valid, 4xx/5xx broken, anything else unknown.
func (p *Prober) probeSingle(ctx context.Context, rawURL string) ProbeResult {
	result := ProbeResult{URL: rawURL, Reachable: model.ReachableUnknown}

	if p.robots != nil && !p.robots.Allowed(ctx, rawURL) {
		result.Error = "robots.txt disallows probing"
		return result
	}

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx, rawURL); err != nil {
			result.Error = fmt.Sprintf("rate limit: %v", err)
			return result
		}
	}

	status, err := p.request(ctx, http.MethodHead, rawURL)
	if err != nil {
		result.Error = fmt.Sprintf("request failed: %v", err)
		return result
	}

	// Some servers reject HEAD outright; retry the same URL with a
	// one-byte ranged GET before classifying.
	if status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented {
		status, err = p.request(ctx, http.MethodGet, rawURL)
		if err != nil {
			result.Error = fmt.Sprintf("request failed: %v", err)
			return result
		}
	}

	result.StatusCode = status
	switch {
	case status >= 200 && status < 400:
		result.Reachable = model.ReachableValid
	default:
		result.Reachable = model.ReachableBroken
	}

	return result
}

func (p *Prober) request(ctx context.Context, method, rawURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)
	if method == http.MethodGet {
		req.Header.Set("Range", "bytes=0-0")
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode, nil
}

func (p *Prober) cachedResult(rawURL string) (ProbeResult, bool) {
	if p.cache == nil {
		return ProbeResult{}, false
	}

	data, found := p.cache.Get(cache.Key("probe", model.NormalizeURL(rawURL)))
	if !found {
		return ProbeResult{}, false
	}

	var result ProbeResult
	if err := json.Unmarshal(data, &result); err != nil {
		return ProbeResult{}, false
	}
	result.URL = rawURL
	return result, true
}

func (p *Prober) storeResult(result ProbeResult) {
	// Unknown outcomes are transient; caching them would pin a soft
	// fail past the condition that caused it.
	if p.cache == nil || result.Reachable == model.ReachableUnknown {
		return
	}

	if data, err := json.Marshal(result); err == nil {
		_ = p.cache.Set(cache.Key("probe", model.NormalizeURL(result.URL)), data, p.cacheTTL)
	}
}

// isRetryableProbe is true for transient failures worth one retry
func isRetryableProbe(result ProbeResult) bool {
	if result.StatusCode == http.StatusTooManyRequests {
		return true
	}
	if result.StatusCode >= 500 && result.StatusCode < 600 {
		return true
	}
	if result.Error != "" {
		s := strings.ToLower(result.Error)
		return strings.Contains(s, "timeout") ||
			strings.Contains(s, "connection refused") ||
			strings.Contains(s, "connection reset")
	}
	return false
}
