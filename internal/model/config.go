package model

import "time"

// Config holds the complete engine configuration
type Config struct {
	HTTP        HTTPConfig        `json:"http" yaml:"http" mapstructure:"http"`
	Search      SearchConfig      `json:"search" yaml:"search" mapstructure:"search"`
	Concurrency ConcurrencyConfig `json:"concurrency" yaml:"concurrency" mapstructure:"concurrency"`
	RateLimit   RateLimitConfig   `json:"rate_limit" yaml:"rate_limit" mapstructure:"rate_limit"`
	Limits      LimitsConfig      `json:"limits" yaml:"limits" mapstructure:"limits"`
	Cache       CacheConfig       `json:"cache" yaml:"cache" mapstructure:"cache"`
	Output      OutputConfig      `json:"output" yaml:"output" mapstructure:"output"`
	Weights     Weights           `json:"weights" yaml:"weights" mapstructure:"weights"`
	LLM         LLMConfig         `json:"llm" yaml:"llm" mapstructure:"llm"`
}

// HTTPConfig controls outbound HTTP for reachability probes
type HTTPConfig struct {
	Timeout      time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`                   // Per-request timeout
	UserAgent    string        `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
	MaxRedirects int           `json:"max_redirects" yaml:"max_redirects" mapstructure:"max_redirects"`
	InsecureTLS  bool          `json:"insecure_tls" yaml:"insecure_tls" mapstructure:"insecure_tls"`
	RespectRobots bool         `json:"respect_robots" yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy    string        `json:"http_proxy,omitempty" yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy   string        `json:"https_proxy,omitempty" yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy      string        `json:"no_proxy,omitempty" yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// SearchConfig controls the external search capability used for fact checking
type SearchConfig struct {
	BaseURL  string        `json:"base_url" yaml:"base_url" mapstructure:"base_url"` // Search endpoint (default DuckDuckGo HTML)
	Timeout  time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
	MaxCalls int           `json:"max_calls" yaml:"max_calls" mapstructure:"max_calls"` // Hard cap per verification run
}

// ConcurrencyConfig bounds parallel work inside a run
type ConcurrencyConfig struct {
	ProbeWorkers  int `json:"probe_workers" yaml:"probe_workers" mapstructure:"probe_workers"`    // Simultaneous reachability probes
	SearchWorkers int `json:"search_workers" yaml:"search_workers" mapstructure:"search_workers"` // Simultaneous search calls
	BatchWorkers  int `json:"batch_workers" yaml:"batch_workers" mapstructure:"batch_workers"`    // Concurrent drafts in batch mode
}

// RateLimitConfig controls per-domain request pacing
type RateLimitConfig struct {
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `json:"burst" yaml:"burst" mapstructure:"burst"`
}

// LimitsConfig bounds the overall run
type LimitsConfig struct {
	RunTimeout time.Duration `json:"run_timeout" yaml:"run_timeout" mapstructure:"run_timeout"` // Aggregate deadline for a verification run
	MaxClaims  int           `json:"max_claims" yaml:"max_claims" mapstructure:"max_claims"`    // Claims checked per run
}

// CacheConfig controls the layered probe/search result cache
type CacheConfig struct {
	Enabled bool          `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Dir     string        `json:"dir" yaml:"dir" mapstructure:"dir"`
	TTL     time.Duration `json:"ttl" yaml:"ttl" mapstructure:"ttl"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `json:"verbose" yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `json:"include_footer" yaml:"include_footer" mapstructure:"include_footer"`
}

// LLMConfig configures the optional model-backed claim judge.
// Disabled by default; the deterministic heuristic judge is used
// unless a provider is set.
type LLMConfig struct {
	Provider  string `json:"provider,omitempty" yaml:"provider,omitempty" mapstructure:"provider"` // "openai" or "" (disabled)
	Model     string `json:"model,omitempty" yaml:"model,omitempty" mapstructure:"model"`
	APIKey    string `json:"-" yaml:"-" mapstructure:"api_key"`
	BaseURL   string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty" mapstructure:"timeout"`
	MaxTokens int    `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty" mapstructure:"max_tokens"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:       5 * time.Second,
			UserAgent:     "Veridraft/0.1 (+https://github.com/veridraft/veridraft)",
			MaxRedirects:  5,
			RespectRobots: true,
		},
		Search: SearchConfig{
			BaseURL:  "https://html.duckduckgo.com/html/",
			Timeout:  10 * time.Second,
			MaxCalls: 5,
		},
		Concurrency: ConcurrencyConfig{
			ProbeWorkers:  10,
			SearchWorkers: 3,
			BatchWorkers:  4,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 4,
			Burst:             5,
		},
		Limits: LimitsConfig{
			RunTimeout: 30 * time.Second,
			MaxClaims:  5,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     "",
			TTL:     time.Hour,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
		Weights: DefaultWeights(),
		LLM: LLMConfig{
			Timeout:   30 * time.Second,
			MaxTokens: 256,
		},
	}
}
