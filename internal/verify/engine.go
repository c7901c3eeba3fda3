package verify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/veridraft/veridraft/internal/cache"
	"github.com/veridraft/veridraft/internal/citations"
	"github.com/veridraft/veridraft/internal/claims"
	"github.com/veridraft/veridraft/internal/completeness"
	"github.com/veridraft/veridraft/internal/crossref"
	"github.com/veridraft/veridraft/internal/markdown"
	"github.com/veridraft/veridraft/internal/model"
	"github.com/veridraft/veridraft/internal/quality"
	"github.com/veridraft/veridraft/internal/search"
	"github.com/veridraft/veridraft/internal/util"
	"github.com/veridraft/veridraft/internal/worker"
)

// Engine runs the five checkers and the decision gate for one draft.
// It owns no mutable run state: every Verify call builds a fresh
// report, so concurrent runs never interfere.
type Engine struct {
	citations    *citations.Checker
	facts        *claims.FactChecker
	quality      *quality.Assessor
	completeness *completeness.Verifier
	crossref     *crossref.CrossReferencer
	weights      model.Weights
	runTimeout   time.Duration
}

// NewEngine builds an engine and all its collaborators from config.
// An invalid weight configuration is an engine bug and fails here,
// before any run starts.
func NewEngine(cfg *model.Config) (*Engine, error) {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if err := cfg.Weights.Validate(); err != nil {
		return nil, fmt.Errorf("invalid weight configuration: %w", err)
	}

	limiter := worker.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	var robots *util.RobotsChecker
	if cfg.HTTP.RespectRobots {
		robots = util.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout)
	}

	var resultCache cache.Cache
	if cfg.Cache.Enabled {
		resultCache = cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
	}

	prober := citations.NewProber(cfg.HTTP, limiter, robots, resultCache, cfg.Cache.TTL, cfg.Concurrency.ProbeWorkers)

	var provider search.Provider = search.NewDuckDuckGo(
		cfg.Search.BaseURL, cfg.HTTP.UserAgent, cfg.Search.Timeout,
		limiter, cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy,
	)
	if resultCache != nil {
		provider = search.NewCachedProvider(provider, resultCache, cfg.Cache.TTL)
	}

	var judge claims.Judge
	if cfg.LLM.Provider == "openai" {
		j, err := claims.NewOpenAIJudge(cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("configure claim judge: %w", err)
		}
		judge = j
	}

	facts := claims.NewFactChecker(provider, judge, cfg.Limits.MaxClaims, cfg.Search.MaxCalls, cfg.Concurrency.SearchWorkers)

	return NewEngineWith(
		citations.NewChecker(prober, nil),
		facts,
		quality.NewAssessor(),
		completeness.NewVerifier(),
		crossref.NewCrossReferencer(),
		cfg.Weights,
		cfg.Limits.RunTimeout,
	)
}

// NewEngineWith wires an engine from explicit checkers. Tests use this
// to substitute deterministic collaborators.
func NewEngineWith(
	citationChecker *citations.Checker,
	factChecker *claims.FactChecker,
	assessor *quality.Assessor,
	completenessVerifier *completeness.Verifier,
	crossReferencer *crossref.CrossReferencer,
	weights model.Weights,
	runTimeout time.Duration,
) (*Engine, error) {
	if err := weights.Validate(); err != nil {
		return nil, fmt.Errorf("invalid weight configuration: %w", err)
	}
	if runTimeout <= 0 {
		runTimeout = 30 * time.Second
	}

	return &Engine{
		citations:    citationChecker,
		facts:        factChecker,
		quality:      assessor,
		completeness: completenessVerifier,
		crossref:     crossReferencer,
		weights:      weights,
		runTimeout:   runTimeout,
	}, nil
}

// Verify runs all five checkers concurrently under the aggregate
// deadline and applies the decision policy. Transient collaborator
// failures degrade to soft-fail classifications inside the checkers;
// a report is always produced for valid input.
func (e *Engine) Verify(ctx context.Context, req model.Request) (*model.Report, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, e.runTimeout)
	defer cancel()

	doc := markdown.Parse(req.Draft)

	var (
		wg       sync.WaitGroup
		citRes   citations.Result
		factRes  claims.Result
		qualRes  quality.Result
		compRes  completeness.Result
		crossRes crossref.Result
	)

	wg.Add(5)
	go func() {
		defer wg.Done()
		citRes = e.citations.Check(ctx, doc)
	}()
	go func() {
		defer wg.Done()
		factRes = e.facts.Check(ctx, doc, req.Claims)
	}()
	go func() {
		defer wg.Done()
		qualRes = e.quality.Assess(doc)
	}()
	go func() {
		defer wg.Done()
		compRes = e.completeness.Verify(doc, req.Query)
	}()
	go func() {
		defer wg.Done()
		// Cross-referencing needs only the extracted citation set, not
		// the probe results, so it stays independent of the checker above.
		crossRes = e.crossref.Check(req.Sources, citations.Extract(doc))
	}()
	wg.Wait()

	issues := make([]model.Issue, 0,
		len(citRes.Issues)+len(factRes.Issues)+len(qualRes.Issues)+len(compRes.Issues)+len(crossRes.Issues))
	issues = append(issues, citRes.Issues...)
	issues = append(issues, factRes.Issues...)
	issues = append(issues, qualRes.Issues...)
	issues = append(issues, compRes.Issues...)
	issues = append(issues, crossRes.Issues...)

	overall := e.weights.Overall(citRes.Score, compRes.Score, factRes.Score, qualRes.Score, crossRes.Score)

	report := &model.Report{
		Query:      req.Query,
		VerifiedAt: time.Now().UTC(),

		CitationScore:          citRes.Score,
		CompletenessScore:      compRes.Score,
		FactAccuracyScore:      factRes.Score,
		ContentQualityScore:    qualRes.Score,
		SourceUtilizationScore: crossRes.Score,
		OverallScore:           overall,

		Status: decide(overall, issues, factRes.Contradicted, qualRes),

		Issues:    issues,
		Citations: citRes.Citations,
		Claims:    factRes.Claims,
		Sections:  qualRes.Sections,

		WordCount:       compRes.WordCount,
		MissingKeywords: compRes.MissingKeywords,
		UnusedSources:   crossRes.UnusedSources,
	}

	if report.Citations == nil {
		report.Citations = []model.Citation{}
	}
	if report.Claims == nil {
		report.Claims = []model.Claim{}
	}

	return report, nil
}

// decide applies the decision policy in priority order: Invalid
// conditions override, then Valid, else NeedsRevision.
func decide(overall int, issues []model.Issue, contradicted int, qualRes quality.Result) model.Status {
	critical := model.CountBySeverity(issues)[model.SeverityCritical]

	switch {
	case overall < 60 || critical > 2 || contradicted > 1 || qualRes.AnyMissing:
		return model.StatusInvalid
	case overall >= 80 && critical == 0 && contradicted == 0 && qualRes.AllPresent:
		return model.StatusValid
	default:
		return model.StatusNeedsRevision
	}
}
