package claims

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/veridraft/veridraft/internal/markdown"
	"github.com/veridraft/veridraft/internal/model"
	"github.com/veridraft/veridraft/internal/search"
)

// searchSleepFunc is the sleep used before the search retry
// (injectable for tests)
var searchSleepFunc = time.Sleep

const searchRetryBackoff = 2 * time.Second

// Result is the fact checker's verdict for one draft
type Result struct {
	Score        int
	Claims       []model.Claim
	Issues       []model.Issue
	Verified     int
	Unverified   int
	Contradicted int
	SearchCalls  int
}

// FactChecker corroborates claims against the search provider under a
// hard call budget.
type FactChecker struct {
	provider    search.Provider
	judge       Judge
	extractor   *Extractor
	maxClaims   int
	maxCalls    int
	concurrency int
}

// NewFactChecker creates a fact checker. maxCalls caps search calls
// for the entire run; concurrency bounds simultaneous calls.
func NewFactChecker(provider search.Provider, judge Judge, maxClaims, maxCalls, concurrency int) *FactChecker {
	if maxClaims <= 0 {
		maxClaims = 5
	}
	if maxCalls <= 0 {
		maxCalls = 5
	}
	if concurrency <= 0 {
		concurrency = 3
	}
	if judge == nil {
		judge = NewHeuristicJudge()
	}

	return &FactChecker{
		provider:    provider,
		judge:       judge,
		extractor:   NewExtractor(maxClaims),
		maxClaims:   maxClaims,
		maxCalls:    maxCalls,
		concurrency: concurrency,
	}
}

// Check verifies supplied claims verbatim, or extracts candidates from
// the draft when none are supplied. Claims are independent and checked
// concurrently.
func (f *FactChecker) Check(ctx context.Context, doc *markdown.Document, supplied []string) Result {
	checked := f.selectClaims(doc, supplied)
	if len(checked) == 0 {
		// Nothing to corroborate is not a defect of the draft
		return Result{Score: 100, Claims: []model.Claim{}}
	}

	var calls atomic.Int32
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, f.concurrency)

	for i := range checked {
		wg.Add(1)
		go func(claim *model.Claim) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				claim.Verdict = model.VerdictUnverified
				claim.Confidence = model.ConfidenceLow
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			f.checkSingle(ctx, claim, &calls)
		}(&checked[i])
	}
	wg.Wait()

	result := Result{Claims: checked, SearchCalls: int(calls.Load())}
	for _, claim := range checked {
		switch claim.Verdict {
		case model.VerdictVerified:
			result.Verified++
		case model.VerdictContradicted:
			result.Contradicted++
			desc := fmt.Sprintf("claim contradicted by search evidence: %q", claim.Text)
			if claim.Evidence != "" {
				desc = fmt.Sprintf("claim contradicted by %s (%q): %q", claim.EvidenceURL, claim.Evidence, claim.Text)
			}
			result.Issues = append(result.Issues, model.Issue{
				Severity:    model.SeverityCritical,
				Description: desc,
				Location:    claim.Text,
			})
		default:
			result.Unverified++
			result.Issues = append(result.Issues, model.Issue{
				Severity:    model.SeverityMajor,
				Description: fmt.Sprintf("claim could not be corroborated: %q", claim.Text),
				Location:    claim.Text,
			})
		}
	}

	// Contradictions dominate the sub-score regardless of the verified ratio
	score := int(float64(result.Verified) / float64(len(checked)) * 100)
	score -= 20 * result.Contradicted
	result.Score = model.ClampScore(score)

	return result
}

// checkSingle searches for one claim within the shared budget and
// applies the judge. Search failures degrade to Unverified after at
// most one retry.
func (f *FactChecker) checkSingle(ctx context.Context, claim *model.Claim, calls *atomic.Int32) {
	claim.Verdict = model.VerdictUnverified
	claim.Confidence = model.ConfidenceLow

	query := BuildQuery(claim.Text)
	if query == "" {
		return
	}

	if !reserveCall(calls, f.maxCalls) {
		return
	}

	results, err := f.provider.Search(ctx, query)
	if err != nil {
		if ctx.Err() != nil || !reserveCall(calls, f.maxCalls) {
			return
		}
		searchSleepFunc(searchRetryBackoff)
		results, err = f.provider.Search(ctx, query)
		if err != nil {
			return
		}
	}

	assessment := f.judge.Assess(ctx, claim.Text, results)
	claim.Verdict = assessment.Verdict
	claim.Confidence = assessment.Confidence
	claim.Evidence = assessment.Snippet
	claim.EvidenceURL = assessment.Source
}

// selectClaims uses supplied claims verbatim (capped), extracting
// candidates only when none were supplied.
func (f *FactChecker) selectClaims(doc *markdown.Document, supplied []string) []model.Claim {
	if len(supplied) == 0 {
		return f.extractor.Extract(doc)
	}

	if len(supplied) > f.maxClaims {
		supplied = supplied[:f.maxClaims]
	}

	claims := make([]model.Claim, 0, len(supplied))
	for _, text := range supplied {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		claims = append(claims, model.Claim{
			Text:    text,
			Verdict: model.VerdictUnverified,
		})
	}
	return claims
}

// reserveCall atomically takes one unit of the search budget
func reserveCall(calls *atomic.Int32, maxCalls int) bool {
	for {
		cur := calls.Load()
		if int(cur) >= maxCalls {
			return false
		}
		if calls.CompareAndSwap(cur, cur+1) {
			return true
		}
	}
}

// BuildQuery reduces a claim to its key terms: stopwords dropped,
// numbers and entities kept, capped at eight terms.
func BuildQuery(claim string) string {
	var terms []string
	seen := make(map[string]bool)

	for _, token := range strings.Fields(claim) {
		trimmed := strings.Trim(token, ".,;:!?()[]\"'")
		if trimmed == "" {
			continue
		}

		lower := strings.ToLower(trimmed)
		hasDigit := strings.IndexFunc(trimmed, unicode.IsDigit) >= 0
		if !hasDigit && (queryStopwords[lower] || len(lower) < 3) {
			continue
		}
		if seen[lower] {
			continue
		}
		seen[lower] = true
		terms = append(terms, trimmed)

		if len(terms) >= 8 {
			break
		}
	}

	return strings.Join(terms, " ")
}

var queryStopwords = map[string]bool{
	"the": true, "and": true, "but": true, "for": true, "are": true,
	"was": true, "were": true, "has": true, "have": true, "had": true,
	"that": true, "this": true, "these": true, "those": true,
	"with": true, "from": true, "into": true, "over": true,
	"which": true, "their": true, "its": true, "than": true,
	"been": true, "will": true, "would": true, "could": true,
	"should": true, "about": true, "also": true, "such": true,
}
