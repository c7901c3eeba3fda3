package claims

import (
	"context"
	"strings"
	"unicode"

	"github.com/veridraft/veridraft/internal/model"
	"github.com/veridraft/veridraft/internal/search"
)

// Assessment is a judge's reading of the search evidence for one claim
type Assessment struct {
	Verdict       model.Verdict
	Confidence    model.Confidence
	Snippet       string // Supporting or conflicting snippet
	Source        string // URL of the snippet
	Corroborating int    // Number of supporting results
}

// Judge decides whether search results support or contradict a claim.
// The default implementation is a deterministic heuristic; an
// LLM-backed judge can be substituted behind this interface.
type Judge interface {
	Assess(ctx context.Context, claim string, results []search.Result) Assessment
}

// HeuristicJudge compares shared entities and numbers between the
// claim and each result: matching numbers with shared entities
// support; a differing number of the same kind with shared entities
// contradicts.
type HeuristicJudge struct{}

// NewHeuristicJudge creates the deterministic judge
func NewHeuristicJudge() *HeuristicJudge {
	return &HeuristicJudge{}
}

// Assess classifies the claim against the result set. Contradiction
// dominates: any conflicting result yields Contradicted regardless of
// how many others agree.
func (j *HeuristicJudge) Assess(ctx context.Context, claim string, results []search.Result) Assessment {
	claimEntities := extractEntities(claim)
	claimNumbers := extractNumbers(claim)

	supporting := 0
	contradicting := 0
	var supportSnippet, supportSource string
	var conflictSnippet, conflictSource string

	for _, r := range results {
		text := r.Title + " " + r.Snippet
		if !entitiesOverlap(claimEntities, extractEntities(text)) {
			continue
		}

		switch compareNumbers(claimNumbers, extractNumbers(text)) {
		case numbersAgree:
			supporting++
			if supportSnippet == "" {
				supportSnippet = r.Snippet
				supportSource = r.URL
			}
		case numbersConflict:
			contradicting++
			if conflictSnippet == "" {
				conflictSnippet = r.Snippet
				conflictSource = r.URL
			}
		case numbersAbsent:
			// Qualitative corroboration: shared entities plus a shared
			// directional word is enough when the claim carries no numbers.
			if len(claimNumbers) == 0 && sharesComparison(claim, text) {
				supporting++
				if supportSnippet == "" {
					supportSnippet = r.Snippet
					supportSource = r.URL
				}
			}
		}
	}

	switch {
	case contradicting > 0:
		confidence := model.ConfidenceMedium
		if contradicting >= 2 {
			confidence = model.ConfidenceHigh
		}
		return Assessment{
			Verdict:    model.VerdictContradicted,
			Confidence: confidence,
			Snippet:    conflictSnippet,
			Source:     conflictSource,
		}
	case supporting > 0:
		confidence := model.ConfidenceMedium
		if supporting >= 2 {
			confidence = model.ConfidenceHigh
		}
		return Assessment{
			Verdict:       model.VerdictVerified,
			Confidence:    confidence,
			Snippet:       supportSnippet,
			Source:        supportSource,
			Corroborating: supporting,
		}
	default:
		return Assessment{
			Verdict:    model.VerdictUnverified,
			Confidence: model.ConfidenceLow,
		}
	}
}

type numberComparison int

const (
	numbersAbsent numberComparison = iota
	numbersAgree
	numbersConflict
)

// compareNumbers checks each number kind (money, percent, year, plain)
// present on both sides. A kind whose value sets are disjoint is a
// conflict even when another kind matches: "$30M in 2023" contradicts
// "$50M in 2023" despite the shared year.
func compareNumbers(claim, evidence map[numberKind]map[string]bool) numberComparison {
	comparedAny := false

	for kind, claimVals := range claim {
		evVals, ok := evidence[kind]
		if !ok || len(evVals) == 0 {
			continue
		}
		comparedAny = true

		shared := false
		for v := range claimVals {
			if evVals[v] {
				shared = true
				break
			}
		}
		if !shared {
			return numbersConflict
		}
	}

	if !comparedAny {
		return numbersAbsent
	}
	return numbersAgree
}

type numberKind int

const (
	kindPlain numberKind = iota
	kindMoney
	kindPercent
	kindYear
)

// extractNumbers pulls normalized numeric tokens out of text, grouped
// by kind.
func extractNumbers(text string) map[numberKind]map[string]bool {
	numbers := make(map[numberKind]map[string]bool)

	add := func(kind numberKind, value string) {
		if numbers[kind] == nil {
			numbers[kind] = make(map[string]bool)
		}
		numbers[kind][value] = true
	}

	tokens := strings.Fields(text)
	for i, token := range tokens {
		trimmed := strings.Trim(token, ".,;:!?()[]\"'")
		if trimmed == "" || strings.IndexFunc(trimmed, unicode.IsDigit) < 0 {
			continue
		}

		kind := kindPlain
		if strings.HasPrefix(trimmed, "$") || strings.HasPrefix(trimmed, "€") || strings.HasPrefix(trimmed, "£") {
			kind = kindMoney
		}
		if strings.HasSuffix(trimmed, "%") {
			kind = kindPercent
		}

		value := normalizeNumber(trimmed)
		if value == "" {
			continue
		}

		if kind == kindPlain && isYearToken(value) {
			add(kindYear, value)
			continue
		}

		// A magnitude word after a bare number ("50 million") folds in
		if kind == kindMoney || kind == kindPlain {
			if i+1 < len(tokens) {
				if suffix := magnitudeSuffix(tokens[i+1]); suffix != "" {
					value += suffix
				}
			}
		}

		add(kind, value)
	}

	return numbers
}

// normalizeNumber strips currency symbols, separators, and maps
// magnitude suffixes so "$50M", "50m", and "50 million" compare equal.
func normalizeNumber(token string) string {
	s := strings.ToLower(token)
	s = strings.TrimLeft(s, "$€£")
	s = strings.TrimRight(s, "%")
	s = strings.ReplaceAll(s, ",", "")

	switch {
	case strings.HasSuffix(s, "million"):
		s = strings.TrimSpace(strings.TrimSuffix(s, "million")) + "m"
	case strings.HasSuffix(s, "billion"):
		s = strings.TrimSpace(strings.TrimSuffix(s, "billion")) + "b"
	case strings.HasSuffix(s, "bn"):
		s = strings.TrimSuffix(s, "bn") + "b"
	case strings.HasSuffix(s, "k"), strings.HasSuffix(s, "m"), strings.HasSuffix(s, "b"):
		// already canonical
	}

	if s == "" || strings.IndexFunc(s, unicode.IsDigit) < 0 {
		return ""
	}
	return s
}

func magnitudeSuffix(token string) string {
	switch strings.ToLower(strings.Trim(token, ".,;:!?()")) {
	case "million":
		return "m"
	case "billion":
		return "b"
	case "thousand":
		return "k"
	}
	return ""
}

// extractEntities collects capitalized words as a crude named-entity
// set, lowercased for comparison.
func extractEntities(text string) map[string]bool {
	entities := make(map[string]bool)

	for _, token := range strings.Fields(text) {
		trimmed := strings.Trim(token, ".,;:!?()[]\"'")
		if len(trimmed) < 2 {
			continue
		}
		first := []rune(trimmed)[0]
		if !unicode.IsUpper(first) {
			continue
		}
		lower := strings.ToLower(trimmed)
		if entityStopwords[lower] {
			continue
		}
		entities[lower] = true
	}

	return entities
}

// entitiesOverlap requires at least half of the claim's entities (and
// at least one) to appear in the evidence.
func entitiesOverlap(claim, evidence map[string]bool) bool {
	if len(claim) == 0 {
		return false
	}

	overlap := 0
	for e := range claim {
		if evidence[e] {
			overlap++
		}
	}

	return overlap >= 1 && overlap*2 >= len(claim)
}

// sharesComparison checks for a shared directional/comparison word
func sharesComparison(claim, evidence string) bool {
	claimLower := strings.ToLower(claim)
	evidenceLower := strings.ToLower(evidence)

	for _, w := range comparisonWords {
		if strings.Contains(claimLower, w) && strings.Contains(evidenceLower, w) {
			return true
		}
	}
	return false
}

// entityStopwords are capitalized-but-uninformative words, mostly
// sentence starters.
var entityStopwords = map[string]bool{
	"the": true, "a": true, "an": true, "in": true, "on": true,
	"at": true, "of": true, "for": true, "by": true, "with": true,
	"this": true, "that": true, "these": true, "those": true,
	"it": true, "its": true, "as": true, "is": true, "are": true,
	"was": true, "were": true, "however": true, "although": true,
	"according": true, "while": true, "since": true, "during": true,
}
