package claims

import (
	"sort"
	"strings"
	"unicode"

	"github.com/veridraft/veridraft/internal/markdown"
	"github.com/veridraft/veridraft/internal/model"
)

// comparisonWords mark sentences asserting a quantitative or
// qualitative comparison worth corroborating.
var comparisonWords = []string{
	"more than", "less than", "fewer than", "at least", "at most",
	"compared to", "compared with", "versus", "increase", "decrease",
	"grew", "fell", "doubled", "tripled", "higher", "lower",
	"largest", "smallest", "fastest", "slowest", "outperform",
}

// Extractor derives candidate factual claims from a draft using
// lexical heuristics: digits, percentages, year tokens, comparisons.
type Extractor struct {
	maxClaims int
}

// NewExtractor creates a claim extractor with the per-run cap
func NewExtractor(maxClaims int) *Extractor {
	if maxClaims <= 0 {
		maxClaims = 5
	}
	return &Extractor{maxClaims: maxClaims}
}

type candidate struct {
	text       string
	heuristic  string
	importance int
}

// Extract returns the top claims ranked by estimated importance
func (e *Extractor) Extract(doc *markdown.Document) []model.Claim {
	var candidates []candidate
	seen := make(map[string]bool)

	for _, section := range doc.Sections {
		if isReferenceSection(section.Heading) {
			continue
		}

		text := markdown.StripLinks(section.Content)
		for _, sentence := range splitSentences(text) {
			heuristic, ok := matchHeuristic(sentence)
			if !ok {
				continue
			}
			key := strings.ToLower(strings.TrimSpace(sentence))
			if seen[key] {
				continue
			}
			seen[key] = true
			candidates = append(candidates, candidate{
				text:       sentence,
				heuristic:  heuristic,
				importance: importance(sentence),
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].importance > candidates[j].importance
	})

	if len(candidates) > e.maxClaims {
		candidates = candidates[:e.maxClaims]
	}

	claims := make([]model.Claim, len(candidates))
	for i, c := range candidates {
		claims[i] = model.Claim{
			Text:      c.text,
			Verdict:   model.VerdictUnverified,
			Heuristic: c.heuristic,
		}
	}
	return claims
}

// matchHeuristic reports which extraction rule a sentence satisfies
func matchHeuristic(sentence string) (string, bool) {
	lower := strings.ToLower(sentence)

	if strings.ContainsRune(sentence, '%') {
		return "percent", true
	}
	for _, token := range strings.Fields(sentence) {
		if isYearToken(strings.Trim(token, ".,;:!?()")) {
			return "year", true
		}
	}
	if strings.IndexFunc(sentence, unicode.IsDigit) >= 0 {
		return "numeral", true
	}
	for _, w := range comparisonWords {
		if strings.Contains(lower, w) {
			return "comparison:" + w, true
		}
	}

	return "", false
}

// importance ranks candidates: numerals dominate, length breaks ties
func importance(sentence string) int {
	score := 0
	for _, token := range strings.Fields(sentence) {
		trimmed := strings.Trim(token, ".,;:!?()$%")
		if trimmed == "" {
			continue
		}
		if strings.IndexFunc(trimmed, unicode.IsDigit) >= 0 {
			score += 5
		}
	}

	words := len(strings.Fields(sentence))
	if words > 40 {
		words = 40
	}
	return score + words/4
}

// splitSentences breaks prose into sentences, keeping only those of
// plausible claim length.
func splitSentences(text string) []string {
	text = strings.ReplaceAll(text, "\n", " ")

	var sentences []string
	var current strings.Builder

	flush := func() {
		sentence := strings.TrimSpace(current.String())
		if len(sentence) >= 30 && len(sentence) <= 500 {
			sentences = append(sentences, sentence)
		}
		current.Reset()
	}

	for i, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			// Look ahead to avoid splitting on abbreviations
			if i+1 < len(text) && (text[i+1] == ' ' || text[i+1] == '\t') {
				flush()
			}
		}
	}
	flush()

	return sentences
}

// isYearToken recognizes 1900-2099 style tokens
func isYearToken(token string) bool {
	if len(token) != 4 {
		return false
	}
	for _, r := range token {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return strings.HasPrefix(token, "19") || strings.HasPrefix(token, "20")
}

func isReferenceSection(heading string) bool {
	h := strings.ToLower(heading)
	return strings.Contains(h, "reference") ||
		strings.Contains(h, "bibliography") ||
		strings.Contains(h, "works cited")
}
