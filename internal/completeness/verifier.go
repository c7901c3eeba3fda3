package completeness

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/veridraft/veridraft/internal/markdown"
	"github.com/veridraft/veridraft/internal/model"
)

// Result is the topical-alignment verdict for one draft
type Result struct {
	Score           int
	Keywords        []string // Query keywords after normalization
	MissingKeywords []string
	WordCount       int
	Issues          []model.Issue
}

// Verifier scores how well the draft covers the original research query
type Verifier struct{}

// NewVerifier creates a completeness verifier
func NewVerifier() *Verifier {
	return &Verifier{}
}

// Verify tokenizes the query into keywords and checks whole-word
// presence of each anywhere in the draft.
func (v *Verifier) Verify(doc *markdown.Document, query string) Result {
	result := Result{
		Keywords:  Keywords(query),
		WordCount: doc.WordCount(),
	}

	if len(result.Keywords) == 0 {
		result.Score = 100
		return result
	}

	draftWords := wordSet(doc)

	present := 0
	for _, kw := range result.Keywords {
		if draftWords[kw] {
			present++
		} else {
			result.MissingKeywords = append(result.MissingKeywords, kw)
		}
	}

	result.Score = model.ClampScore(int(math.Round(float64(present) / float64(len(result.Keywords)) * 100)))

	// The query's head keyword is its central topic; a draft that
	// never mentions it missed the point entirely.
	central := result.Keywords[0]
	if !draftWords[central] {
		result.Issues = append(result.Issues, model.Issue{
			Severity:    model.SeverityCritical,
			Description: fmt.Sprintf("central query keyword %q never appears in draft", central),
		})
	}

	missingRatio := float64(len(result.MissingKeywords)) / float64(len(result.Keywords))
	if missingRatio > 0.3 {
		result.Issues = append(result.Issues, model.Issue{
			Severity: model.SeverityMajor,
			Description: fmt.Sprintf("draft misses %d of %d query keywords: %s",
				len(result.MissingKeywords), len(result.Keywords), strings.Join(result.MissingKeywords, ", ")),
		})
	}

	return result
}

// Keywords tokenizes a query: lowercased, punctuation stripped,
// stopwords removed, deduplicated, order preserved.
func Keywords(query string) []string {
	var keywords []string
	seen := make(map[string]bool)

	for _, token := range strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len(token) < 3 || stopwords[token] || seen[token] {
			continue
		}
		seen[token] = true
		keywords = append(keywords, token)
	}

	return keywords
}

// wordSet collects every word of the draft, lowercased and trimmed of
// punctuation, for whole-word membership checks.
func wordSet(doc *markdown.Document) map[string]bool {
	words := make(map[string]bool)

	addText := func(text string) {
		for _, token := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		}) {
			words[token] = true
		}
	}

	for _, s := range doc.Sections {
		addText(s.Heading)
		addText(markdown.StripLinks(s.Content))
	}

	return words
}

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "had": true,
	"has": true, "have": true, "was": true, "were": true, "what": true,
	"when": true, "where": true, "which": true, "with": true, "how": true,
	"why": true, "who": true, "will": true, "would": true, "could": true,
	"should": true, "about": true, "into": true, "over": true, "under": true,
	"between": true, "their": true, "them": true, "they": true, "this": true,
	"that": true, "these": true, "those": true, "its": true, "than": true,
	"then": true, "from": true, "also": true, "such": true, "please": true,
	"write": true, "research": true, "report": true, "analysis": true,
	"compare": true, "comparing": true, "comparison": true, "provide": true,
	"give": true, "overview": true, "detailed": true, "comprehensive": true,
}
