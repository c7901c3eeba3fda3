package claims

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/veridraft/veridraft/internal/model"
	"github.com/veridraft/veridraft/internal/search"
)

// OpenAIJudge delegates the support/contradiction call for a single
// claim to a chat model. It is config-gated and falls back to the
// deterministic heuristic on any API failure, so a verification run
// never depends on the model being reachable.
type OpenAIJudge struct {
	client   *openai.Client
	model    string
	fallback *HeuristicJudge
}

// NewOpenAIJudge creates a model-backed judge
func NewOpenAIJudge(cfg model.LLMConfig) (*OpenAIJudge, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	judgeModel := cfg.Model
	if judgeModel == "" {
		judgeModel = openai.GPT4oMini
	}

	return &OpenAIJudge{
		client:   openai.NewClientWithConfig(clientConfig),
		model:    judgeModel,
		fallback: NewHeuristicJudge(),
	}, nil
}

// Assess asks the model for a one-word verdict over the result snippets
func (j *OpenAIJudge) Assess(ctx context.Context, claim string, results []search.Result) Assessment {
	if len(results) == 0 {
		return Assessment{Verdict: model.VerdictUnverified, Confidence: model.ConfidenceLow}
	}

	resp, err := j.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: j.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You judge whether search snippets support a factual claim. Answer with exactly one word: SUPPORTED, CONTRADICTED, or INSUFFICIENT.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildJudgePrompt(claim, results),
			},
		},
		MaxTokens:   8,
		Temperature: 0,
	})
	if err != nil || len(resp.Choices) == 0 {
		return j.fallback.Assess(ctx, claim, results)
	}

	verdict := strings.ToUpper(strings.TrimSpace(resp.Choices[0].Message.Content))
	switch {
	case strings.HasPrefix(verdict, "SUPPORTED"):
		return Assessment{
			Verdict:       model.VerdictVerified,
			Confidence:    model.ConfidenceHigh,
			Snippet:       results[0].Snippet,
			Source:        results[0].URL,
			Corroborating: 1,
		}
	case strings.HasPrefix(verdict, "CONTRADICTED"):
		return Assessment{
			Verdict:    model.VerdictContradicted,
			Confidence: model.ConfidenceHigh,
			Snippet:    results[0].Snippet,
			Source:     results[0].URL,
		}
	default:
		return Assessment{Verdict: model.VerdictUnverified, Confidence: model.ConfidenceLow}
	}
}

func buildJudgePrompt(claim string, results []search.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Claim: %s\n\nSearch snippets:\n", claim)
	for i, r := range results {
		if i >= 5 {
			break
		}
		fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, r.Title, r.Snippet)
	}
	b.WriteString("\nOne word: SUPPORTED, CONTRADICTED, or INSUFFICIENT.")
	return b.String()
}
