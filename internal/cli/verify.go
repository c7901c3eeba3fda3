package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/veridraft/veridraft/internal/model"
	"github.com/veridraft/veridraft/internal/verify"
)

var (
	query       string
	sourcesFile string
	claimList   []string
	outJSON     string
	outMD       string
	timeout     time.Duration
	userAgent   string
	noCache     bool
	noFooter    bool
	noRobots    bool
	insecureTLS bool
	httpProxy   string
	httpsProxy  string
	llmProvider string
	llmModel    string
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <draft.md>",
	Short: "Verify a single research draft and generate a scored report",
	Long: `Verify analyzes a Markdown research draft to:
- Extract citations and probe each URL for reachability
- Extract factual claims and corroborate them via web search
- Assess structure, depth, and table usage against section requirements
- Check coverage of the research query's key terms
- Cross-reference gathered sources against citations actually used

The five sub-scores combine into an overall score and a verdict:
valid, needs revision, or invalid.

Example:
  veridraft verify draft.md --query "quantum error correction"
  veridraft verify draft.md --query "..." --sources sources.yaml --json report.json
  veridraft verify draft.md --query "..." --claim "X raised $50M in 2023"`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	// Request flags
	verifyCmd.Flags().StringVar(&query, "query", "", "research query the draft answers (required)")
	verifyCmd.Flags().StringVar(&sourcesFile, "sources", "", "yaml file listing gathered sources (url, title)")
	verifyCmd.Flags().StringArrayVar(&claimList, "claim", nil, "claim to fact-check verbatim (repeatable; overrides extraction)")
	_ = verifyCmd.MarkFlagRequired("query")

	// Output flags
	verifyCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	verifyCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	verifyCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// HTTP flags
	verifyCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "overall verification timeout (increase for drafts with many citations)")
	verifyCmd.Flags().StringVar(&userAgent, "ua", "Veridraft/0.1 (+https://github.com/veridraft/veridraft)", "HTTP User-Agent")
	verifyCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh probes and searches)")
	verifyCmd.Flags().BoolVar(&noRobots, "no-robots", false, "skip robots.txt checks before probing")
	verifyCmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification (use for self-signed certs)")
	verifyCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	verifyCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")

	// LLM flags
	verifyCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM claim judge provider (openai; empty uses the heuristic judge)")
	verifyCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runVerify(cmd *cobra.Command, args []string) error {
	draftPath := args[0]

	draft, err := os.ReadFile(draftPath)
	if err != nil {
		return fmt.Errorf("read draft: %w", err)
	}

	sources, err := loadSources(sourcesFile)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Verifying: %s\n", draftPath)
		fmt.Fprintf(os.Stderr, "Query: %s\n", query)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", !noCache)
		fmt.Fprintln(os.Stderr)
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	engine, err := verify.NewEngine(cfg)
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	report, err := engine.Verify(ctx, model.Request{
		Draft:   string(draft),
		Query:   query,
		Claims:  claimList,
		Sources: sources,
	})
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Checked %d citations\n", len(report.Citations))
		fmt.Fprintf(os.Stderr, "✓ Fact-checked %d claims\n", len(report.Claims))
		fmt.Fprintf(os.Stderr, "✓ Overall score: %d/100\n", report.OverallScore)
		fmt.Fprintln(os.Stderr)
	}

	renderer := verify.NewRenderer(!noFooter)
	if outJSON != "" {
		if err := renderer.RenderJSON(report, outJSON); err != nil {
			return fmt.Errorf("write JSON report: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", outJSON)
		}
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(report, outMD); err != nil {
			return fmt.Errorf("write Markdown report: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", outMD)
		}
	}

	renderer.RenderSummary(report)

	// Non-zero exit lets CI gate on the verdict
	if report.Status == model.StatusInvalid {
		return fmt.Errorf("draft rejected (score %d/100)", report.OverallScore)
	}
	return nil
}

// buildConfig assembles engine configuration from flags
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = 5 * time.Second
	cfg.HTTP.UserAgent = userAgent
	cfg.HTTP.InsecureTLS = insecureTLS
	cfg.HTTP.RespectRobots = !noRobots
	cfg.HTTP.HTTPProxy = httpProxy
	cfg.HTTP.HTTPSProxy = httpsProxy
	cfg.Cache.Enabled = !noCache
	cfg.Limits.RunTimeout = timeout
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel

		switch llmProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		default:
			return nil, fmt.Errorf("unsupported LLM provider: %s", llmProvider)
		}
	}

	return cfg, nil
}

// loadSources reads a yaml list of gathered sources
func loadSources(path string) ([]model.SourceRecord, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}

	var sources []model.SourceRecord
	if err := yaml.Unmarshal(data, &sources); err != nil {
		return nil, fmt.Errorf("parse sources file: %w", err)
	}

	return sources, nil
}
