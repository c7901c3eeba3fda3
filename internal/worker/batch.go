package worker

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/veridraft/veridraft/internal/model"
)

// Verifier runs one verification request; implemented by verify.Engine
type Verifier interface {
	Verify(ctx context.Context, req model.Request) (*model.Report, error)
}

// ManifestEntry describes one draft to verify in batch mode
type ManifestEntry struct {
	Name    string               `yaml:"name"`
	Draft   string               `yaml:"draft"` // Path to the Markdown draft
	Query   string               `yaml:"query"`
	Claims  []string             `yaml:"claims,omitempty"`
	Sources []model.SourceRecord `yaml:"sources,omitempty"`
}

// VerifyJob verifies one manifest entry
type VerifyJob struct {
	Entry    ManifestEntry
	Verifier Verifier
}

// Execute reads the draft file and runs verification
func (j *VerifyJob) Execute(ctx context.Context) Result {
	draft, err := os.ReadFile(j.Entry.Draft)
	if err != nil {
		return &VerifyResult{
			Name:  j.Entry.Name,
			Error: fmt.Errorf("read draft: %w", err),
		}
	}

	report, err := j.Verifier.Verify(ctx, model.Request{
		Draft:   string(draft),
		Query:   j.Entry.Query,
		Claims:  j.Entry.Claims,
		Sources: j.Entry.Sources,
	})

	return &VerifyResult{
		Name:   j.Entry.Name,
		Report: report,
		Error:  err,
	}
}

// VerifyResult is the outcome of one batch entry
type VerifyResult struct {
	Name   string
	Report *model.Report
	Error  error
}

// GetError returns the error from the verify result
func (r *VerifyResult) GetError() error {
	return r.Error
}

// BatchProcessor verifies multiple drafts concurrently
type BatchProcessor struct {
	verifier    Verifier
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(verifier Verifier, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		verifier:    verifier,
		concurrency: concurrency,
	}
}

// Process verifies all entries on the worker pool
func (b *BatchProcessor) Process(ctx context.Context, entries []ManifestEntry) []*VerifyResult {
	if len(entries) == 0 {
		return []*VerifyResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	// Cancel in-flight jobs if the batch deadline expires
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			pool.Shutdown()
		case <-done:
		}
	}()

	for _, entry := range entries {
		pool.Submit(&VerifyJob{Entry: entry, Verifier: b.verifier})
	}

	results := pool.Wait()
	close(done)

	verifyResults := make([]*VerifyResult, 0, len(results))
	for _, result := range results {
		verifyResults = append(verifyResults, result.(*VerifyResult))
	}
	return verifyResults
}

// ProcessManifest reads a manifest file and verifies its entries
func (b *BatchProcessor) ProcessManifest(ctx context.Context, path string) ([]*VerifyResult, error) {
	entries, err := ReadManifest(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	return b.Process(ctx, entries), nil
}

// ReadManifest parses a yaml list of batch entries
func ReadManifest(path string) ([]ManifestEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}

	var entries []ManifestEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	for i, entry := range entries {
		if entry.Draft == "" {
			return nil, fmt.Errorf("manifest entry %d: draft path is required", i)
		}
		if entry.Query == "" {
			return nil, fmt.Errorf("manifest entry %d: query is required", i)
		}
		if entry.Name == "" {
			entries[i].Name = entry.Draft
		}
	}

	return entries, nil
}
