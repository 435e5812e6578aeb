// Package extract implements the concurrent structured-extraction pipeline:
// it fans five independent model queries out over the same document content,
// coerces the loosely-structured responses into typed records, retries
// transient failures, and merges the results into one metadata record. A
// failed sub-extraction degrades to that target's default value instead of
// failing the batch.
package extract

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/openpaper/papermeta/internal/providers"
)

const (
	// DefaultMaxRetries is the per-target retry bound.
	DefaultMaxRetries = 3
	// DefaultRetryDelay is the fixed delay between attempts.
	DefaultRetryDelay = time.Second
)

// Orchestrator runs the five metadata extractions concurrently against one
// model client and assembles the aggregate record. The client is injected at
// construction time and is the only shared resource across the concurrent
// branches.
type Orchestrator struct {
	client          providers.LLMClient
	logger          *slog.Logger
	fastModel       string
	maxRetries      uint
	retryDelay      time.Duration
	maxContentChars int
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the orchestrator logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithFastModel sets the model used for image captioning.
func WithFastModel(model string) Option {
	return func(o *Orchestrator) { o.fastModel = model }
}

// WithRetries overrides the per-target retry bound and delay.
func WithRetries(maxRetries uint, delay time.Duration) Option {
	return func(o *Orchestrator) {
		o.maxRetries = maxRetries
		o.retryDelay = delay
	}
}

// WithMaxContentChars overrides the prompt content truncation limit.
func WithMaxContentChars(n int) Option {
	return func(o *Orchestrator) { o.maxContentChars = n }
}

// NewOrchestrator creates an extraction orchestrator around an LLM client.
func NewOrchestrator(client providers.LLMClient, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client:          client,
		logger:          slog.Default(),
		maxRetries:      DefaultMaxRetries,
		retryDelay:      DefaultRetryDelay,
		maxContentChars: MaxContentChars,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) deps() extractorDeps {
	return extractorDeps{
		client:          o.client,
		logger:          o.logger,
		maxRetries:      o.maxRetries,
		retryDelay:      o.retryDelay,
		maxContentChars: o.maxContentChars,
	}
}

// ExtractAll runs all five extraction targets concurrently over the same
// content and merges the results. It never fails: individual task errors are
// logged and replaced by that target's default, and the returned record
// always has every field populated. FailedTargets records which targets fell
// back to defaults.
func (o *Orchestrator) ExtractAll(ctx context.Context, content, jobID string, status StatusFunc) (md *PaperMetadata) {
	if status == nil {
		status = func(stage string) {
			o.logger.Info(stage, "job_id", jobID)
		}
	}

	// Outermost safety net: a panic in the merge must not escape to the
	// caller, which is promised a complete record.
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("metadata extraction panicked",
				"job_id", jobID,
				"panic", r)
			md = DefaultPaperMetadata()
		}
	}()

	status("Starting: extracting paper metadata...")

	d := o.deps()

	var (
		taa TitleAuthorsAbstract
		ik  InstitutionsKeywords
		sc  SummaryCitations
		sq  StarterQuestions
		hl  Highlights

		names [5]string
		errs  [5]error
	)

	// Fan-out/fan-in: all five branches run to completion regardless of
	// individual failures; each branch owns its own result slot.
	var wg sync.WaitGroup
	wg.Add(5)
	go func() {
		defer wg.Done()
		names[0] = targetTitleAuthorsAbstract.Name
		taa, errs[0] = extractField(ctx, d, targetTitleAuthorsAbstract, content, status)
	}()
	go func() {
		defer wg.Done()
		names[1] = targetInstitutionsKeywords.Name
		ik, errs[1] = extractField(ctx, d, targetInstitutionsKeywords, content, status)
	}()
	go func() {
		defer wg.Done()
		names[2] = targetSummaryCitations.Name
		sc, errs[2] = extractField(ctx, d, targetSummaryCitations, content, status)
	}()
	go func() {
		defer wg.Done()
		names[3] = targetStarterQuestions.Name
		sq, errs[3] = extractField(ctx, d, targetStarterQuestions, content, status)
	}()
	go func() {
		defer wg.Done()
		names[4] = targetHighlights.Name
		hl, errs[4] = extractField(ctx, d, targetHighlights, content, status)
	}()
	wg.Wait()

	var failed []string
	for i, err := range errs {
		if err != nil {
			o.logger.Error("metadata extraction task failed",
				"job_id", jobID,
				"task", i,
				"target", names[i],
				"error", err)
			failed = append(failed, names[i])
		}
	}

	md = &PaperMetadata{
		Title:            taa.Title,
		Authors:          taa.Authors,
		Abstract:         taa.Abstract,
		PublishDate:      taa.PublishDate,
		Institutions:     ik.Institutions,
		Keywords:         ik.Keywords,
		Summary:          sc.Summary,
		SummaryCitations: sc.SummaryCitations,
		StarterQuestions: sq.StarterQuestions,
		Highlights:       hl.Highlights,
		FailedTargets:    failed,
	}

	status("Finished: extracting paper metadata.")
	return md
}

// CaptionImage extracts the caption for a single figure image. A single model
// call with no retry: a missing caption is an acceptable degraded result, so
// any failure is logged and collapses to the empty string.
func (o *Orchestrator) CaptionImage(ctx context.Context, imageBytes []byte, mimeType string) string {
	if mimeType == "" {
		mimeType = providers.DefaultImageMIMEType
	}

	result, err := o.client.Generate(ctx, &providers.GenerateRequest{
		System:        captionSystemPrompt,
		Prompt:        captionUserPrompt,
		ImageBytes:    imageBytes,
		ImageMIMEType: mimeType,
		Model:         o.fastModel,
	})
	if err != nil {
		o.logger.Error("image caption extraction failed", "error", err)
		return ""
	}
	return strings.TrimSpace(result.Content)
}
