package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/openpaper/papermeta/internal/providers"
)

// respondByTarget routes a request to a canned response by sniffing which
// target schema the prompt embeds.
func respondByTarget(responses map[string]string, fail map[string]bool) func(req *providers.GenerateRequest) (string, error) {
	keys := []string{"publish_date", "institutions", "summary_citations", "starter_questions", "highlights"}
	return func(req *providers.GenerateRequest) (string, error) {
		for _, key := range keys {
			if strings.Contains(req.Prompt, `"`+key+`"`) {
				if fail[key] {
					return "", fmt.Errorf("scripted failure for %s", key)
				}
				return responses[key], nil
			}
		}
		return "", fmt.Errorf("unrecognized prompt")
	}
}

func fullResponses() map[string]string {
	return map[string]string{
		"publish_date":      `{"title": "Attention Is All You Need", "authors": ["Vaswani", "Shazeer"], "abstract": "We propose the Transformer.", "publish_date": "2017-06-12"}`,
		"institutions":      `{"institutions": ["Google Brain"], "keywords": ["attention", "transformers"]}`,
		"summary_citations": `{"summary": "Introduces the Transformer.", "summary_citations": ["We propose a new architecture"]}`,
		"starter_questions": `{"starter_questions": ["What is self-attention?"]}`,
		"highlights":        `{"highlights": ["BLEU of 28.4 on WMT 2014"]}`,
	}
}

func testOrchestrator(client providers.LLMClient) *Orchestrator {
	return NewOrchestrator(client,
		WithLogger(slog.New(slog.DiscardHandler)),
		WithRetries(3, time.Millisecond),
	)
}

func TestExtractAll(t *testing.T) {
	t.Run("all targets succeed", func(t *testing.T) {
		client := providers.NewMockClient()
		client.RespondFunc = respondByTarget(fullResponses(), nil)

		md := testOrchestrator(client).ExtractAll(context.Background(), "paper content", "job-1", NopStatus)

		if md.Title != "Attention Is All You Need" {
			t.Errorf("title = %q", md.Title)
		}
		if len(md.Authors) != 2 {
			t.Errorf("authors = %v", md.Authors)
		}
		if md.PublishDate == nil || *md.PublishDate != "2017-06-12" {
			t.Errorf("publish_date = %v", md.PublishDate)
		}
		if len(md.Institutions) != 1 || md.Institutions[0] != "Google Brain" {
			t.Errorf("institutions = %v", md.Institutions)
		}
		if md.Summary != "Introduces the Transformer." {
			t.Errorf("summary = %q", md.Summary)
		}
		if len(md.StarterQuestions) != 1 {
			t.Errorf("starter_questions = %v", md.StarterQuestions)
		}
		if len(md.Highlights) != 1 {
			t.Errorf("highlights = %v", md.Highlights)
		}
		if len(md.FailedTargets) != 0 {
			t.Errorf("failed_targets = %v, want none", md.FailedTargets)
		}
	})

	t.Run("one failing target degrades to defaults", func(t *testing.T) {
		client := providers.NewMockClient()
		client.RespondFunc = respondByTarget(fullResponses(), map[string]bool{"institutions": true})

		md := testOrchestrator(client).ExtractAll(context.Background(), "paper content", "job-2", NopStatus)

		if md.Institutions == nil || len(md.Institutions) != 0 {
			t.Errorf("institutions = %v, want empty defaults", md.Institutions)
		}
		if md.Keywords == nil || len(md.Keywords) != 0 {
			t.Errorf("keywords = %v, want empty defaults", md.Keywords)
		}
		// The other four tasks are unaffected.
		if md.Title == "" || md.Summary == "" || len(md.StarterQuestions) == 0 || len(md.Highlights) == 0 {
			t.Error("expected remaining targets populated")
		}
		if len(md.FailedTargets) != 1 || md.FailedTargets[0] != "institutions_keywords" {
			t.Errorf("failed_targets = %v", md.FailedTargets)
		}
	})

	t.Run("total failure returns complete all-default record", func(t *testing.T) {
		client := providers.NewMockClient()
		client.ShouldFail = true

		md := testOrchestrator(client).ExtractAll(context.Background(), "paper content", "job-3", NopStatus)

		if md == nil {
			t.Fatal("expected a record, got nil")
		}
		if md.Title != "" || md.Abstract != "" || md.Summary != "" {
			t.Error("expected empty strings")
		}
		if md.PublishDate != nil {
			t.Errorf("publish_date = %v, want nil", md.PublishDate)
		}
		for name, s := range map[string][]string{
			"authors":           md.Authors,
			"institutions":      md.Institutions,
			"keywords":          md.Keywords,
			"summary_citations": md.SummaryCitations,
			"starter_questions": md.StarterQuestions,
			"highlights":        md.Highlights,
		} {
			if s == nil || len(s) != 0 {
				t.Errorf("%s = %v, want empty slice", name, s)
			}
		}
		if len(md.FailedTargets) != 5 {
			t.Errorf("failed_targets = %v, want all five", md.FailedTargets)
		}
	})

	t.Run("invalid JSON retried then defaulted", func(t *testing.T) {
		client := providers.NewMockClient()
		client.ResponseText = "no structure here at all"

		md := testOrchestrator(client).ExtractAll(context.Background(), "paper content", "job-4", NopStatus)

		if len(md.FailedTargets) != 5 {
			t.Errorf("failed_targets = %v, want all five", md.FailedTargets)
		}
		// Each of the 5 tasks makes 4 attempts (initial + 3 retries).
		if got := client.RequestCount(); got != 20 {
			t.Errorf("request count = %d, want 20", got)
		}
	})

	t.Run("status callback observes progress", func(t *testing.T) {
		client := providers.NewMockClient()
		client.RespondFunc = respondByTarget(fullResponses(), nil)

		var mu sync.Mutex
		var stages []string
		status := func(stage string) {
			mu.Lock()
			stages = append(stages, stage)
			mu.Unlock()
		}

		testOrchestrator(client).ExtractAll(context.Background(), "paper content", "job-5", status)

		if len(stages) != 7 { // start + five targets + finish
			t.Errorf("stages = %d: %v", len(stages), stages)
		}
	})
}

func TestExtractFieldRoundTrip(t *testing.T) {
	// A fenced response decodes to a record equal to the embedded object.
	client := providers.NewMockClient()
	client.ResponseText = "Extracted:\n```json\n{\"title\": \"Deep Residual Learning\", \"authors\": [\"He\", \"Zhang\"], \"abstract\": \"Residual nets.\", \"publish_date\": null}\n```"

	d := extractorDeps{
		client:          client,
		logger:          slog.New(slog.DiscardHandler),
		maxRetries:      3,
		retryDelay:      time.Millisecond,
		maxContentChars: MaxContentChars,
	}

	got, err := extractField(context.Background(), d, targetTitleAuthorsAbstract, "content", NopStatus)
	if err != nil {
		t.Fatalf("extractField() error = %v", err)
	}
	if got.Title != "Deep Residual Learning" {
		t.Errorf("title = %q", got.Title)
	}
	if len(got.Authors) != 2 || got.Authors[0] != "He" {
		t.Errorf("authors = %v", got.Authors)
	}
	if got.PublishDate != nil {
		t.Errorf("publish_date = %v, want nil", got.PublishDate)
	}
}

func TestExtractFieldKeepsDataWithExtraKeys(t *testing.T) {
	client := providers.NewMockClient()
	client.ResponseText = `{"institutions": ["MIT"], "keywords": ["robotics"], "journal": "Nature"}`

	d := extractorDeps{
		client:          client,
		logger:          slog.New(slog.DiscardHandler),
		maxRetries:      0,
		retryDelay:      time.Millisecond,
		maxContentChars: MaxContentChars,
	}

	got, err := extractField(context.Background(), d, targetInstitutionsKeywords, "content", NopStatus)
	if err != nil {
		t.Fatalf("extractField() error = %v", err)
	}
	if len(got.Institutions) != 1 || got.Institutions[0] != "MIT" {
		t.Errorf("institutions = %v", got.Institutions)
	}
	if len(got.Keywords) != 1 || got.Keywords[0] != "robotics" {
		t.Errorf("keywords = %v", got.Keywords)
	}
	if got := client.RequestCount(); got != 1 {
		t.Errorf("request count = %d, want 1 (no retries)", got)
	}
}

func TestExtractFieldTruncatesContent(t *testing.T) {
	var gotPrompt string
	client := providers.NewMockClient()
	client.RespondFunc = func(req *providers.GenerateRequest) (string, error) {
		gotPrompt = req.Prompt
		return `{"highlights": []}`, nil
	}

	d := extractorDeps{
		client:          client,
		logger:          slog.New(slog.DiscardHandler),
		maxRetries:      0,
		retryDelay:      time.Millisecond,
		maxContentChars: 100,
	}

	long := strings.Repeat("abcdefghij", 50)
	if _, err := extractField(context.Background(), d, targetHighlights, long, NopStatus); err != nil {
		t.Fatalf("extractField() error = %v", err)
	}
	if strings.Contains(gotPrompt, long) {
		t.Error("expected content to be truncated")
	}
	if !strings.Contains(gotPrompt, long[:100]) {
		t.Error("expected truncated prefix present")
	}
}

func TestCaptionImage(t *testing.T) {
	t.Run("returns trimmed caption", func(t *testing.T) {
		var gotReq *providers.GenerateRequest
		client := providers.NewMockClient()
		client.RespondFunc = func(req *providers.GenerateRequest) (string, error) {
			gotReq = req
			return "  Figure 3: Model architecture.  \n", nil
		}

		o := NewOrchestrator(client,
			WithLogger(slog.New(slog.DiscardHandler)),
			WithFastModel("fast-model"))

		caption := o.CaptionImage(context.Background(), []byte{0xFF, 0xD8}, "")
		if caption != "Figure 3: Model architecture." {
			t.Errorf("caption = %q", caption)
		}
		if len(gotReq.ImageBytes) == 0 {
			t.Error("expected image bytes on request")
		}
		if gotReq.ImageMIMEType != "image/jpeg" {
			t.Errorf("mime = %q, want default image/jpeg", gotReq.ImageMIMEType)
		}
		if gotReq.Model != "fast-model" {
			t.Errorf("model = %q, want fast model", gotReq.Model)
		}
	})

	t.Run("failure collapses to empty string", func(t *testing.T) {
		client := providers.NewMockClient()
		client.ShouldFail = true

		o := testOrchestrator(client)
		caption := o.CaptionImage(context.Background(), []byte{0x89, 0x50}, "image/png")
		if caption != "" {
			t.Errorf("caption = %q, want empty", caption)
		}
		// No retry for captions.
		if got := client.RequestCount(); got != 1 {
			t.Errorf("request count = %d, want 1", got)
		}
	})
}
