package extract

import (
	"context"
	"log/slog"
	"time"

	"github.com/openpaper/papermeta/internal/providers"
)

// MaxContentChars is the hard truncation applied to document content before
// it is embedded in a prompt. Longer documents are silently clipped, not
// chunked.
const MaxContentChars = 8000

type extractorDeps struct {
	client          providers.LLMClient
	logger          *slog.Logger
	maxRetries      uint
	retryDelay      time.Duration
	maxContentChars int
}

// extractField turns raw document content into one typed record. It never
// fails past this boundary: after exhausting retries it logs the error and
// returns the target's default. The error is returned alongside so the
// caller can attribute the fallback.
func extractField[T any](ctx context.Context, d extractorDeps, target Target[T], content string, status StatusFunc) (T, error) {
	status("Extracting " + target.Name + "...")

	out, err := withRetry(ctx, d.maxRetries, d.retryDelay, func(ctx context.Context) (T, error) {
		return extractOnce(ctx, d, target, content)
	})
	if err != nil {
		d.logger.Error("field extraction failed",
			"target", target.Name,
			"error", err)
		return target.Default(), err
	}
	return out, nil
}

// extractOnce performs a single generate → parse → validate → decode attempt.
func extractOnce[T any](ctx context.Context, d extractorDeps, target Target[T], content string) (T, error) {
	var zero T

	prompt := UserPrompt(target.SchemaJSON(), truncateRunes(content, d.maxContentChars))

	result, err := d.client.Generate(ctx, &providers.GenerateRequest{
		System: SystemPrompt(),
		Prompt: prompt,
	})
	if err != nil {
		return zero, err
	}

	parsed, err := parseModelJSON(result.Content)
	if err != nil {
		return zero, err
	}

	if err := target.Validate(parsed); err != nil {
		return zero, err
	}

	return target.Decode(parsed)
}

// truncateRunes clips s to at most max runes without splitting a character.
func truncateRunes(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
