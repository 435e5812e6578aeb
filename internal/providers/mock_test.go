package providers

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestMockClientGenerate(t *testing.T) {
	t.Run("returns scripted text", func(t *testing.T) {
		client := NewMockClient()
		client.ResponseText = "hello"

		result, err := client.Generate(context.Background(), &GenerateRequest{Prompt: "hi"})
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if result.Content != "hello" {
			t.Errorf("content = %q", result.Content)
		}
		if result.Provider != MockClientName {
			t.Errorf("provider = %q", result.Provider)
		}
		if client.RequestCount() != 1 {
			t.Errorf("request count = %d", client.RequestCount())
		}
	})

	t.Run("ShouldFail wraps GenerationError", func(t *testing.T) {
		client := NewMockClient()
		client.ShouldFail = true

		_, err := client.Generate(context.Background(), &GenerateRequest{Prompt: "hi"})
		var genErr *GenerationError
		if !errors.As(err, &genErr) {
			t.Fatalf("error = %T, want *GenerationError", err)
		}
		if genErr.Provider != MockClientName {
			t.Errorf("provider = %q", genErr.Provider)
		}
	})

	t.Run("FailAfter trips on the following request", func(t *testing.T) {
		client := NewMockClient()
		client.FailAfter = 2

		for i := 0; i < 2; i++ {
			if _, err := client.Generate(context.Background(), &GenerateRequest{Prompt: "hi"}); err != nil {
				t.Fatalf("request %d: %v", i+1, err)
			}
		}
		if _, err := client.Generate(context.Background(), &GenerateRequest{Prompt: "hi"}); err == nil {
			t.Fatal("expected failure on third request")
		}
	})

	t.Run("RespondFunc sees the request", func(t *testing.T) {
		client := NewMockClient()
		client.RespondFunc = func(req *GenerateRequest) (string, error) {
			return "echo: " + req.Prompt, nil
		}

		result, err := client.Generate(context.Background(), &GenerateRequest{Prompt: "ping"})
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if result.Content != "echo: ping" {
			t.Errorf("content = %q", result.Content)
		}
	})

	t.Run("RespondFunc error wraps GenerationError", func(t *testing.T) {
		client := NewMockClient()
		client.RespondFunc = func(req *GenerateRequest) (string, error) {
			return "", fmt.Errorf("scripted")
		}

		_, err := client.Generate(context.Background(), &GenerateRequest{Prompt: "hi"})
		var genErr *GenerationError
		if !errors.As(err, &genErr) {
			t.Fatalf("error = %T, want *GenerationError", err)
		}
	})

	t.Run("latency respects cancellation", func(t *testing.T) {
		client := NewMockClient()
		client.Latency = time.Second

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.Generate(ctx, &GenerateRequest{Prompt: "hi"})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	})
}
