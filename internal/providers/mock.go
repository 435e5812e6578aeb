package providers

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

const MockClientName = "mock"

// MockClient is an LLMClient for testing.
type MockClient struct {
	// Configurable behavior
	Latency      time.Duration
	ShouldFail   bool
	FailAfter    int // Fail after N requests (0 = never)
	ResponseText string

	// RespondFunc, when set, overrides all other response behavior and is
	// called once per request.
	RespondFunc func(req *GenerateRequest) (string, error)

	// State
	requestCount atomic.Int64
}

// NewMockClient creates a new mock client with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{
		ResponseText: "mock response",
	}
}

// Name returns the client identifier.
func (c *MockClient) Name() string {
	return MockClientName
}

// Model returns the mock model identifier.
func (c *MockClient) Model() string {
	return "mock-model"
}

// RequestCount returns the number of requests handled.
func (c *MockClient) RequestCount() int64 {
	return c.requestCount.Load()
}

// Generate returns the scripted response.
func (c *MockClient) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	start := time.Now()
	count := c.requestCount.Add(1)

	if c.Latency > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.Latency):
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if c.RespondFunc != nil {
		content, err := c.RespondFunc(req)
		if err != nil {
			return nil, &GenerationError{Provider: MockClientName, Err: err}
		}
		return c.result(content, count, start), nil
	}

	if c.ShouldFail {
		return nil, &GenerationError{Provider: MockClientName, Err: fmt.Errorf("mock failure")}
	}
	if c.FailAfter > 0 && count > int64(c.FailAfter) {
		return nil, &GenerationError{Provider: MockClientName, Err: fmt.Errorf("mock failure after %d requests", c.FailAfter)}
	}

	return c.result(c.ResponseText, count, start), nil
}

func (c *MockClient) result(content string, count int64, start time.Time) *GenerateResult {
	return &GenerateResult{
		Content:       content,
		Provider:      MockClientName,
		ModelUsed:     "mock-model",
		RequestID:     fmt.Sprintf("mock-%d", count),
		ExecutionTime: time.Since(start),
	}
}

// Verify interface
var _ LLMClient = (*MockClient)(nil)
