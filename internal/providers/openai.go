package providers

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	OpenAIName = "openai"

	openAIDefaultModel       = "gpt-4o-mini"
	openAIDefaultTemperature = 0.1
	openAIDefaultMaxTokens   = 4000
)

// OpenAIConfig holds configuration for the OpenAI client.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string // Optional (OpenAI-compatible gateways, tests)
	Model       string // "gpt-4o-mini" (default)
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration // HTTP timeout (default: 120s)
	HTTPClient  *http.Client  // Optional (tests)
	Logger      *slog.Logger
}

// OpenAIClient implements LLMClient using the official OpenAI SDK against an
// OpenAI-compatible chat completions endpoint.
//
// The underlying SDK client is created lazily on first use so construction
// never fails; a missing credential surfaces as a ConfigurationError from the
// first Generate call.
type OpenAIClient struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
	logger      *slog.Logger

	mu     sync.Mutex
	client *openai.Client
}

// NewOpenAIClient creates a new OpenAI chat client.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if cfg.Model == "" {
		cfg.Model = openAIDefaultModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = openAIDefaultTemperature
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = openAIDefaultMaxTokens
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &OpenAIClient{
		apiKey:      cfg.APIKey,
		baseURL:     cfg.BaseURL,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		httpClient:  httpClient,
		logger:      cfg.Logger,
	}
}

// Name returns the client identifier.
func (c *OpenAIClient) Name() string {
	return OpenAIName
}

// Model returns the configured default model.
func (c *OpenAIClient) Model() string {
	return c.model
}

// Refresh drops the cached SDK client so the next call reconnects.
func (c *OpenAIClient) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.client = nil
}

// ensureClient lazily builds the SDK client, guarded against concurrent
// double-initialization. The cached client is reused across concurrent calls.
func (c *OpenAIClient) ensureClient() (*openai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client, nil
	}
	if c.apiKey == "" {
		return nil, &ConfigurationError{Message: "OpenAI API key is not set"}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(c.apiKey),
		option.WithHTTPClient(c.httpClient),
		// Retries belong to the extraction layer, not the transport.
		option.WithMaxRetries(0),
	}
	if c.baseURL != "" {
		opts = append(opts, option.WithBaseURL(c.baseURL))
	}

	client := openai.NewClient(opts...)
	c.client = &client
	return c.client, nil
}

// Generate sends a system+user exchange and returns the raw completion text.
// When image bytes are supplied the user message becomes a multi-part payload
// with the image inlined as a base64 data URI.
func (c *OpenAIClient) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	start := time.Now()

	client, err := c.ensureClient()
	if err != nil {
		return nil, err
	}

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	model := req.Model
	if model == "" {
		model = c.model
	}
	temperature := c.temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	maxTokens := c.maxTokens
	if req.MaxTokens != nil {
		maxTokens = *req.MaxTokens
	}

	var userMsg openai.ChatCompletionMessageParamUnion
	if len(req.ImageBytes) > 0 {
		mimeType := req.ImageMIMEType
		if mimeType == "" {
			mimeType = DefaultImageMIMEType
		}
		dataURI := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(req.ImageBytes)
		userMsg = openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
			openai.TextContentPart(req.Prompt),
			openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: dataURI}),
		})
	} else {
		userMsg = openai.UserMessage(req.Prompt)
	}

	messages := []openai.ChatCompletionMessageParamUnion{}
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, userMsg)

	completion, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       model,
		Messages:    messages,
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(int64(maxTokens)),
	})
	if err != nil {
		genErr := &GenerationError{Provider: OpenAIName, Err: mapOpenAIError(err)}
		c.logger.Error("content generation failed",
			"request_id", requestID,
			"model", model,
			"error", genErr)
		return nil, genErr
	}

	if len(completion.Choices) == 0 {
		genErr := &GenerationError{Provider: OpenAIName, Err: fmt.Errorf("no choices in response")}
		c.logger.Error("content generation failed",
			"request_id", requestID,
			"model", model,
			"error", genErr)
		return nil, genErr
	}

	return &GenerateResult{
		Content:          completion.Choices[0].Message.Content,
		PromptTokens:     int(completion.Usage.PromptTokens),
		CompletionTokens: int(completion.Usage.CompletionTokens),
		TotalTokens:      int(completion.Usage.TotalTokens),
		Provider:         OpenAIName,
		ModelUsed:        completion.Model,
		RequestID:        requestID,
		ExecutionTime:    time.Since(start),
	}, nil
}

// mapOpenAIError unwraps SDK API errors into readable messages.
func mapOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return fmt.Errorf("OpenAI error (status %d): %s", apiErr.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("OpenAI error (status %d)", apiErr.StatusCode)
	}
	return err
}

// Verify interface
var _ LLMClient = (*OpenAIClient)(nil)
