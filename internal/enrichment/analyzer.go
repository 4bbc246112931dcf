package enrichment

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/feral-file/ff-project-intel/internal/config"
	"github.com/feral-file/ff-project-intel/internal/logger"
)

const (
	// ANALYZE_MAX_RETRIES bounds retries of a failed completion request
	ANALYZE_MAX_RETRIES = 2
	// ANALYZE_RETRY_INTERVAL is the wait between completion retries
	ANALYZE_RETRY_INTERVAL = 2 * time.Second
)

// Analyzer turns a prompt template into structured data.
// Analyze never fails: any error yields an empty map.
//
//go:generate mockgen -source=analyzer.go -destination=../mocks/analyzer.go -package=mocks -mock_names=Analyzer=MockAnalyzer,ChatClient=MockChatClient
type Analyzer interface {
	Analyze(ctx context.Context, template string, kwargs map[string]any) map[string]any
}

// ChatClient is the chat completion surface of an OpenAI-compatible endpoint
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type llmAnalyzer struct {
	client        ChatClient
	model         string
	temperature   float32
	jsonMode      bool
	retryInterval time.Duration
}

// AnalyzerOption configures an analyzer
type AnalyzerOption func(*llmAnalyzer)

// WithRetryInterval overrides the wait between completion retries
func WithRetryInterval(d time.Duration) AnalyzerOption {
	return func(a *llmAnalyzer) {
		a.retryInterval = d
	}
}

// NewAnalyzer creates an analyzer for the configured endpoint.
// Self-hosted endpoints do not get the JSON response format; their replies are parsed leniently.
func NewAnalyzer(cfg config.LLMConfig, opts ...AnalyzerOption) Analyzer {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return NewAnalyzerWithClient(openai.NewClientWithConfig(clientConfig), cfg.Model, cfg.Temperature, !isSelfHosted(cfg.BaseURL), opts...)
}

// NewAnalyzerWithClient creates an analyzer over an existing chat client
func NewAnalyzerWithClient(client ChatClient, model string, temperature float32, jsonMode bool, opts ...AnalyzerOption) Analyzer {
	a := &llmAnalyzer{
		client:        client,
		model:         model,
		temperature:   temperature,
		jsonMode:      jsonMode,
		retryInterval: ANALYZE_RETRY_INTERVAL,
	}
	for _, opt := range opts {
		opt(a)
	}

	logger.Info("Text analyzer initialized", zap.String("model", model), zap.Bool("json_mode", jsonMode))
	return a
}

func (a *llmAnalyzer) Analyze(ctx context.Context, template string, kwargs map[string]any) map[string]any {
	prompt := RenderPrompt(template, kwargs)
	logger.DebugCtx(ctx, "Analyzing text", zap.String("prompt", prompt))

	reply, err := a.complete(ctx, prompt)
	if err != nil {
		logger.ErrorCtx(ctx, err, zap.String("model", a.model))
		return map[string]any{}
	}
	if strings.TrimSpace(reply) == "" {
		return map[string]any{}
	}

	result, err := ExtractJSON(reply)
	if err != nil {
		logger.WarnCtx(ctx, "Discarding unparsable model reply",
			zap.String("reply", reply),
			zap.Error(err),
		)
		return map[string]any{}
	}

	return result
}

// complete sends one user message, retrying failed requests a bounded number of times
func (a *llmAnalyzer) complete(ctx context.Context, prompt string) (string, error) {
	request := openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: a.temperature,
	}
	if a.jsonMode {
		request.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	var reply string
	operation := func() error {
		resp, err := a.client.CreateChatCompletion(ctx, request)
		if err != nil {
			var apiErr *openai.APIError
			if errors.As(err, &apiErr) && apiErr.HTTPStatusCode >= 400 && apiErr.HTTPStatusCode < 500 && apiErr.HTTPStatusCode != http.StatusTooManyRequests {
				return backoff.Permanent(err)
			}
			return err
		}
		if len(resp.Choices) == 0 {
			return backoff.Permanent(errors.New("completion has no choices"))
		}
		reply = resp.Choices[0].Message.Content
		return nil
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(a.retryInterval), ANALYZE_MAX_RETRIES),
		ctx,
	)
	notify := func(err error, wait time.Duration) {
		logger.WarnCtx(ctx, "Completion request failed, retrying", zap.Error(err), zap.Duration("wait", wait))
	}
	if err := backoff.RetryNotify(operation, b, notify); err != nil {
		return "", err
	}

	return reply, nil
}

// isSelfHosted reports whether the endpoint is a local or private-network server
func isSelfHosted(baseURL string) bool {
	u, err := url.Parse(baseURL)
	if err != nil {
		return false
	}
	host := u.Hostname()
	return host == "localhost" || strings.HasPrefix(host, "127.") || strings.HasPrefix(host, "192.168.")
}
