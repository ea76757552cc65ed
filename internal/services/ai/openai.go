package ai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"go.uber.org/zap"
)

const (
	// DefaultOpenAIModel is the default model to use
	DefaultOpenAIModel = "gpt-4o-mini"
	// DefaultOpenAIBaseURL is the default OpenAI API base URL
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	// DefaultOpenAITimeout bounds a single completion call.
	DefaultOpenAITimeout = 30 * time.Second
)

// OpenAIProvider implements Provider using OpenAI-compatible chat
// completions. Useful for self-hosted gateways that speak the same API.
type OpenAIProvider struct {
	client    openai.Client
	model     string
	logger    *zap.Logger
	debugMode bool
}

var _ Provider = (*OpenAIProvider)(nil)

// NewOpenAIProvider creates an OpenAI provider. A missing API key fails fast
// with ErrMissingCredential.
func NewOpenAIProvider(apiKey, baseURL, model string, logger *zap.Logger, debugMode bool) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, ErrMissingCredential
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	// Failures surface to the user immediately; the SDK's automatic
	// retries are disabled.
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(&http.Client{Timeout: DefaultOpenAITimeout}),
		option.WithMaxRetries(0),
	)

	return &OpenAIProvider{
		client:    client,
		model:     model,
		logger:    logger,
		debugMode: debugMode,
	}, nil
}

// complete sends one chat completion and extracts the first choice.
func (p *OpenAIProvider) complete(ctx context.Context, operation string, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	req := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(p.model),
		Messages: messages,
		// Temperature omitted - use model default to avoid "unsupported_value" errors
	}

	if p.logger != nil && p.debugMode {
		p.logger.Debug("ai_api_request",
			zap.String("operation", operation),
			zap.String("provider", "openai"),
			zap.String("model", p.model),
			zap.Int("message_count", len(messages)),
		)
	}

	start := time.Now()
	resp, err := p.client.Chat.Completions.New(ctx, req)
	latency := time.Since(start)
	if err != nil {
		if p.logger != nil && p.debugMode {
			p.logger.Debug("ai_api_error",
				zap.String("operation", operation),
				zap.String("provider", "openai"),
				zap.Error(err),
				zap.Int64("latency_ms", latency.Milliseconds()),
			)
		}
		return "", fmt.Errorf("calling assistant: %w: %v", ErrNoResponse, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no choices in response: %w", ErrNoResponse)
	}

	content := resp.Choices[0].Message.Content
	if p.logger != nil && p.debugMode {
		p.logger.Debug("ai_api_response",
			zap.String("operation", operation),
			zap.String("provider", "openai"),
			zap.Int("response_length", len(content)),
			zap.Int64("latency_ms", latency.Milliseconds()),
		)
	}
	return content, nil
}

// AskQuestion answers a free-text farming question.
func (p *OpenAIProvider) AskQuestion(ctx context.Context, question, langCode, location string) (string, error) {
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(systemInstruction(langCode, locationContext(location))),
		openai.UserMessage(question),
	}
	return p.complete(ctx, "ask_question", messages)
}

// ProcessVoiceQuery answers a spoken query from its transcript.
func (p *OpenAIProvider) ProcessVoiceQuery(ctx context.Context, transcript, langCode, location string) (string, error) {
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(systemInstruction(langCode, voiceContext(location))),
		openai.UserMessage(transcript),
	}
	return p.complete(ctx, "process_voice_query", messages)
}

// AnalyzeImage sends the crop photo as a data URL content part.
func (p *OpenAIProvider) AnalyzeImage(ctx context.Context, imageBase64, langCode, location string) (string, error) {
	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(imagePrompt),
		openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: "data:image/jpeg;base64," + imageBase64,
		}),
	}
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(systemInstruction(langCode, imageContext(location))),
		openai.UserMessage(parts),
	}
	return p.complete(ctx, "analyze_image", messages)
}

// RegisterOpenAI registers the OpenAI provider with the registry.
func RegisterOpenAI(registry *ProviderRegistry, logger *zap.Logger, debugMode bool) {
	registry.Register("openai", func(config map[string]string) (Provider, error) {
		return NewOpenAIProvider(config["api_key"], config["base_url"], config["model"], logger, debugMode)
	})
}
