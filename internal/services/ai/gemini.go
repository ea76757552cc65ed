package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	logpkg "github.com/kisansathi/assistant/internal/logger"
)

const (
	// DefaultGeminiModel is the default generative-language model.
	DefaultGeminiModel = "gemini-1.5-flash-latest"
	// DefaultGeminiBaseURL is the generative-language API endpoint root.
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	// DefaultGeminiTimeout bounds a single completion call.
	DefaultGeminiTimeout = 30 * time.Second
)

// GeminiProvider implements Provider against the generative-language REST
// endpoint. The wire format sends a system_instruction plus user content
// parts and extracts the first candidate's first text part.
type GeminiProvider struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	debugMode  bool
}

var _ Provider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a Gemini provider. A missing API key fails fast
// with ErrMissingCredential so the caller never issues doomed requests.
func NewGeminiProvider(apiKey, baseURL, model string, logger *zap.Logger, debugMode bool) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, ErrMissingCredential
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	if baseURL == "" {
		baseURL = DefaultGeminiBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiProvider{
		apiKey:     apiKey,
		model:      model,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultGeminiTimeout},
		logger:     logger,
		debugMode:  debugMode,
	}, nil
}

// Wire types for the generateContent request/response.

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiRequest struct {
	Contents          []geminiContent         `json:"contents"`
	SystemInstruction *geminiContent          `json:"system_instruction,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// generate sends one generateContent request and extracts the completion.
func (p *GeminiProvider) generate(ctx context.Context, operation string, userParts []geminiPart, system string) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: userParts}},
		SystemInstruction: &geminiContent{
			Role:  "system",
			Parts: []geminiPart{{Text: system}},
		},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:     0.7,
			TopK:            40,
			TopP:            0.95,
			MaxOutputTokens: 1024,
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", p.baseURL, p.model, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if p.logger != nil && p.debugMode {
		p.logger.Debug("ai_api_request",
			zap.String("operation", operation),
			zap.String("provider", "gemini"),
			zap.String("model", p.model),
			zap.Int("payload_bytes", len(payload)),
		)
	}

	start := time.Now()
	resp, err := p.httpClient.Do(req)
	latency := time.Since(start)
	if err != nil {
		if p.logger != nil && p.debugMode {
			p.logger.Debug("ai_api_error",
				zap.String("operation", operation),
				zap.String("provider", "gemini"),
				zap.Error(err),
				zap.Int64("latency_ms", latency.Milliseconds()),
			)
		}
		return "", fmt.Errorf("calling assistant: %w: %v", ErrNoResponse, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{
			StatusCode: resp.StatusCode,
			Message:    logpkg.SanitizeErrorString(string(body)),
		}
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decoding response: %w", ErrNoResponse)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 ||
		parsed.Candidates[0].Content.Parts[0].Text == "" {
		return "", ErrNoResponse
	}

	text := parsed.Candidates[0].Content.Parts[0].Text
	if p.logger != nil && p.debugMode {
		p.logger.Debug("ai_api_response",
			zap.String("operation", operation),
			zap.String("provider", "gemini"),
			zap.Int("response_length", len(text)),
			zap.Int64("latency_ms", latency.Milliseconds()),
		)
	}
	return text, nil
}

// AskQuestion answers a free-text farming question.
func (p *GeminiProvider) AskQuestion(ctx context.Context, question, langCode, location string) (string, error) {
	system := systemInstruction(langCode, locationContext(location))
	return p.generate(ctx, "ask_question", []geminiPart{{Text: question}}, system)
}

// ProcessVoiceQuery answers a spoken query from its transcript.
func (p *GeminiProvider) ProcessVoiceQuery(ctx context.Context, transcript, langCode, location string) (string, error) {
	system := systemInstruction(langCode, voiceContext(location))
	return p.generate(ctx, "process_voice_query", []geminiPart{{Text: transcript}}, system)
}

// AnalyzeImage sends a base64 crop photo inline with the fixed analysis prompt.
func (p *GeminiProvider) AnalyzeImage(ctx context.Context, imageBase64, langCode, location string) (string, error) {
	system := systemInstruction(langCode, imageContext(location))
	parts := []geminiPart{
		{Text: imagePrompt},
		{InlineData: &geminiInlineData{MimeType: "image/jpeg", Data: imageBase64}},
	}
	return p.generate(ctx, "analyze_image", parts, system)
}

// RegisterGemini registers the Gemini provider with the registry.
func RegisterGemini(registry *ProviderRegistry, logger *zap.Logger, debugMode bool) {
	registry.Register("gemini", func(config map[string]string) (Provider, error) {
		return NewGeminiProvider(config["api_key"], config["base_url"], config["model"], logger, debugMode)
	})
}
