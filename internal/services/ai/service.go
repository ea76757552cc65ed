package ai

import (
	"context"
	"fmt"
)

// Assistant composes domain prompts on top of a Provider. The three core
// query modes pass through; the remaining helpers phrase structured farming
// questions so pages don't build prompts themselves.
type Assistant struct {
	provider Provider
}

// NewAssistant wraps provider.
func NewAssistant(provider Provider) *Assistant {
	return &Assistant{provider: provider}
}

// AskQuestion answers a free-text farming question.
func (a *Assistant) AskQuestion(ctx context.Context, question, langCode, location string) (string, error) {
	return a.provider.AskQuestion(ctx, question, langCode, location)
}

// ProcessVoiceQuery answers a spoken query from its transcript.
func (a *Assistant) ProcessVoiceQuery(ctx context.Context, transcript, langCode, location string) (string, error) {
	return a.provider.ProcessVoiceQuery(ctx, transcript, langCode, location)
}

// AnalyzeImage analyzes a base64-encoded crop photo.
func (a *Assistant) AnalyzeImage(ctx context.Context, imageBase64, langCode, location string) (string, error) {
	return a.provider.AnalyzeImage(ctx, imageBase64, langCode, location)
}

// WeatherAdvice asks what farm work today's conditions allow.
func (a *Assistant) WeatherAdvice(ctx context.Context, condition string, temperatureC, humidity int, langCode, location string) (string, error) {
	prompt := fmt.Sprintf(
		"Today's weather: %s, Temperature: %d°C, Humidity: %d%%. What farming activities should I do today? What should I avoid?",
		condition, temperatureC, humidity)
	return a.provider.AskQuestion(ctx, prompt, langCode, location)
}

// IdentifyDisease asks for a diagnosis from crop symptoms.
func (a *Assistant) IdentifyDisease(ctx context.Context, symptoms, cropName, langCode string) (string, error) {
	prompt := fmt.Sprintf("My %s crop shows these symptoms: %s. What disease is this and how to treat it?",
		cropName, symptoms)
	return a.provider.AskQuestion(ctx, prompt, langCode, "")
}

// FertilizerAdvice asks for a fertilizer schedule for a crop and soil.
func (a *Assistant) FertilizerAdvice(ctx context.Context, cropName, soilType, growthStage, langCode string) (string, error) {
	prompt := fmt.Sprintf("I'm growing %s in %s soil. The crop is in %s stage. What fertilizers should I use and when?",
		cropName, soilType, growthStage)
	return a.provider.AskQuestion(ctx, prompt, langCode, "")
}
