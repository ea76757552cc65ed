package ai

import (
	"fmt"
	"strings"

	"github.com/kisansathi/assistant/internal/i18n"
)

// systemInstruction builds the behavioral preamble sent with every request:
// response language, agricultural primer, tone constraints, and an optional
// call-specific context note.
func systemInstruction(langCode, context string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert agricultural AI assistant helping Indian farmers. Always respond in %s language.\n\n",
		i18n.PromptLanguageName(langCode))
	b.WriteString(`Provide practical, actionable advice for farming issues. Focus on:
- Crop diseases and pest management
- Fertilizer and nutrition recommendations
- Weather-based farming advice
- Best practices for Indian agriculture
- Local solutions using easily available resources

Keep responses concise but comprehensive. Use simple language that farmers can understand.

Do not use markdown or any other formatting.`)
	if context != "" {
		b.WriteString("\n\nContext: ")
		b.WriteString(context)
	}
	return b.String()
}

// locationContext is the context note for plain text questions.
func locationContext(location string) string {
	if location == "" {
		return ""
	}
	return "User location: " + location
}

// voiceContext marks the query as spoken so the model tolerates
// transcription noise.
func voiceContext(location string) string {
	if location == "" {
		return "This was spoken by voice."
	}
	return "User location: " + location + ". This was spoken by voice."
}

// imageContext is the context note for crop photo analysis.
func imageContext(location string) string {
	if location == "" {
		return "Provide detailed farming advice based on what you see in the image."
	}
	return "User location: " + location + ". Provide detailed farming advice based on what you see in the image."
}

// imagePrompt is the fixed user prompt accompanying an uploaded crop photo.
const imagePrompt = "Please analyze this crop image and provide farming advice."
