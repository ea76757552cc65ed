package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kisansathi/assistant/internal/i18n"
	"github.com/kisansathi/assistant/internal/models"
	"github.com/kisansathi/assistant/internal/services/ai"
	"github.com/kisansathi/assistant/internal/services/history"
	"github.com/kisansathi/assistant/internal/store"
	"github.com/kisansathi/assistant/internal/validation"
)

// AskHandler handles text and image questions
type AskHandler struct {
	assistant       *ai.Assistant
	history         *history.Log
	state           *store.StateStore
	defaultLocation string
	logger          *zap.Logger
}

// NewAskHandler creates a new ask handler. assistant may be nil when no API
// key is configured; requests then get a configuration error.
func NewAskHandler(assistant *ai.Assistant, historyLog *history.Log, state *store.StateStore, defaultLocation string, logger *zap.Logger) *AskHandler {
	if defaultLocation == "" {
		defaultLocation = models.DefaultUserInfo().Location
	}
	return &AskHandler{assistant: assistant, history: historyLog, state: state, defaultLocation: defaultLocation, logger: logger}
}

// AskTextRequest represents a typed question
type AskTextRequest struct {
	Question string `json:"question" validate:"required,min=1,max=4000"`
}

// AskImageRequest represents a photographed question; ImageBase64 is the raw
// JPEG frame without a data URL prefix
type AskImageRequest struct {
	ImageBase64 string `json:"imageBase64" validate:"required"`
	Question    string `json:"question" validate:"max=4000"`
}

// AskResponse carries the assistant's answer
type AskResponse struct {
	Response string `json:"response"`
	Language string `json:"language"`
}

// AskText handles POST /ask/text
func (h *AskHandler) AskText(w http.ResponseWriter, r *http.Request) {
	if h.assistant == nil {
		respondJSONError(w, http.StatusServiceUnavailable, "Configuration Error", "AI assistant is not configured")
		return
	}

	var req AskTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.decodeError(w, err)
		return
	}
	req.Question = validation.SanitizeText(req.Question)
	if err := validation.Validate.Struct(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	langCode, location := h.context()
	answer, err := h.assistant.AskQuestion(r.Context(), req.Question, langCode, location)
	if err != nil {
		h.upstreamError(w, err)
		return
	}

	h.append(models.InteractionText, req.Question, answer, langCode)
	respondJSON(w, http.StatusOK, AskResponse{Response: answer, Language: langCode})
}

// AskImage handles POST /ask/image
func (h *AskHandler) AskImage(w http.ResponseWriter, r *http.Request) {
	if h.assistant == nil {
		respondJSONError(w, http.StatusServiceUnavailable, "Configuration Error", "AI assistant is not configured")
		return
	}

	var req AskImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.decodeError(w, err)
		return
	}
	if err := validation.Validate.Struct(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	langCode, location := h.context()
	answer, err := h.assistant.AnalyzeImage(r.Context(), req.ImageBase64, langCode, location)
	if err != nil {
		h.upstreamError(w, err)
		return
	}

	query := validation.SanitizeText(req.Question)
	if query == "" {
		query = "Image analysis"
	}
	h.append(models.InteractionImage, query, answer, langCode)
	respondJSON(w, http.StatusOK, AskResponse{Response: answer, Language: langCode})
}

func (h *AskHandler) context() (langCode, location string) {
	langCode = i18n.DefaultLanguageCode
	if lang, ok := h.state.Language(); ok {
		langCode = lang.Code
	}
	location = h.defaultLocation
	if info, ok := h.state.UserInfo(); ok && info.Location != "" {
		location = info.Location
	}
	return langCode, location
}

func (h *AskHandler) append(kind models.InteractionType, query, answer, langCode string) {
	if err := h.history.Append(models.HistoryItem{
		Type:      kind,
		Query:     query,
		Response:  answer,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Language:  langCode,
	}); err != nil {
		h.logger.Warn("history_append_failed", zap.Error(err))
	}
}

func (h *AskHandler) decodeError(w http.ResponseWriter, err error) {
	if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
		respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large",
			fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
		return
	}
	respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON body")
}

func (h *AskHandler) upstreamError(w http.ResponseWriter, err error) {
	switch {
	case ai.IsConfigurationError(err):
		respondJSONError(w, http.StatusServiceUnavailable, "Configuration Error", "AI assistant is not configured")
	case ai.IsTransient(err):
		h.logger.Warn("ai_upstream_failed", zap.Error(err))
		respondJSONError(w, http.StatusBadGateway, "Bad Gateway", "AI assistant is temporarily unavailable")
	default:
		h.logger.Error("ai_request_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to process question")
	}
}
