package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kisansathi/assistant/internal/models"
	"github.com/kisansathi/assistant/internal/services/history"
	"github.com/kisansathi/assistant/internal/validation"
)

// HistoryHandler handles interaction history requests
type HistoryHandler struct {
	log    *history.Log
	logger *zap.Logger
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(log *history.Log, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{log: log, logger: logger}
}

// ListHistory handles GET /history with optional type, search, and grouped
// query parameters
func (h *HistoryHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	filter := history.Filter{Search: r.URL.Query().Get("search")}
	if t := r.URL.Query().Get("type"); t != "" {
		if err := validation.ValidateInteractionType(t); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		filter.Type = models.InteractionType(t)
	}

	items := h.log.List(filter)

	if r.URL.Query().Get("grouped") == "true" {
		respondJSON(w, http.StatusOK, map[string]any{
			"groups": history.GroupByRecency(items, time.Now()),
			"total":  len(items),
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"total": len(items),
	})
}

// ExportHistory handles GET /history/export, returning the full unfiltered
// log as a JSON document
func (h *HistoryHandler) ExportHistory(w http.ResponseWriter, r *http.Request) {
	doc, err := h.log.Export()
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to export history")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=kisan-sathi-history.json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc); err != nil {
		h.logger.Warn("history_export_write_failed", zap.Error(err))
	}
}

// ClearHistory handles DELETE /history; requires confirm=true
func (h *HistoryHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Clearing history requires confirm=true")
		return
	}
	if err := h.log.Clear(); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to clear history")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"cleared": true})
}
