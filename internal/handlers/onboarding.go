package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/kisansathi/assistant/internal/models"
	"github.com/kisansathi/assistant/internal/services/onboarding"
	"github.com/kisansathi/assistant/internal/store"
	"github.com/kisansathi/assistant/internal/validation"
)

// OnboardingHandler handles the first-run flow and the home view
type OnboardingHandler struct {
	flow  *onboarding.Flow
	state *store.StateStore
}

// NewOnboardingHandler creates a new onboarding handler
func NewOnboardingHandler(flow *onboarding.Flow, state *store.StateStore) *OnboardingHandler {
	return &OnboardingHandler{flow: flow, state: state}
}

// RegisterRoutes registers onboarding routes on the given router
// The router should already have the /onboarding prefix
func (h *OnboardingHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/state", h.State).Methods("GET")
	r.HandleFunc("/permissions", h.CompletePermissions).Methods("POST")
	r.HandleFunc("/permissions/{kind}", h.RequestCapability).Methods("POST")
	r.HandleFunc("/language", h.SelectLanguage).Methods("POST")
	r.HandleFunc("/profile", h.SubmitProfile).Methods("POST")
	r.HandleFunc("/complete", h.Complete).Methods("POST")
}

// StateResponse describes where the client should resume
type StateResponse struct {
	Step     onboarding.Step  `json:"step"`
	Language *models.Language `json:"language,omitempty"`
	UserInfo *models.UserInfo `json:"userInfo,omitempty"`
}

// State reports the resume step plus whatever markers are already set
func (h *OnboardingHandler) State(w http.ResponseWriter, r *http.Request) {
	resp := StateResponse{Step: h.flow.Resume()}
	if lang, ok := h.state.Language(); ok {
		resp.Language = &lang
	}
	if info, ok := h.state.UserInfo(); ok {
		resp.UserInfo = &info
	}
	respondJSON(w, http.StatusOK, resp)
}

// RequestCapability probes one platform capability (camera or microphone)
func (h *OnboardingHandler) RequestCapability(w http.ResponseWriter, r *http.Request) {
	kind := models.CapabilityKind(mux.Vars(r)["kind"])
	if kind != models.CapabilityCamera && kind != models.CapabilityMicrophone {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "capability must be 'camera' or 'microphone'")
		return
	}

	result := h.flow.RequestCapability(r.Context(), kind)
	respondJSON(w, http.StatusOK, map[string]any{
		"capability": kind,
		"result":     result,
	})
}

// CompletePermissions marks the permissions screen as passed
func (h *OnboardingHandler) CompletePermissions(w http.ResponseWriter, r *http.Request) {
	if err := h.flow.CompletePermissions(); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to save onboarding state")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"step": h.flow.Resume()})
}

// SelectLanguageRequest represents a language selection
type SelectLanguageRequest struct {
	Code string `json:"code" validate:"required"`
}

// SelectLanguage persists the chosen language
func (h *OnboardingHandler) SelectLanguage(w http.ResponseWriter, r *http.Request) {
	var req SelectLanguageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON body")
		return
	}
	if err := validation.Validate.Struct(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	lang, err := h.flow.SelectLanguage(req.Code)
	if err != nil {
		if errors.Is(err, onboarding.ErrUnknownLanguage) {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to save language")
		return
	}
	respondJSON(w, http.StatusOK, lang)
}

// SubmitProfileRequest represents the profile form; Skip selects the default
// profile instead
type SubmitProfileRequest struct {
	Name     string `json:"name" validate:"max=100"`
	Location string `json:"location" validate:"max=100"`
	Skip     bool   `json:"skip"`
}

// SubmitProfile persists the entered or default profile
func (h *OnboardingHandler) SubmitProfile(w http.ResponseWriter, r *http.Request) {
	var req SubmitProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON body")
		return
	}
	if err := validation.Validate.Struct(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	if req.Skip {
		info, err := h.flow.SkipProfile()
		if err != nil {
			respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to save profile")
			return
		}
		respondJSON(w, http.StatusOK, info)
		return
	}

	info := models.UserInfo{
		Name:     validation.SanitizeText(req.Name),
		Location: validation.SanitizeText(req.Location),
	}
	if info.Location == "" {
		info.Location = models.DefaultUserInfo().Location
	}
	if err := h.flow.SubmitProfile(info); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to save profile")
		return
	}
	respondJSON(w, http.StatusOK, info)
}

// Complete finishes onboarding
func (h *OnboardingHandler) Complete(w http.ResponseWriter, r *http.Request) {
	if err := h.flow.CompleteWelcome(); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to save onboarding state")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"step": h.flow.Resume()})
}

// Home handles the main-screen greeting and daily reminder
func (h *OnboardingHandler) Home(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.flow.Home(time.Now()))
}
