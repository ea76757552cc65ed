package handlers

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/kisansathi/assistant/internal/i18n"
	"github.com/kisansathi/assistant/internal/models"
	"github.com/kisansathi/assistant/internal/services/voice"
	"github.com/kisansathi/assistant/internal/store"
)

// VoicePlatform bundles the capture primitives the voice flow runs on.
type VoicePlatform struct {
	Devices     voice.MediaDevices
	Recognizer  voice.Recognizer
	Recorder    voice.Recorder
	Synthesizer voice.Synthesizer
}

// VoiceHandler handles the voice question flow. One capture session exists
// at a time; starting a new one is rejected while recording.
type VoiceHandler struct {
	platform        VoicePlatform
	responder       voice.Responder
	history         voice.HistoryAppender
	state           *store.StateStore
	defaultLocation string
	logger          *zap.Logger

	mu      sync.Mutex
	session *voice.Session
}

// NewVoiceHandler creates a new voice handler
func NewVoiceHandler(platform VoicePlatform, responder voice.Responder, history voice.HistoryAppender,
	state *store.StateStore, defaultLocation string, logger *zap.Logger) *VoiceHandler {
	if defaultLocation == "" {
		defaultLocation = models.DefaultUserInfo().Location
	}
	return &VoiceHandler{
		platform:        platform,
		responder:       responder,
		history:         history,
		state:           state,
		defaultLocation: defaultLocation,
		logger:          logger,
	}
}

// RegisterRoutes registers voice routes on the given router
// The router should already have the /voice prefix
func (h *VoiceHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/start", h.Start).Methods("POST")
	r.HandleFunc("/stop", h.Stop).Methods("POST")
	r.HandleFunc("/cancel", h.Cancel).Methods("POST")
	r.HandleFunc("/retry", h.Retry).Methods("POST")
	r.HandleFunc("/speak", h.Speak).Methods("POST")
	r.HandleFunc("/state", h.State).Methods("GET")
}

// Start begins a capture session using the stored language and profile
func (h *VoiceHandler) Start(w http.ResponseWriter, r *http.Request) {
	if h.platform.Recognizer == nil || h.platform.Devices == nil {
		respondJSONError(w, http.StatusServiceUnavailable, "Not Supported", "Voice capture is not available on this platform")
		return
	}
	if h.responder == nil {
		respondJSONError(w, http.StatusServiceUnavailable, "Configuration Error", "AI assistant is not configured")
		return
	}

	h.mu.Lock()
	if h.session != nil && h.session.Snapshot().State == voice.StateRecording {
		h.mu.Unlock()
		respondJSONError(w, http.StatusConflict, "Conflict", voice.ErrAlreadyRecording.Error())
		return
	}

	lang, ok := h.state.Language()
	if !ok {
		lang, _ = i18n.LanguageByCode(i18n.DefaultLanguageCode)
	}
	location := h.defaultLocation
	if info, ok := h.state.UserInfo(); ok && info.Location != "" {
		location = info.Location
	}

	session := voice.NewSession(h.platform.Devices, h.platform.Recognizer, h.platform.Recorder,
		h.platform.Synthesizer, h.responder, h.history, lang, location, h.logger)
	h.session = session
	h.mu.Unlock()

	if err := session.Start(r.Context()); err != nil {
		if errors.Is(err, voice.ErrAlreadyRecording) {
			respondJSONError(w, http.StatusConflict, "Conflict", err.Error())
			return
		}
		// The snapshot carries the specific denial reason
		respondJSON(w, http.StatusOK, session.Snapshot())
		return
	}
	respondJSON(w, http.StatusOK, session.Snapshot())
}

// Stop ends the capture; a non-empty transcript auto-submits
func (h *VoiceHandler) Stop(w http.ResponseWriter, r *http.Request) {
	session := h.current()
	if session == nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "No capture session")
		return
	}
	session.Stop()
	respondJSON(w, http.StatusOK, session.Snapshot())
}

// Cancel discards the capture without submitting
func (h *VoiceHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	session := h.current()
	if session == nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "No capture session")
		return
	}
	session.Cancel()
	respondJSON(w, http.StatusOK, session.Snapshot())
}

// Retry resubmits a transcript whose first submission failed
func (h *VoiceHandler) Retry(w http.ResponseWriter, r *http.Request) {
	session := h.current()
	if session == nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "No capture session")
		return
	}
	if err := session.Resubmit(r.Context()); err != nil {
		respondJSONError(w, http.StatusConflict, "Conflict", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, session.Snapshot())
}

// Speak replays the response through the synthesizer
func (h *VoiceHandler) Speak(w http.ResponseWriter, r *http.Request) {
	session := h.current()
	if session == nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "No capture session")
		return
	}
	session.PlayResponse()
	respondJSON(w, http.StatusOK, session.Snapshot())
}

// State reports the current session snapshot
func (h *VoiceHandler) State(w http.ResponseWriter, r *http.Request) {
	session := h.current()
	if session == nil {
		respondJSON(w, http.StatusOK, voice.Snapshot{State: voice.StateIdle})
		return
	}
	respondJSON(w, http.StatusOK, session.Snapshot())
}

func (h *VoiceHandler) current() *voice.Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.session
}
