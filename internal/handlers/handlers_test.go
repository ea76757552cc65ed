package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/kisansathi/assistant/internal/models"
	"github.com/kisansathi/assistant/internal/services/ai"
	"github.com/kisansathi/assistant/internal/services/history"
	"github.com/kisansathi/assistant/internal/services/onboarding"
	"github.com/kisansathi/assistant/internal/services/tasks"
	"github.com/kisansathi/assistant/internal/services/weather"
	"github.com/kisansathi/assistant/internal/store"
)

// stubProvider is a canned assistant backend recording what it was asked.
type stubProvider struct {
	answer string
	err    error
	calls  []stubCall
}

type stubCall struct {
	method   string
	input    string
	langCode string
	location string
}

func (s *stubProvider) AskQuestion(_ context.Context, question, langCode, location string) (string, error) {
	s.calls = append(s.calls, stubCall{"ask", question, langCode, location})
	return s.answer, s.err
}

func (s *stubProvider) ProcessVoiceQuery(_ context.Context, transcript, langCode, location string) (string, error) {
	s.calls = append(s.calls, stubCall{"voice", transcript, langCode, location})
	return s.answer, s.err
}

func (s *stubProvider) AnalyzeImage(_ context.Context, imageBase64, langCode, location string) (string, error) {
	s.calls = append(s.calls, stubCall{"image", imageBase64, langCode, location})
	return s.answer, s.err
}

// testDefaultLocation stands in for the configured DEFAULT_LOCATION value.
const testDefaultLocation = "Delhi"

type testEnv struct {
	kv       *store.MemoryKV
	state    *store.StateStore
	provider *stubProvider
	router   *mux.Router
}

// newTestEnv wires the full API surface against an in-memory store, mirroring
// the server's route layout without middleware.
func newTestEnv(t *testing.T, weatherClient *weather.Client) *testEnv {
	t.Helper()

	logger := zap.NewNop()
	kv := store.NewMemoryKV()
	state := store.NewStateStore(kv, logger)
	provider := &stubProvider{answer: "Apply organic compost."}
	assistant := ai.NewAssistant(provider)
	historyLog := history.NewLog(state, logger)
	scheduler := tasks.NewScheduler(state, logger)
	flow := onboarding.NewFlow(state, nil, logger)

	r := mux.NewRouter()
	r.HandleFunc("/healthz", NewHealthChecker(kv).HealthCheck).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	onboardingHandler := NewOnboardingHandler(flow, state)
	onboardingHandler.RegisterRoutes(api.PathPrefix("/onboarding").Subrouter())
	api.HandleFunc("/home", onboardingHandler.Home).Methods("GET")

	NewTaskHandler(scheduler, state).RegisterRoutes(api.PathPrefix("/tasks").Subrouter())

	historyHandler := NewHistoryHandler(historyLog, logger)
	api.HandleFunc("/history", historyHandler.ListHistory).Methods("GET")
	api.HandleFunc("/history", historyHandler.ClearHistory).Methods("DELETE")
	api.HandleFunc("/history/export", historyHandler.ExportHistory).Methods("GET")

	api.HandleFunc("/weather", NewWeatherHandler(weatherClient, state, testDefaultLocation, logger).GetWeather).Methods("GET")

	askHandler := NewAskHandler(assistant, historyLog, state, testDefaultLocation, logger)
	api.HandleFunc("/ask/text", askHandler.AskText).Methods("POST")
	api.HandleFunc("/ask/image", askHandler.AskImage).Methods("POST")

	voiceHandler := NewVoiceHandler(VoicePlatform{}, assistant, historyLog, state, testDefaultLocation, logger)
	voiceHandler.RegisterRoutes(api.PathPrefix("/voice").Subrouter())

	return &testEnv{kv: kv, state: state, provider: provider, router: r}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if raw, ok := body.(string); ok {
		reader = bytes.NewReader([]byte(raw))
	} else if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decoding response envelope: %v (body %q)", err, rec.Body.String())
		}
	}
	return rec, env
}

func (e *testEnv) dataInto(t *testing.T, env envelope, out any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decoding data payload: %v (data %s)", err, env.Data)
	}
}

func (e *testEnv) completeOnboarding(t *testing.T, langCode, location string) {
	t.Helper()
	if rec, _ := e.do(t, "POST", "/api/v1/onboarding/permissions", nil); rec.Code != http.StatusOK {
		t.Fatalf("permissions step: status %d", rec.Code)
	}
	if rec, _ := e.do(t, "POST", "/api/v1/onboarding/language", map[string]string{"code": langCode}); rec.Code != http.StatusOK {
		t.Fatalf("language step: status %d", rec.Code)
	}
	if rec, _ := e.do(t, "POST", "/api/v1/onboarding/profile", map[string]any{"name": "Ramesh", "location": location}); rec.Code != http.StatusOK {
		t.Fatalf("profile step: status %d", rec.Code)
	}
	if rec, _ := e.do(t, "POST", "/api/v1/onboarding/complete", nil); rec.Code != http.StatusOK {
		t.Fatalf("complete step: status %d", rec.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	req := httptest.NewRequest("GET", "/healthz", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("basic health: status %d", rec.Code)
	}

	req = httptest.NewRequest("GET", "/healthz?mode=extended", nil)
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("extended health: status %d", rec.Code)
	}
	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding health response: %v", err)
	}
	if resp.Status != "healthy" || resp.Checks["store"] != "healthy" {
		t.Errorf("unexpected extended health %+v", resp)
	}
}

func TestOnboardingProgression(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	var state StateResponse
	_, resp := env.do(t, "GET", "/api/v1/onboarding/state", nil)
	env.dataInto(t, resp, &state)
	if state.Step != onboarding.StepPermissions {
		t.Fatalf("fresh install should start at permissions, got %q", state.Step)
	}

	env.completeOnboarding(t, "en", "Ludhiana")

	_, resp = env.do(t, "GET", "/api/v1/onboarding/state", nil)
	env.dataInto(t, resp, &state)
	if state.Step != onboarding.StepMain {
		t.Errorf("expected main after onboarding, got %q", state.Step)
	}
	if state.Language == nil || state.Language.Code != "en" {
		t.Errorf("language marker missing from state: %+v", state.Language)
	}
	if state.UserInfo == nil || state.UserInfo.Location != "Ludhiana" {
		t.Errorf("profile marker missing from state: %+v", state.UserInfo)
	}
}

func TestSelectLanguage_UnknownCode(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	rec, resp := env.do(t, "POST", "/api/v1/onboarding/language", map[string]string{"code": "zz"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown language, got %d", rec.Code)
	}
	if resp.Success {
		t.Error("error responses must carry success=false")
	}
}

func TestSubmitProfile_Skip(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	rec, resp := env.do(t, "POST", "/api/v1/onboarding/profile", map[string]any{"skip": true})
	if rec.Code != http.StatusOK {
		t.Fatalf("skip profile: status %d", rec.Code)
	}
	var info models.UserInfo
	env.dataInto(t, resp, &info)
	if info.Name != "" || info.Location != "India" {
		t.Errorf("skip should store the default profile, got %+v", info)
	}
}

func TestAskText_AppendsHistory(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)
	env.completeOnboarding(t, "en", "Ludhiana")

	rec, resp := env.do(t, "POST", "/api/v1/ask/text", map[string]string{"question": "When should I sow wheat?"})
	if rec.Code != http.StatusOK {
		t.Fatalf("ask text: status %d body %s", rec.Code, rec.Body.String())
	}
	var answer AskResponse
	env.dataInto(t, resp, &answer)
	if answer.Response != "Apply organic compost." || answer.Language != "en" {
		t.Errorf("unexpected answer %+v", answer)
	}

	if len(env.provider.calls) != 1 {
		t.Fatalf("expected 1 provider call, got %d", len(env.provider.calls))
	}
	call := env.provider.calls[0]
	if call.langCode != "en" || call.location != "Ludhiana" {
		t.Errorf("provider should receive the stored context, got %+v", call)
	}

	_, resp = env.do(t, "GET", "/api/v1/history", nil)
	var listed struct {
		Items []models.HistoryItem `json:"items"`
		Total int                  `json:"total"`
	}
	env.dataInto(t, resp, &listed)
	if listed.Total != 1 || len(listed.Items) != 1 {
		t.Fatalf("expected one history item, got %+v", listed)
	}
	item := listed.Items[0]
	if item.Type != models.InteractionText || item.Query != "When should I sow wheat?" {
		t.Errorf("unexpected history item %+v", item)
	}
}

func TestAskText_DefaultLocationFallback(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	rec, _ := env.do(t, "POST", "/api/v1/ask/text", map[string]string{"question": "When to harvest?"})
	if rec.Code != http.StatusOK {
		t.Fatalf("ask text: status %d", rec.Code)
	}
	if len(env.provider.calls) != 1 {
		t.Fatalf("expected 1 provider call, got %d", len(env.provider.calls))
	}
	if got := env.provider.calls[0].location; got != testDefaultLocation {
		t.Errorf("provider location = %q, want the configured default %q", got, testDefaultLocation)
	}
}

func TestAskText_NotConfigured(t *testing.T) {
	t.Parallel()

	logger := zap.NewNop()
	state := store.NewStateStore(store.NewMemoryKV(), logger)
	historyLog := history.NewLog(state, logger)
	handler := NewAskHandler(nil, historyLog, state, "", logger)

	body := bytes.NewReader([]byte(`{"question":"hello"}`))
	req := httptest.NewRequest("POST", "/api/v1/ask/text", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.AskText(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if env.Error != "Configuration Error" {
		t.Errorf("error = %q, want Configuration Error", env.Error)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/api/v1/ask/image", bytes.NewReader([]byte(`{"imageBase64":"aGk="}`)))
	handler.AskImage(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("image status = %d, want 503", rec.Code)
	}
}

func TestAskText_UpstreamErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"missing credential", ai.ErrMissingCredential, http.StatusServiceUnavailable},
		{"transient upstream", &ai.APIError{StatusCode: 429}, http.StatusBadGateway},
		{"unexpected failure", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t, nil)
			env.provider.err = tt.err

			rec, _ := env.do(t, "POST", "/api/v1/ask/text", map[string]string{"question": "hello"})
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			_, resp := env.do(t, "GET", "/api/v1/history", nil)
			var listed struct {
				Total int `json:"total"`
			}
			env.dataInto(t, resp, &listed)
			if listed.Total != 0 {
				t.Error("failed questions must not be recorded in history")
			}
		})
	}
}

func TestAskText_BadRequests(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	rec, _ := env.do(t, "POST", "/api/v1/ask/text", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed JSON: status = %d, want 400", rec.Code)
	}

	rec, _ = env.do(t, "POST", "/api/v1/ask/text", map[string]string{"question": "   "})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("whitespace question: status = %d, want 400", rec.Code)
	}
	if len(env.provider.calls) != 0 {
		t.Error("rejected requests must not reach the provider")
	}
}

func TestAskImage_DefaultQueryLabel(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	rec, _ := env.do(t, "POST", "/api/v1/ask/image", map[string]string{"imageBase64": "aGVsbG8="})
	if rec.Code != http.StatusOK {
		t.Fatalf("ask image: status %d body %s", rec.Code, rec.Body.String())
	}

	_, resp := env.do(t, "GET", "/api/v1/history", nil)
	var listed struct {
		Items []models.HistoryItem `json:"items"`
	}
	env.dataInto(t, resp, &listed)
	if len(listed.Items) != 1 {
		t.Fatalf("expected one history item, got %d", len(listed.Items))
	}
	if listed.Items[0].Type != models.InteractionImage || listed.Items[0].Query != "Image analysis" {
		t.Errorf("questionless image should be labeled, got %+v", listed.Items[0])
	}
}

func TestTaskEndpoints(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	rec, resp := env.do(t, "POST", "/api/v1/tasks", map[string]string{"title": "Spray neem oil", "date": "2025-09-20"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create task: status %d body %s", rec.Code, rec.Body.String())
	}
	var created models.Task
	env.dataInto(t, resp, &created)
	if created.ID == "" || created.Title != "Spray neem oil" {
		t.Errorf("unexpected created task %+v", created)
	}

	rec, resp = env.do(t, "POST", "/api/v1/tasks", map[string]string{"title": "   ", "date": "2025-09-20"})
	if rec.Code != http.StatusOK {
		t.Fatalf("whitespace title: status %d", rec.Code)
	}
	var addResult struct {
		Added bool `json:"added"`
	}
	env.dataInto(t, resp, &addResult)
	if addResult.Added {
		t.Error("whitespace-only title must not add a task")
	}

	rec, _ = env.do(t, "POST", "/api/v1/tasks", map[string]string{"title": "x", "date": "20-09-2025"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed date: status = %d, want 400", rec.Code)
	}

	_, resp = env.do(t, "GET", "/api/v1/tasks?date=2025-09-20", nil)
	var listed ListTasksResponse
	env.dataInto(t, resp, &listed)
	if len(listed.Pending) != 1 || len(listed.Completed) != 0 {
		t.Fatalf("unexpected partitions %+v", listed)
	}

	rec, resp = env.do(t, "POST", "/api/v1/tasks/"+created.ID+"/toggle", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle: status %d", rec.Code)
	}
	var toggled models.Task
	env.dataInto(t, resp, &toggled)
	if !toggled.Completed {
		t.Error("toggle should complete a pending task")
	}

	rec, _ = env.do(t, "POST", "/api/v1/tasks/"+models.SuggestedIDPrefix+"2025-09-15-0/toggle", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("suggested toggle: status = %d, want 422", rec.Code)
	}

	rec, _ = env.do(t, "POST", "/api/v1/tasks/no-such-task/toggle", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown toggle: status = %d, want 404", rec.Code)
	}
}

func TestHistoryEndpoints(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	if rec, _ := env.do(t, "POST", "/api/v1/ask/text", map[string]string{"question": "wheat rust remedy"}); rec.Code != http.StatusOK {
		t.Fatalf("seeding history: status %d", rec.Code)
	}

	req := httptest.NewRequest("GET", "/api/v1/history/export", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("export: status %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "kisan-sathi-history.json") {
		t.Errorf("export disposition = %q", got)
	}
	var exported []models.HistoryItem
	if err := json.Unmarshal(rec.Body.Bytes(), &exported); err != nil {
		t.Fatalf("export should be a bare JSON array: %v", err)
	}
	if len(exported) != 1 {
		t.Errorf("expected 1 exported item, got %d", len(exported))
	}

	rec2, _ := env.do(t, "DELETE", "/api/v1/history", nil)
	if rec2.Code != http.StatusBadRequest {
		t.Fatalf("unconfirmed clear: status = %d, want 400", rec2.Code)
	}

	rec2, _ = env.do(t, "DELETE", "/api/v1/history?confirm=true", nil)
	if rec2.Code != http.StatusOK {
		t.Fatalf("confirmed clear: status %d", rec2.Code)
	}
	_, resp := env.do(t, "GET", "/api/v1/history", nil)
	var listed struct {
		Total int `json:"total"`
	}
	env.dataInto(t, resp, &listed)
	if listed.Total != 0 {
		t.Errorf("history should be empty after clear, got %d items", listed.Total)
	}
}

func TestListHistory_RejectsUnknownType(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	rec, _ := env.do(t, "GET", "/api/v1/history?type=video", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown type filter: status = %d, want 400", rec.Code)
	}
}

func TestGetWeather_NotConfigured(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	rec, resp := env.do(t, "GET", "/api/v1/weather", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if resp.Error != "Configuration Error" {
		t.Errorf("error = %q", resp.Error)
	}
}

func TestGetWeather(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/weather"):
			fmt.Fprint(w, `{"main":{"temp":28,"humidity":55},"weather":[{"main":"Clear","description":"clear sky"}],"wind":{"speed":2.0}}`)
		case strings.HasSuffix(r.URL.Path, "/forecast"):
			fmt.Fprint(w, `{"list":[{"dt":1757928600,"main":{"temp":29,"temp_max":31,"temp_min":22},"weather":[{"main":"Clear"}]}]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer upstream.Close()

	client, err := weather.NewClient("test-key", upstream.URL, nil)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	env := newTestEnv(t, client)

	// No profile yet: the configured default location applies
	_, resp := env.do(t, "GET", "/api/v1/weather", nil)
	var fallback WeatherResponse
	env.dataInto(t, resp, &fallback)
	if fallback.Location != testDefaultLocation {
		t.Errorf("pre-profile location = %q, want %q", fallback.Location, testDefaultLocation)
	}

	env.completeOnboarding(t, "en", "Ludhiana")

	rec, resp := env.do(t, "GET", "/api/v1/weather", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
	}
	var report WeatherResponse
	env.dataInto(t, resp, &report)
	if report.Location != "Ludhiana" {
		t.Errorf("location should come from the stored profile, got %q", report.Location)
	}
	if report.Advisory != weather.AdvisoryGoodDay || report.AdvisoryText != "Good day for farming" {
		t.Errorf("unexpected advisory %q / %q", report.Advisory, report.AdvisoryText)
	}
	if report.Report == nil || report.Report.Current.Temperature != 28 {
		t.Errorf("unexpected report %+v", report.Report)
	}

	rec, _ = env.do(t, "GET", "/api/v1/weather?location=Nagpur", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("explicit location: status %d", rec.Code)
	}
}

func TestGetWeather_UpstreamDown(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	client, err := weather.NewClient("test-key", upstream.URL, nil)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	env := newTestEnv(t, client)

	rec, _ := env.do(t, "GET", "/api/v1/weather", nil)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestVoiceEndpoints_NoPlatform(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	rec, resp := env.do(t, "POST", "/api/v1/voice/start", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("start without capture hardware: status = %d, want 503", rec.Code)
	}
	if resp.Error != "Not Supported" {
		t.Errorf("error = %q", resp.Error)
	}

	rec, _ = env.do(t, "GET", "/api/v1/voice/state", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("state: status %d", rec.Code)
	}
}
