package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kisansathi/assistant/internal/i18n"
	"github.com/kisansathi/assistant/internal/models"
	"github.com/kisansathi/assistant/internal/services/weather"
	"github.com/kisansathi/assistant/internal/store"
)

// WeatherHandler handles weather report requests
type WeatherHandler struct {
	client          *weather.Client
	state           *store.StateStore
	defaultLocation string
	logger          *zap.Logger
}

// NewWeatherHandler creates a new weather handler. client may be nil when no
// API key is configured; requests then get a configuration error.
func NewWeatherHandler(client *weather.Client, state *store.StateStore, defaultLocation string, logger *zap.Logger) *WeatherHandler {
	if defaultLocation == "" {
		defaultLocation = models.DefaultUserInfo().Location
	}
	return &WeatherHandler{client: client, state: state, defaultLocation: defaultLocation, logger: logger}
}

// WeatherResponse is a report plus the localized farming advisory
type WeatherResponse struct {
	Location     string           `json:"location"`
	Report       *weather.Report  `json:"report"`
	Advisory     weather.Advisory `json:"advisory"`
	AdvisoryText string           `json:"advisoryText"`
}

// GetWeather handles GET /weather, using ?location= or the stored profile
func (h *WeatherHandler) GetWeather(w http.ResponseWriter, r *http.Request) {
	if h.client == nil {
		respondJSONError(w, http.StatusServiceUnavailable, "Configuration Error", weather.ErrMissingCredential.Error())
		return
	}

	location := r.URL.Query().Get("location")
	if location == "" {
		if info, ok := h.state.UserInfo(); ok && info.Location != "" {
			location = info.Location
		} else {
			location = h.defaultLocation
		}
	}

	report, err := h.client.Fetch(r.Context(), location)
	if err != nil {
		if errors.Is(err, weather.ErrUnavailable) {
			respondJSONError(w, http.StatusBadGateway, "Bad Gateway", "Weather data not available")
			return
		}
		h.logger.Error("weather_fetch_failed", zap.Error(err))
		respondJSONError(w, http.StatusBadGateway, "Bad Gateway", "Weather data not available")
		return
	}

	langCode := i18n.DefaultLanguageCode
	if lang, ok := h.state.Language(); ok {
		langCode = lang.Code
	}
	advisory := weather.AdviseFor(report.Current)

	respondJSON(w, http.StatusOK, WeatherResponse{
		Location:     location,
		Report:       report,
		Advisory:     advisory,
		AdvisoryText: advisoryText(i18n.Lookup(langCode), advisory),
	})
}

func advisoryText(tr i18n.Translation, advisory weather.Advisory) string {
	switch advisory {
	case weather.AdvisoryRainyDay:
		return tr.RainyDay
	case weather.AdvisoryHotDay:
		return tr.HotDay
	case weather.AdvisoryWindyDay:
		return tr.WindyDay
	default:
		return tr.GoodDay
	}
}
