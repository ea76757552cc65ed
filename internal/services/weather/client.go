package weather

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"encoding/json"

	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the OpenWeatherMap API root.
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"
	// DefaultTimeout bounds each provider call.
	DefaultTimeout = 15 * time.Second

	// hourlySampleCount is how many upcoming forecast samples the hourly
	// strip shows.
	hourlySampleCount = 5
	// maxDailyEntries caps the grouped daily forecast.
	maxDailyEntries = 7
	// defaultVisibilityKm is used when the provider omits visibility.
	defaultVisibilityKm = 10
)

var (
	// ErrMissingCredential indicates no weather API key is configured.
	ErrMissingCredential = errors.New("weather API key not configured")
	// ErrUnavailable indicates the provider returned a non-2xx status on
	// either call. The whole fetch fails; callers must show an error state,
	// never fabricate placeholder weather.
	ErrUnavailable = errors.New("weather data not available")
)

// Client fetches and normalizes provider weather data.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a weather client. A missing key fails fast.
func NewClient(apiKey, baseURL string, logger *zap.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingCredential
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     logger,
	}, nil
}

// Provider wire types (subset of the OpenWeatherMap payloads we read).

type providerWeather struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

type currentPayload struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather    []providerWeather `json:"weather"`
	Wind       struct {
		Speed float64 `json:"speed"` // m/s
	} `json:"wind"`
	Visibility int `json:"visibility"` // meters, may be absent
	Sys        struct {
		Sunrise int64 `json:"sunrise"`
		Sunset  int64 `json:"sunset"`
	} `json:"sys"`
}

type forecastSample struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp    float64 `json:"temp"`
		TempMax float64 `json:"temp_max"`
		TempMin float64 `json:"temp_min"`
	} `json:"main"`
	Weather []providerWeather `json:"weather"`
}

type forecastPayload struct {
	List []forecastSample `json:"list"`
}

// Fetch retrieves current conditions and the forecast for a free-text place
// name and normalizes both. Either call failing fails the whole fetch.
func (c *Client) Fetch(ctx context.Context, location string) (*Report, error) {
	if strings.TrimSpace(location) == "" {
		return nil, fmt.Errorf("%w: empty location", ErrUnavailable)
	}

	var current currentPayload
	if err := c.getJSON(ctx, "/weather", location, &current); err != nil {
		return nil, err
	}

	var forecast forecastPayload
	if err := c.getJSON(ctx, "/forecast", location, &forecast); err != nil {
		return nil, err
	}

	report := &Report{
		Current: normalizeCurrent(current),
		Hourly:  normalizeHourly(forecast.List),
		Daily:   normalizeDaily(forecast.List),
	}
	return report, nil
}

func (c *Client) getJSON(ctx context.Context, path, location string, out any) error {
	q := url.Values{}
	q.Set("q", location)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("weather_provider_error",
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode),
		)
		return fmt.Errorf("%w: provider returned status %d", ErrUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}
	return nil
}

// normalizeCondition maps the provider's primary condition keyword onto the
// reduced taxonomy. Priority: rain > cloud > clear/sun, default cloudy.
func normalizeCondition(weather []providerWeather) Condition {
	if len(weather) == 0 {
		return ConditionCloudy
	}
	main := strings.ToLower(weather[0].Main)
	switch {
	case strings.Contains(main, "rain"), strings.Contains(main, "thunder"),
		strings.Contains(main, "drizzle"):
		return ConditionRainy
	case strings.Contains(main, "cloud"):
		return ConditionCloudy
	case strings.Contains(main, "clear"), strings.Contains(main, "sun"):
		return ConditionSunny
	default:
		return ConditionCloudy
	}
}

func normalizeCurrent(p currentPayload) Current {
	visibility := defaultVisibilityKm
	if p.Visibility > 0 {
		visibility = int(math.Round(float64(p.Visibility) / 1000))
	}
	description := ""
	if len(p.Weather) > 0 {
		description = p.Weather[0].Description
	}
	return Current{
		Temperature: int(math.Round(p.Main.Temp)),
		Condition:   normalizeCondition(p.Weather),
		Humidity:    p.Main.Humidity,
		WindSpeed:   int(math.Round(p.Wind.Speed * 3.6)), // m/s to km/h
		Visibility:  visibility,
		Sunrise:     formatClock(p.Sys.Sunrise),
		Sunset:      formatClock(p.Sys.Sunset),
		Description: description,
	}
}

// normalizeHourly takes the next few forecast samples as the hourly strip.
func normalizeHourly(samples []forecastSample) []HourlySample {
	n := hourlySampleCount
	if len(samples) < n {
		n = len(samples)
	}
	hourly := make([]HourlySample, 0, n)
	for _, s := range samples[:n] {
		hourly = append(hourly, HourlySample{
			Time:      time.Unix(s.Dt, 0).Format("3 PM"),
			Temp:      int(math.Round(s.Main.Temp)),
			Condition: normalizeCondition(s.Weather),
		})
	}
	return hourly
}

// normalizeDaily groups forecast samples by the provider's local weekday
// label, taking max high / min low per day, capped at maxDailyEntries. The
// first two entries are relabeled positionally (see DailyForecast.Day).
func normalizeDaily(samples []forecastSample) []DailyForecast {
	type bucket struct {
		high, low float64
		condition Condition
	}
	order := make([]string, 0, maxDailyEntries)
	byDay := make(map[string]*bucket)

	for _, s := range samples {
		day := time.Unix(s.Dt, 0).Format("Mon")
		b, ok := byDay[day]
		if !ok {
			byDay[day] = &bucket{
				high:      s.Main.TempMax,
				low:       s.Main.TempMin,
				condition: normalizeCondition(s.Weather),
			}
			order = append(order, day)
			continue
		}
		b.high = math.Max(b.high, s.Main.TempMax)
		b.low = math.Min(b.low, s.Main.TempMin)
	}

	if len(order) > maxDailyEntries {
		order = order[:maxDailyEntries]
	}

	daily := make([]DailyForecast, 0, len(order))
	for i, day := range order {
		b := byDay[day]
		label := day
		switch i {
		case 0:
			label = "Today"
		case 1:
			label = "Tomorrow"
		}
		daily = append(daily, DailyForecast{
			Day:       label,
			High:      int(math.Round(b.high)),
			Low:       int(math.Round(b.low)),
			Condition: b.condition,
		})
	}
	return daily
}

func formatClock(unix int64) string {
	if unix == 0 {
		return ""
	}
	return time.Unix(unix, 0).Format("3:04 PM")
}
