package weather

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewClient_RequiresAPIKey(t *testing.T) {
	t.Parallel()

	if _, err := NewClient("", "", nil); !errors.Is(err, ErrMissingCredential) {
		t.Errorf("expected ErrMissingCredential, got %v", err)
	}
}

func TestNormalizeCondition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		main string
		want Condition
	}{
		{"Rain", ConditionRainy},
		{"Thunderstorm", ConditionRainy},
		{"Drizzle", ConditionRainy},
		{"Clouds", ConditionCloudy},
		{"Clear", ConditionSunny},
		{"Haze", ConditionCloudy},
		{"Mist", ConditionCloudy},
	}

	for _, tt := range tests {
		t.Run(tt.main, func(t *testing.T) {
			t.Parallel()

			got := normalizeCondition([]providerWeather{{Main: tt.main}})
			if got != tt.want {
				t.Errorf("normalizeCondition(%q) = %q, want %q", tt.main, got, tt.want)
			}
		})
	}

	if got := normalizeCondition(nil); got != ConditionCloudy {
		t.Errorf("expected cloudy default for empty weather, got %q", got)
	}
}

func TestNormalizeCurrent_Units(t *testing.T) {
	t.Parallel()

	p := currentPayload{}
	p.Main.Temp = 31.6
	p.Main.Humidity = 58
	p.Wind.Speed = 5.0 // m/s
	p.Visibility = 8000
	p.Weather = []providerWeather{{Main: "Clear", Description: "clear sky"}}

	got := normalizeCurrent(p)

	if got.Temperature != 32 {
		t.Errorf("expected rounded temperature 32, got %d", got.Temperature)
	}
	if got.WindSpeed != 18 {
		t.Errorf("expected 18 km/h wind, got %d", got.WindSpeed)
	}
	if got.Visibility != 8 {
		t.Errorf("expected 8 km visibility, got %d", got.Visibility)
	}
	if got.Condition != ConditionSunny {
		t.Errorf("expected sunny, got %q", got.Condition)
	}

	p.Visibility = 0
	if got := normalizeCurrent(p); got.Visibility != 10 {
		t.Errorf("expected default 10 km visibility, got %d", got.Visibility)
	}
}

func TestNormalizeDaily_GroupsAndLabels(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 9, 15, 6, 0, 0, 0, time.Local)
	var samples []forecastSample
	// Two samples per day across three days, three-hourly style
	for day := 0; day < 3; day++ {
		for _, hour := range []int{0, 6} {
			s := forecastSample{Dt: base.AddDate(0, 0, day).Add(time.Duration(hour) * time.Hour).Unix()}
			s.Main.TempMax = float64(30 + day + hour)
			s.Main.TempMin = float64(20 + day - hour)
			s.Weather = []providerWeather{{Main: "Clouds"}}
			samples = append(samples, s)
		}
	}

	daily := normalizeDaily(samples)

	if len(daily) != 3 {
		t.Fatalf("expected 3 daily entries, got %d", len(daily))
	}
	if daily[0].Day != "Today" || daily[1].Day != "Tomorrow" {
		t.Errorf("expected positional Today/Tomorrow labels, got %q, %q", daily[0].Day, daily[1].Day)
	}
	// Day 0: highs 30 and 36, lows 20 and 14
	if daily[0].High != 36 || daily[0].Low != 14 {
		t.Errorf("expected high 36 low 14, got high %d low %d", daily[0].High, daily[0].Low)
	}
}

func TestNormalizeHourly_TakesFiveSamples(t *testing.T) {
	t.Parallel()

	var samples []forecastSample
	for i := 0; i < 8; i++ {
		s := forecastSample{Dt: time.Now().Add(time.Duration(i*3) * time.Hour).Unix()}
		s.Main.Temp = float64(25 + i)
		s.Weather = []providerWeather{{Main: "Clear"}}
		samples = append(samples, s)
	}

	hourly := normalizeHourly(samples)
	if len(hourly) != 5 {
		t.Fatalf("expected 5 hourly samples, got %d", len(hourly))
	}
	if hourly[0].Temp != 25 || hourly[4].Temp != 29 {
		t.Errorf("unexpected hourly temps: %+v", hourly)
	}
}

func TestAdviseFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		current Current
		want    Advisory
	}{
		{"rain wins over heat", Current{Condition: ConditionRainy, Temperature: 40, WindSpeed: 30}, AdvisoryRainyDay},
		{"hot day", Current{Condition: ConditionSunny, Temperature: 36}, AdvisoryHotDay},
		{"windy day", Current{Condition: ConditionCloudy, Temperature: 30, WindSpeed: 21}, AdvisoryWindyDay},
		{"good day", Current{Condition: ConditionSunny, Temperature: 28, WindSpeed: 10}, AdvisoryGoodDay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := AdviseFor(tt.current); got != tt.want {
				t.Errorf("AdviseFor(%+v) = %q, want %q", tt.current, got, tt.want)
			}
		})
	}
}

func TestFetch_EndToEnd(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("appid") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("units") != "metric" {
			t.Errorf("expected metric units, got %q", r.URL.Query().Get("units"))
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/weather":
			fmt.Fprint(w, `{
				"main": {"temp": 29.4, "humidity": 65},
				"wind": {"speed": 3.0},
				"visibility": 10000,
				"sys": {"sunrise": 1757901600, "sunset": 1757946000},
				"weather": [{"main": "Thunderstorm", "description": "heavy thunderstorm"}]
			}`)
		case "/forecast":
			fmt.Fprint(w, `{"list": [
				{"dt": 1757910000, "main": {"temp": 28, "temp_min": 24, "temp_max": 30}, "weather": [{"main": "Rain"}]},
				{"dt": 1757920800, "main": {"temp": 29, "temp_min": 25, "temp_max": 31}, "weather": [{"main": "Clouds"}]}
			]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client, err := NewClient("test-key", srv.URL, nil)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	report, err := client.Fetch(context.Background(), "Nagpur")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if report.Current.Condition != ConditionRainy {
		t.Errorf("expected thunderstorm normalized to rainy, got %q", report.Current.Condition)
	}
	if report.Current.Temperature != 29 {
		t.Errorf("expected temperature 29, got %d", report.Current.Temperature)
	}
	if report.Current.WindSpeed != 11 {
		t.Errorf("expected 11 km/h wind, got %d", report.Current.WindSpeed)
	}
	if len(report.Hourly) != 2 {
		t.Errorf("expected 2 hourly samples, got %d", len(report.Hourly))
	}
	if len(report.Daily) == 0 || report.Daily[0].Day != "Today" {
		t.Errorf("expected daily forecast starting at Today, got %+v", report.Daily)
	}
}

func TestFetch_ProviderErrorFailsWholeFetch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/weather" {
			fmt.Fprint(w, `{"main": {"temp": 25, "humidity": 50}}`)
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client, err := NewClient("test-key", srv.URL, nil)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	if _, err := client.Fetch(context.Background(), "Nagpur"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable when the forecast call fails, got %v", err)
	}
}

func TestFetch_EmptyLocation(t *testing.T) {
	t.Parallel()

	client, err := NewClient("test-key", "http://127.0.0.1:1", nil)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if _, err := client.Fetch(context.Background(), "  "); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable for empty location, got %v", err)
	}
}
