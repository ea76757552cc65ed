// Package weather fetches current conditions and a multi-day forecast from
// the OpenWeatherMap REST API and reduces them to the simplified taxonomy
// the assistant displays and advises on.
package weather

// Condition is the reduced three-way condition taxonomy.
type Condition string

const (
	ConditionSunny  Condition = "sunny"
	ConditionCloudy Condition = "cloudy"
	ConditionRainy  Condition = "rainy"
)

// Current is the normalized snapshot of present conditions.
type Current struct {
	Temperature int       `json:"temperature"` // °C
	Condition   Condition `json:"condition"`
	Humidity    int       `json:"humidity"`   // %
	WindSpeed   int       `json:"windSpeed"`  // km/h
	Visibility  int       `json:"visibility"` // km
	Sunrise     string    `json:"sunrise"`    // local clock time
	Sunset      string    `json:"sunset"`
	Description string    `json:"description"`
}

// HourlySample is one of the next forecast samples.
type HourlySample struct {
	Time      string    `json:"time"`
	Temp      int       `json:"temp"`
	Condition Condition `json:"condition"`
}

// DailyForecast is one grouped forecast day.
//
// Day is a display convenience: the first two entries are relabeled
// "Today"/"Tomorrow" by position, not by date comparison, so a provider
// whose first grouped day is skewed by timezone yields a wrong label. Known
// limitation carried over deliberately; do not treat Day as a date.
type DailyForecast struct {
	Day       string    `json:"day"`
	High      int       `json:"high"`
	Low       int       `json:"low"`
	Condition Condition `json:"condition"`
}

// Report is the full normalized weather result.
type Report struct {
	Current Current         `json:"current"`
	Hourly  []HourlySample  `json:"hourly"`
	Daily   []DailyForecast `json:"daily"`
}

// Advisory is the rule-based farming recommendation derived from a report.
type Advisory string

const (
	AdvisoryGoodDay  Advisory = "good_day"
	AdvisoryRainyDay Advisory = "rainy_day"
	AdvisoryHotDay   Advisory = "hot_day"
	AdvisoryWindyDay Advisory = "windy_day"
)

const (
	hotDayThresholdC     = 35
	windyDayThresholdKmh = 20
)

// AdviseFor applies the display rules: rain beats heat beats wind.
func AdviseFor(current Current) Advisory {
	switch {
	case current.Condition == ConditionRainy:
		return AdvisoryRainyDay
	case current.Temperature > hotDayThresholdC:
		return AdvisoryHotDay
	case current.WindSpeed > windyDayThresholdKmh:
		return AdvisoryWindyDay
	default:
		return AdvisoryGoodDay
	}
}
