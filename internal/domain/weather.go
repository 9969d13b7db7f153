package domain

import "time"

// CurrentWeather holds the present conditions at the configured location
type CurrentWeather struct {
	Temperature     float64   `json:"temperature"`
	WindSpeed       float64   `json:"wind_speed"`
	Time            time.Time `json:"time"`
	TemperatureUnit string    `json:"temperature_unit"`
	WindSpeedUnit   string    `json:"wind_speed_unit"`
}

// HourlyForecast is one hour of forecast data
type HourlyForecast struct {
	Time        time.Time `json:"time"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	WindSpeed   float64   `json:"wind_speed"`
}

// DailyForecast is one day of forecast data
type DailyForecast struct {
	Date                     time.Time `json:"date"`
	TempMin                  float64   `json:"temp_min"`
	TempMax                  float64   `json:"temp_max"`
	PrecipitationSum         float64   `json:"precipitation_sum"`
	PrecipitationProbability int       `json:"precipitation_probability"`
}

// WeatherData is the full payload for the weather panel. Error is set when
// the fetch failed; the location fields stay populated so the panel can still
// identify itself.
type WeatherData struct {
	LocationName string           `json:"location_name"`
	Latitude     float64          `json:"latitude"`
	Longitude    float64          `json:"longitude"`
	Timezone     string           `json:"timezone,omitempty"`
	Current      *CurrentWeather  `json:"current,omitempty"`
	Hourly       []HourlyForecast `json:"hourly,omitempty"`
	Daily        []DailyForecast  `json:"daily,omitempty"`
	Error        string           `json:"error,omitempty"`
}
