package weather

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/grego360/daily-dashboard/internal/domain"
)

// Open-Meteo returns local times without a zone offset
const (
	timeLayout = "2006-01-02T15:04"
	dateLayout = "2006-01-02"
)

const maxResponseSize = 1 << 20

func readAll(resp *http.Response) ([]byte, error) {
	return io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
}

type forecastResponse struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Timezone     string  `json:"timezone"`
	CurrentUnits struct {
		Temperature string `json:"temperature_2m"`
		WindSpeed   string `json:"wind_speed_10m"`
	} `json:"current_units"`
	Current struct {
		Time        string  `json:"time"`
		Temperature float64 `json:"temperature_2m"`
		WindSpeed   float64 `json:"wind_speed_10m"`
	} `json:"current"`
	Hourly struct {
		Time        []string  `json:"time"`
		Temperature []float64 `json:"temperature_2m"`
		Humidity    []float64 `json:"relative_humidity_2m"`
		WindSpeed   []float64 `json:"wind_speed_10m"`
	} `json:"hourly"`
	Daily struct {
		Time       []string  `json:"time"`
		TempMin    []float64 `json:"temperature_2m_min"`
		TempMax    []float64 `json:"temperature_2m_max"`
		PrecipSum  []float64 `json:"precipitation_sum"`
		PrecipProb []int     `json:"precipitation_probability_max"`
	} `json:"daily"`
}

// parseForecast converts the raw API payload into WeatherData. Array fields
// are zipped up to the shortest length so a ragged response degrades instead
// of panicking.
func parseForecast(body []byte, locationName string) (domain.WeatherData, error) {
	var resp forecastResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.WeatherData{}, fmt.Errorf("decode forecast: %w", err)
	}

	data := domain.WeatherData{
		LocationName: locationName,
		Latitude:     resp.Latitude,
		Longitude:    resp.Longitude,
		Timezone:     resp.Timezone,
	}

	if resp.Current.Time != "" {
		t, _ := time.Parse(timeLayout, resp.Current.Time)
		units := resp.CurrentUnits
		if units.Temperature == "" {
			units.Temperature = "°C"
		}
		if units.WindSpeed == "" {
			units.WindSpeed = "km/h"
		}
		data.Current = &domain.CurrentWeather{
			Temperature:     resp.Current.Temperature,
			WindSpeed:       resp.Current.WindSpeed,
			Time:            t,
			TemperatureUnit: units.Temperature,
			WindSpeedUnit:   units.WindSpeed,
		}
	}

	for i, ts := range resp.Hourly.Time {
		if i >= len(resp.Hourly.Temperature) || i >= len(resp.Hourly.Humidity) || i >= len(resp.Hourly.WindSpeed) {
			break
		}
		t, err := time.Parse(timeLayout, ts)
		if err != nil {
			continue
		}
		data.Hourly = append(data.Hourly, domain.HourlyForecast{
			Time:        t,
			Temperature: resp.Hourly.Temperature[i],
			Humidity:    resp.Hourly.Humidity[i],
			WindSpeed:   resp.Hourly.WindSpeed[i],
		})
	}

	for i, ds := range resp.Daily.Time {
		if i >= len(resp.Daily.TempMin) || i >= len(resp.Daily.TempMax) {
			break
		}
		date, err := time.Parse(dateLayout, ds)
		if err != nil {
			continue
		}
		day := domain.DailyForecast{
			Date:    date,
			TempMin: resp.Daily.TempMin[i],
			TempMax: resp.Daily.TempMax[i],
		}
		if i < len(resp.Daily.PrecipSum) {
			day.PrecipitationSum = resp.Daily.PrecipSum[i]
		}
		if i < len(resp.Daily.PrecipProb) {
			day.PrecipitationProbability = resp.Daily.PrecipProb[i]
		}
		data.Daily = append(data.Daily, day)
	}

	return data, nil
}
