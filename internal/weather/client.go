// Package weather fetches forecasts from the Open-Meteo API. The API is
// free and keyless; transient failures (429, 5xx, timeouts) are retried
// with jittered exponential backoff.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/grego360/daily-dashboard/internal/config"
	"github.com/grego360/daily-dashboard/internal/domain"
)

const (
	defaultForecastURL  = "https://api.open-meteo.com/v1/forecast"
	defaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"

	maxRetries        = 3
	initialBackoff    = time.Second
	maxBackoff        = 10 * time.Second
	backoffMultiplier = 2.0
	forecastDays      = 5
)

// Location is a geocoding result
type Location struct {
	Name      string
	Latitude  float64
	Longitude float64
}

// Client talks to the Open-Meteo forecast and geocoding endpoints
type Client struct {
	http         *http.Client
	forecastURL  string
	geocodingURL string
	retries      int
	log          zerolog.Logger

	// sleep is swapped out in tests to avoid real backoff waits
	sleep func(ctx context.Context, d time.Duration)
}

// NewClient creates a weather client with the given request timeout
func NewClient(timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		http:         &http.Client{Timeout: timeout},
		forecastURL:  defaultForecastURL,
		geocodingURL: defaultGeocodingURL,
		retries:      maxRetries,
		log:          log.With().Str("component", "weather").Logger(),
		sleep: func(ctx context.Context, d time.Duration) {
			select {
			case <-ctx.Done():
			case <-time.After(d):
			}
		},
	}
}

// Fetch returns the forecast for the configured location. Failures never
// propagate as errors; they are carried in WeatherData.Error so the panel
// can render them.
func (c *Client) Fetch(ctx context.Context, cfg config.WeatherConfig) domain.WeatherData {
	data := domain.WeatherData{
		LocationName: cfg.LocationName,
		Latitude:     cfg.Latitude,
		Longitude:    cfg.Longitude,
	}

	if !cfg.Enabled {
		data.Error = "weather disabled in config"
		return data
	}

	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(cfg.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(cfg.Longitude, 'f', -1, 64))
	q.Set("current", "temperature_2m,wind_speed_10m")
	q.Set("hourly", "temperature_2m,relative_humidity_2m,wind_speed_10m")
	q.Set("daily", "temperature_2m_min,temperature_2m_max,precipitation_sum,precipitation_probability_max")
	q.Set("forecast_days", strconv.Itoa(forecastDays))
	q.Set("timezone", "auto")

	body, err := c.getWithRetry(ctx, c.forecastURL+"?"+q.Encode())
	if err != nil {
		c.log.Warn().Err(err).Str("location", cfg.LocationName).Msg("weather fetch failed")
		data.Error = err.Error()
		return data
	}

	parsed, err := parseForecast(body, cfg.LocationName)
	if err != nil {
		c.log.Error().Err(err).Msg("weather response parse failed")
		data.Error = fmt.Sprintf("parse error: %v", err)
		return data
	}
	return parsed
}

// Geocode resolves a place name or postcode to coordinates. A nil result
// with nil error means no match.
func (c *Client) Geocode(ctx context.Context, query string) (*Location, error) {
	q := url.Values{}
	q.Set("name", query)
	q.Set("count", "1")
	q.Set("language", "en")
	q.Set("format", "json")

	body, err := c.getWithRetry(ctx, c.geocodingURL+"?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var resp struct {
		Results []struct {
			Name      string  `json:"name"`
			Admin1    string  `json:"admin1"`
			Country   string  `json:"country"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode geocoding response: %w", err)
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}

	r := resp.Results[0]
	name := r.Name
	switch {
	case r.Admin1 != "" && r.Admin1 != r.Name:
		name = r.Name + ", " + r.Admin1
	case r.Country != "":
		name = r.Name + ", " + r.Country
	}

	return &Location{Name: name, Latitude: r.Latitude, Longitude: r.Longitude}, nil
}

// getWithRetry performs a GET, retrying transient failures with jittered
// exponential backoff
func (c *Client) getWithRetry(ctx context.Context, rawURL string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			c.sleep(ctx, backoff(attempt-1))
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
		}

		body, retryable, err := c.get(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			break
		}
		c.log.Debug().Err(err).Int("attempt", attempt+1).Msg("retrying request")
	}

	return nil, lastErr
}

func (c *Client) get(ctx context.Context, rawURL string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// Timeouts and connection failures are worth another attempt.
		return nil, ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, retryableStatus(resp.StatusCode), fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	body, err = readAll(resp)
	return body, false, err
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// backoff grows exponentially from the initial delay, capped, with a jitter
// factor in [0.5, 1.5)
func backoff(attempt int) time.Duration {
	d := initialBackoff
	for i := 0; i < attempt; i++ {
		d = time.Duration(float64(d) * backoffMultiplier)
		if d >= maxBackoff {
			d = maxBackoff
			break
		}
	}
	jitter := 0.5 + rand.Float64()
	return time.Duration(float64(d) * jitter)
}
