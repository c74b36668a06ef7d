// Package weather reads current conditions and short-term precipitation
// probabilities from the open-meteo forecast API.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const DefaultAPIURL = "https://api.open-meteo.com/v1/forecast"

// ErrBadStatus marks a non-2xx upstream response. The fetcher renders this
// as "N/A" while any other failure renders as "Err".
var ErrBadStatus = errors.New("forecast API error status")

// Forecast is the slice of the open-meteo response the dashboard uses.
type Forecast struct {
	Current struct {
		Time        string  `json:"time"`
		Temperature float64 `json:"temperature_2m"`
		WeatherCode int     `json:"weather_code"`
	} `json:"current"`
	Hourly struct {
		Time                     []string `json:"time"`
		PrecipitationProbability []int    `json:"precipitation_probability"`
	} `json:"hourly"`
}

// Client queries the forecast API with a bounded timeout.
type Client struct {
	apiURL     string
	httpClient *http.Client
}

// NewClient creates a forecast client. apiURL falls back to the open-meteo
// endpoint when empty.
func NewClient(apiURL string, timeout time.Duration) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &Client{
		apiURL: apiURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetForecast fetches the current temperature, weather code and hourly
// precipitation-probability series for a coordinate.
func (c *Client) GetForecast(ctx context.Context, lat, lon float64) (*Forecast, error) {
	req, err := c.buildRequest(ctx, lat, lon)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: HTTP %d", ErrBadStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	var fc Forecast
	if err := json.Unmarshal(body, &fc); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return &fc, nil
}

func (c *Client) buildRequest(ctx context.Context, lat, lon float64) (*http.Request, error) {
	baseURL, err := url.Parse(c.apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL: %w", err)
	}

	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("current", "temperature_2m,weather_code")
	params.Set("hourly", "precipitation_probability")
	params.Set("timezone", "auto")
	params.Set("forecast_days", "1")
	baseURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}
