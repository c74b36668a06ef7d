package commute

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/siweifamily/dashboard/internal/observability"
)

const DefaultMatrixURL = "https://maps.googleapis.com/maps/api/distancematrix/json"

// DriveTime is the subset of a distance matrix element the dashboard uses.
// TrafficText is preferred; StaticText is the fallback; both may be empty
// when the element carries no duration (e.g. address not found).
type DriveTime struct {
	TrafficText string
	StaticText  string
}

// Router answers current driving-time queries. May be left nil when no
// routing credential is configured.
type Router interface {
	DriveTime(ctx context.Context, origin, destination string) (DriveTime, error)
}

// GoogleRouter queries the Google Distance Matrix API with traffic-aware
// departure_time=now. A circuit breaker guards the upstream: eight legs per
// page render add up quickly when the API is down, so after repeated
// failures calls short-circuit into the query-failed fallback.
type GoogleRouter struct {
	apiURL     string
	apiKey     string
	language   string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// NewGoogleRouter creates a GoogleRouter. apiURL falls back to the Google
// endpoint and language to zh-TW when empty.
func NewGoogleRouter(apiURL, apiKey, language string, timeout time.Duration) *GoogleRouter {
	if apiURL == "" {
		apiURL = DefaultMatrixURL
	}
	if language == "" {
		language = "zh-TW"
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "distance_matrix",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &GoogleRouter{
		apiURL:   apiURL,
		apiKey:   apiKey,
		language: language,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: breaker,
	}
}

type matrixResponse struct {
	Rows []struct {
		Elements []struct {
			Status   string `json:"status"`
			Duration struct {
				Text string `json:"text"`
			} `json:"duration"`
			DurationInTraffic struct {
				Text string `json:"text"`
			} `json:"duration_in_traffic"`
		} `json:"elements"`
	} `json:"rows"`
}

// DriveTime queries the matrix for one origin/destination pair.
func (r *GoogleRouter) DriveTime(ctx context.Context, origin, destination string) (DriveTime, error) {
	result, err := r.breaker.Execute(func() (interface{}, error) {
		return r.query(ctx, origin, destination)
	})
	if err != nil {
		return DriveTime{}, err
	}
	return result.(DriveTime), nil
}

func (r *GoogleRouter) query(ctx context.Context, origin, destination string) (DriveTime, error) {
	start := time.Now()
	dt, err := r.callAPI(ctx, origin, destination)
	seconds := time.Since(start).Seconds()
	if err != nil {
		observability.RoutingAPICallsTotal.WithLabelValues("error").Inc()
		observability.RoutingAPIDuration.WithLabelValues("error").Observe(seconds)
		return DriveTime{}, err
	}
	observability.RoutingAPICallsTotal.WithLabelValues("success").Inc()
	observability.RoutingAPIDuration.WithLabelValues("success").Observe(seconds)
	return dt, nil
}

func (r *GoogleRouter) callAPI(ctx context.Context, origin, destination string) (DriveTime, error) {
	baseURL, err := url.Parse(r.apiURL)
	if err != nil {
		return DriveTime{}, fmt.Errorf("invalid API URL: %w", err)
	}

	params := url.Values{}
	params.Set("origins", origin)
	params.Set("destinations", destination)
	params.Set("mode", "driving")
	params.Set("departure_time", "now")
	params.Set("language", r.language)
	params.Set("key", r.apiKey)
	baseURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL.String(), nil)
	if err != nil {
		return DriveTime{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return DriveTime{}, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return DriveTime{}, fmt.Errorf("distance matrix: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return DriveTime{}, fmt.Errorf("read response body: %w", err)
	}

	var matrix matrixResponse
	if err := json.Unmarshal(body, &matrix); err != nil {
		return DriveTime{}, fmt.Errorf("parse response: %w", err)
	}
	if len(matrix.Rows) == 0 || len(matrix.Rows[0].Elements) == 0 {
		return DriveTime{}, fmt.Errorf("distance matrix: empty rows for %q -> %q", origin, destination)
	}

	el := matrix.Rows[0].Elements[0]
	return DriveTime{
		TrafficText: el.DurationInTraffic.Text,
		StaticText:  el.Duration.Text,
	}, nil
}
