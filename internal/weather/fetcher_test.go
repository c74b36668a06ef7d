package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/siweifamily/dashboard/internal/models"
)

func forecastJSON(currentTime string, temp float64, code int, hourlyTimes []string, probs []int) []byte {
	payload := map[string]interface{}{
		"current": map[string]interface{}{
			"time":           currentTime,
			"temperature_2m": temp,
			"weather_code":   code,
		},
		"hourly": map[string]interface{}{
			"time":                      hourlyTimes,
			"precipitation_probability": probs,
		},
	}
	data, _ := json.Marshal(payload)
	return data
}

func hourlySeries(day string, from, count int) []string {
	times := make([]string, 0, count)
	for i := 0; i < count; i++ {
		times = append(times, fmt.Sprintf("%sT%02d:00", day, from+i))
	}
	return times
}

// TestFetcher_Readings_Success is the end-to-end scenario: weather code 61
// with max probability 55 yields the light-rain icon and the documented
// display line.
func TestFetcher_Readings_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("current") != "temperature_2m,weather_code" {
			t.Errorf("current param = %q", q.Get("current"))
		}
		if q.Get("hourly") != "precipitation_probability" {
			t.Errorf("hourly param = %q", q.Get("hourly"))
		}
		if q.Get("forecast_days") != "1" {
			t.Errorf("forecast_days param = %q", q.Get("forecast_days"))
		}
		_, _ = w.Write(forecastJSON("2024-05-01T14:23", 21.5, 61,
			hourlySeries("2024-05-01", 12, 8), []int{5, 10, 20, 30, 55, 40, 10, 90}))
	}))
	defer server.Close()

	f := NewFetcher(NewClient(server.URL, 2*time.Second),
		[]models.Location{{Name: "新竹", Lat: 24.80, Lon: 120.99}}, nil)

	readings := f.Readings(context.Background())
	if len(readings) != 1 {
		t.Fatalf("Readings() len = %d, want 1", len(readings))
	}
	r := readings[0]
	if r.Status != "" {
		t.Fatalf("Status = %q, want empty", r.Status)
	}
	// Current hour 14:00 is index 2; window covers indexes 2..6, max is 55.
	if !r.HasRainInfo || r.MaxProbability != 55 {
		t.Errorf("MaxProbability = %d (has=%v), want 55", r.MaxProbability, r.HasRainInfo)
	}
	if r.Icon != IconLightRain {
		t.Errorf("Icon = %q, want %q", r.Icon, IconLightRain)
	}
	want := "新竹　: 21.5°C (🌦️55%)"
	if r.Display != want {
		t.Errorf("Display = %q, want %q", r.Display, want)
	}
}

// TestFetcher_Readings_SecondsTimestamp verifies the alternate current-time
// format with seconds is accepted and truncated to the hour.
func TestFetcher_Readings_SecondsTimestamp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(forecastJSON("2024-05-01T14:23:45", 18, 0,
			hourlySeries("2024-05-01", 14, 5), []int{5, 5, 5, 5, 5}))
	}))
	defer server.Close()

	f := NewFetcher(NewClient(server.URL, 2*time.Second),
		[]models.Location{{Name: "芎林", Lat: 24.77, Lon: 121.07}}, nil)

	r := f.Readings(context.Background())[0]
	if !r.HasRainInfo {
		t.Fatal("HasRainInfo = false, want true")
	}
	if r.Icon != IconSun {
		t.Errorf("Icon = %q, want %q", r.Icon, IconSun)
	}
}

// TestFetcher_Readings_HourNotFound verifies that when the truncated hour is
// missing from the hourly series the temperature still renders, without the
// precipitation annotation.
func TestFetcher_Readings_HourNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(forecastJSON("2024-05-01T23:10", 16.5, 61,
			hourlySeries("2024-05-01", 0, 4), []int{90, 90, 90, 90}))
	}))
	defer server.Close()

	f := NewFetcher(NewClient(server.URL, 2*time.Second),
		[]models.Location{{Name: "波士頓", Lat: 42.36, Lon: -71.06}}, nil)

	r := f.Readings(context.Background())[0]
	if r.HasRainInfo {
		t.Error("HasRainInfo = true, want false when hour not in series")
	}
	if r.Display != "波士頓: 16.5°C" {
		t.Errorf("Display = %q, want %q", r.Display, "波士頓: 16.5°C")
	}
}

// TestFetcher_Readings_Isolation verifies per-location error isolation: an
// HTTP error yields N/A, a transport failure yields Err, and healthy
// locations are unaffected.
func TestFetcher_Readings_Isolation(t *testing.T) {
	okServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lat := r.URL.Query().Get("latitude")
		if strings.HasPrefix(lat, "99") {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write(forecastJSON("2024-05-01T08:00", 20, 0,
			hourlySeries("2024-05-01", 8, 5), []int{0, 0, 0, 0, 0}))
	}))
	defer okServer.Close()

	f := NewFetcher(NewClient(okServer.URL, time.Second), []models.Location{
		{Name: "苗栗", Lat: 24.51, Lon: 120.82},
		{Name: "壞掉", Lat: 99.0, Lon: 0},
	}, nil)

	readings := f.Readings(context.Background())
	if readings[0].Status != "" {
		t.Errorf("healthy location Status = %q, want empty", readings[0].Status)
	}
	if readings[1].Status != StatusNotAvailable {
		t.Errorf("failing location Status = %q, want %q", readings[1].Status, StatusNotAvailable)
	}
	if readings[1].Display != "壞掉: N/A" {
		t.Errorf("failing Display = %q", readings[1].Display)
	}

	// Transport-level failure on a closed server yields Err.
	deadServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadServer.Close()
	f2 := NewFetcher(NewClient(deadServer.URL, time.Second),
		[]models.Location{{Name: "內湖", Lat: 25.08, Lon: 121.56}}, nil)
	r := f2.Readings(context.Background())[0]
	if r.Status != StatusError {
		t.Errorf("Status = %q, want %q", r.Status, StatusError)
	}
	if r.Display != "內湖: Err" {
		t.Errorf("Display = %q, want %q", r.Display, "內湖: Err")
	}
}

// TestFetcher_Readings_MalformedPayload verifies a JSON parse failure
// degrades to Err, never an error.
func TestFetcher_Readings_MalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	f := NewFetcher(NewClient(server.URL, time.Second),
		[]models.Location{{Name: "德國", Lat: 51.05, Lon: 13.74}}, nil)
	if got := f.Readings(context.Background())[0].Status; got != StatusError {
		t.Errorf("Status = %q, want %q", got, StatusError)
	}
}

// TestPadName verifies the fullwidth-space alignment convention applies
// only to two-rune names.
func TestPadName(t *testing.T) {
	if got := padName("苗栗"); got != "苗栗　" {
		t.Errorf("padName(苗栗) = %q", got)
	}
	if got := padName("波士頓"); got != "波士頓" {
		t.Errorf("padName(波士頓) = %q", got)
	}
}
