package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func geocodeServer(t *testing.T, matches map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		body, ok := matches[name]
		if !ok {
			w.Write([]byte(`{"results":[]}`))
			return
		}
		w.Write([]byte(body))
	}))
}

func TestResolvePlace_DirectHit(t *testing.T) {
	srv := geocodeServer(t, map[string]string{
		"London": `{"results":[{"name":"London","latitude":51.5,"longitude":-0.1}]}`,
	})
	defer srv.Close()

	om := NewOpenMeteo(WithGeocodingURL(srv.URL))
	place, err := om.ResolvePlace(context.Background(), "London")
	if err != nil {
		t.Fatalf("ResolvePlace failed: %v", err)
	}
	if place == nil {
		t.Fatal("expected a place")
	}
	if place.Name != "London" || place.Latitude != 51.5 || place.Longitude != -0.1 {
		t.Errorf("place = %+v", place)
	}
}

func TestResolvePlace_AbbreviationFallback(t *testing.T) {
	tests := []struct {
		input    string
		resolved string
	}{
		{"Washington D.C.", "Washington"},
		{"nyc", "New York"},
		{"London UK", "London United Kingdom"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			srv := geocodeServer(t, map[string]string{
				tt.resolved: `{"results":[{"name":"` + tt.resolved + `","latitude":1,"longitude":2}]}`,
			})
			defer srv.Close()

			om := NewOpenMeteo(WithGeocodingURL(srv.URL))
			place, err := om.ResolvePlace(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("ResolvePlace failed: %v", err)
			}
			if place == nil {
				t.Fatalf("expected %q to resolve via variation %q", tt.input, tt.resolved)
			}
			if place.Name != tt.resolved {
				t.Errorf("resolved name = %q, want %q", place.Name, tt.resolved)
			}
		})
	}
}

func TestResolvePlace_NotFound(t *testing.T) {
	srv := geocodeServer(t, nil)
	defer srv.Close()

	om := NewOpenMeteo(WithGeocodingURL(srv.URL))
	place, err := om.ResolvePlace(context.Background(), "Atlantis")
	if err != nil {
		t.Fatalf("ResolvePlace failed: %v", err)
	}
	if place != nil {
		t.Errorf("place = %+v, want nil", place)
	}
}

func TestResolvePlace_CachesResults(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Write([]byte(`{"results":[{"name":"Kyoto","latitude":35,"longitude":135.8}]}`))
	}))
	defer srv.Close()

	om := NewOpenMeteo(WithGeocodingURL(srv.URL))
	for i := 0; i < 3; i++ {
		if _, err := om.ResolvePlace(context.Background(), "Kyoto"); err != nil {
			t.Fatalf("ResolvePlace failed: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("geocoding calls = %d, want 1 (cached)", calls)
	}
}

func TestForecast_FormatsFiveDays(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"daily":{
			"time":["2023-01-01","2023-01-02","2023-01-03","2023-01-04","2023-01-05","2023-01-06","2023-01-07"],
			"temperature_2m_max":[10,11,12,13,14,15,16],
			"temperature_2m_min":[5,5.5,6,6,7,7,8],
			"precipitation_sum":[0,1.2,0,0,3,0,0]
		}}`))
	}))
	defer srv.Close()

	om := NewOpenMeteo(WithForecastURL(srv.URL))
	got := om.Forecast(context.Background(), 51.5, -0.1)

	if !strings.HasPrefix(got, "Forecast:\n") {
		t.Errorf("missing header: %q", got)
	}
	if !strings.Contains(got, "2023-01-01: High 10°C, Low 5°C, Rain 0mm") {
		t.Errorf("day 1 malformed:\n%s", got)
	}
	if !strings.Contains(got, "2023-01-02: High 11°C, Low 5.5°C, Rain 1.2mm") {
		t.Errorf("fractional values malformed:\n%s", got)
	}
	if strings.Contains(got, "2023-01-06") {
		t.Errorf("forecast must stop at 5 days:\n%s", got)
	}
	if lines := strings.Count(got, "\n"); lines != 5 {
		t.Errorf("line count = %d, want 5", lines)
	}
}

func TestForecast_NoDailyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"error":true}`))
	}))
	defer srv.Close()

	om := NewOpenMeteo(WithForecastURL(srv.URL))
	if got := om.Forecast(context.Background(), 0, 0); got != "Weather data unavailable." {
		t.Errorf("got %q, want unavailable notice", got)
	}
}

func TestForecast_TransportErrorInBand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	srv.Close() // refuse connections

	om := NewOpenMeteo(WithForecastURL(srv.URL))
	got := om.Forecast(context.Background(), 0, 0)
	if !strings.HasPrefix(got, "Error fetching weather:") {
		t.Errorf("got %q, want in-band error text", got)
	}
}

func TestVariations(t *testing.T) {
	got := variations(" Washington D.C. ")
	if got[0] != "Washington D.C." {
		t.Errorf("first variation = %q, want trimmed original", got[0])
	}
	if len(got) < 2 || got[1] != "Washington" {
		t.Errorf("variations = %v, want Washington fallback", got)
	}
}
