package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	defaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"
	defaultForecastURL  = "https://api.open-meteo.com/v1/forecast"

	// forecastDays is the fixed number of upcoming days summarized.
	forecastDays = 5

	geocodeCacheTTL = 24 * time.Hour
)

// OpenMeteo is a Lookup backed by the Open-Meteo geocoding and forecast
// APIs. Resolved places are cached so repeated turns about the same
// destination cost one geocoding call.
type OpenMeteo struct {
	client       *http.Client
	geocodingURL string
	forecastURL  string
	cache        *gocache.Cache
}

// Option configures an OpenMeteo client.
type Option func(*OpenMeteo)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *OpenMeteo) { o.client = c }
}

// WithGeocodingURL overrides the geocoding endpoint.
func WithGeocodingURL(u string) Option {
	return func(o *OpenMeteo) { o.geocodingURL = u }
}

// WithForecastURL overrides the forecast endpoint.
func WithForecastURL(u string) Option {
	return func(o *OpenMeteo) { o.forecastURL = u }
}

// NewOpenMeteo creates an OpenMeteo lookup client.
func NewOpenMeteo(opts ...Option) *OpenMeteo {
	o := &OpenMeteo{
		client:       &http.Client{Timeout: 5 * time.Second},
		geocodingURL: defaultGeocodingURL,
		forecastURL:  defaultForecastURL,
		cache:        gocache.New(geocodeCacheTTL, 2*geocodeCacheTTL),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// variations expands common abbreviations so a second geocoding attempt
// can succeed where the literal name misses.
func variations(name string) []string {
	normalized := strings.TrimSpace(name)
	out := []string{normalized}

	if strings.Contains(normalized, "D.C.") || strings.Contains(normalized, "DC") {
		out = append(out, "Washington")
	}
	if strings.EqualFold(normalized, "nyc") {
		out = append(out, "New York")
	}
	if strings.Contains(normalized, "UK") {
		out = append(out, strings.ReplaceAll(normalized, "UK", "United Kingdom"))
	}
	return out
}

func (o *OpenMeteo) ResolvePlace(ctx context.Context, name string) (*Place, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if v, ok := o.cache.Get(key); ok {
		place := v.(Place)
		return &place, nil
	}

	for _, variation := range variations(name) {
		place, err := o.geocode(ctx, variation)
		if err != nil {
			// Try the next variation; a transport error on one attempt
			// is indistinguishable from a miss to callers anyway.
			continue
		}
		if place != nil {
			o.cache.SetDefault(key, *place)
			return place, nil
		}
	}
	return nil, nil
}

func (o *OpenMeteo) geocode(ctx context.Context, name string) (*Place, error) {
	q := url.Values{
		"name":     {name},
		"count":    {"1"},
		"language": {"en"},
		"format":   {"json"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.geocodingURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Results []struct {
			Name      string  `json:"name"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if len(payload.Results) == 0 {
		return nil, nil
	}

	r := payload.Results[0]
	return &Place{Name: r.Name, Latitude: r.Latitude, Longitude: r.Longitude}, nil
}

func (o *OpenMeteo) Forecast(ctx context.Context, lat, lon float64) string {
	q := url.Values{
		"latitude":  {formatFloat(lat)},
		"longitude": {formatFloat(lon)},
		"daily":     {"temperature_2m_max,temperature_2m_min,precipitation_sum,weather_code"},
		"timezone":  {"auto"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.forecastURL+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Sprintf("Error fetching weather: %v", err)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return fmt.Sprintf("Error fetching weather: %v", err)
	}
	defer resp.Body.Close()

	var payload struct {
		Daily *struct {
			Time             []string  `json:"time"`
			TemperatureMax   []float64 `json:"temperature_2m_max"`
			TemperatureMin   []float64 `json:"temperature_2m_min"`
			PrecipitationSum []float64 `json:"precipitation_sum"`
		} `json:"daily"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Sprintf("Error fetching weather: %v", err)
	}
	if payload.Daily == nil || len(payload.Daily.Time) == 0 {
		return "Weather data unavailable."
	}

	daily := payload.Daily
	lines := make([]string, 0, forecastDays)
	for i := 0; i < len(daily.Time) && i < forecastDays; i++ {
		lines = append(lines, fmt.Sprintf("%s: High %s°C, Low %s°C, Rain %smm",
			daily.Time[i],
			formatFloat(at(daily.TemperatureMax, i)),
			formatFloat(at(daily.TemperatureMin, i)),
			formatFloat(at(daily.PrecipitationSum, i)),
		))
	}

	return "Forecast:\n" + strings.Join(lines, "\n")
}

func at(vals []float64, i int) float64 {
	if i < len(vals) {
		return vals[i]
	}
	return 0
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
