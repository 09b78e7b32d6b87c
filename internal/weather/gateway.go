package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const httpTimeout = 10 * time.Second

const (
	forecastDefaultURL = "https://api.weatherapi.com/v1/forecast.json"
	searchDefaultURL   = "https://api.weatherapi.com/v1/search.json"
)

// newHTTPClient returns an http.Client with a 10-second timeout.
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// Gateway translates normalized requests into WeatherAPI.com calls and
// normalizes the responses, so downstream code never sees provider field
// names. It holds no state beyond configuration.
type Gateway struct {
	apiKey      string
	forecastURL string
	searchURL   string
	client      *http.Client
	log         *slog.Logger

	// missing-credential warning is logged once, not per keystroke
	keyWarnOnce sync.Once
}

// NewGateway constructs a Gateway against the production WeatherAPI endpoints.
func NewGateway(apiKey string, log *slog.Logger) *Gateway {
	return NewGatewayWithURLs(forecastDefaultURL, searchDefaultURL, apiKey, log)
}

// NewGatewayWithURLs constructs a Gateway pointing at custom base URLs (for tests).
func NewGatewayWithURLs(forecastURL, searchURL, apiKey string, log *slog.Logger) *Gateway {
	return &Gateway{
		apiKey:      apiKey,
		forecastURL: forecastURL,
		searchURL:   searchURL,
		client:      newHTTPClient(),
		log:         log,
	}
}

// SearchLocations looks up autocomplete suggestions for query. It fails
// softly: transport and upstream errors yield an empty list with a nil error,
// because this backs live typing and a user must never see an error flash.
// The one exception is a missing credential, which is reported as ErrNoAPIKey
// so the caller can surface the configuration problem once.
func (g *Gateway) SearchLocations(ctx context.Context, query string) ([]LocationSuggestion, error) {
	if g.apiKey == "" {
		g.keyWarnOnce.Do(func() {
			g.log.Error("weather API key is not set, location search disabled")
		})
		return []LocationSuggestion{}, ErrNoAPIKey
	}

	endpoint := g.searchURL + "?key=" + url.QueryEscape(g.apiKey) + "&q=" + url.QueryEscape(query)

	resp, err := g.get(ctx, endpoint)
	if err != nil {
		g.log.Warn("location search request failed", "query", query, "err", err)
		return []LocationSuggestion{}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		g.log.Warn("location search returned non-OK status", "query", query, "status", resp.StatusCode)
		return []LocationSuggestion{}, nil
	}

	suggestions, err := decodeSuggestions(resp.Body)
	if err != nil {
		g.log.Warn("location search response malformed", "query", query, "err", err)
		return []LocationSuggestion{}, nil
	}

	return suggestions, nil
}

// FetchForecast retrieves current conditions plus a days-long forecast for a
// free-form location query. Unlike SearchLocations it fails hard: an upstream
// error surfaces as *UpstreamError carrying the provider's message when one
// was reported, and a malformed payload as *ParseError.
func (g *Gateway) FetchForecast(ctx context.Context, locationQuery string, days int) (*Data, error) {
	return g.forecast(ctx, locationQuery, days)
}

// ReverseGeocode fetches the forecast for device coordinates. The returned
// bundle always embeds the resolved location. Same failure contract as
// FetchForecast.
func (g *Gateway) ReverseGeocode(ctx context.Context, lat, lon float64) (*Data, error) {
	return g.forecast(ctx, fmt.Sprintf("%f,%f", lat, lon), forecastDays)
}

func (g *Gateway) forecast(ctx context.Context, query string, days int) (*Data, error) {
	if g.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	endpoint := fmt.Sprintf("%s?key=%s&q=%s&days=%d&aqi=no&alerts=no",
		g.forecastURL, url.QueryEscape(g.apiKey), url.QueryEscape(query), days)

	resp, err := g.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetching forecast for %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, upstreamError(resp)
	}

	return decodeForecast(resp.Body)
}

func (g *Gateway) get(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	return g.client.Do(req)
}

// upstreamError builds an UpstreamError from a non-2xx provider response,
// preferring the provider's own error text over the generic fallback.
func upstreamError(resp *http.Response) *UpstreamError {
	message := "Failed to fetch weather data"

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil {
		var envelope errorEnvelope
		if jsonErr := json.Unmarshal(body, &envelope); jsonErr == nil && envelope.Error.Message != "" {
			message = envelope.Error.Message
		}
	}

	return &UpstreamError{StatusCode: resp.StatusCode, Message: message}
}
