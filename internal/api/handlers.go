package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/Akash17891234/weather-app-assessment/internal/weather"
)

const defaultForecastDays = 5

// Handlers holds the dependencies for all HTTP handlers.
type Handlers struct {
	provider   WeatherProvider
	videos     VideoSearcher
	videoCache VideoCache
	submitter  Submitter
	repo       HistoryRepo
	validate   *validator.Validate
	log        *slog.Logger
}

// NewHandlers constructs Handlers with all required dependencies.
func NewHandlers(provider WeatherProvider, videos VideoSearcher, videoCache VideoCache, submitter Submitter, repo HistoryRepo, log *slog.Logger) *Handlers {
	return &Handlers{
		provider:   provider,
		videos:     videos,
		videoCache: videoCache,
		submitter:  submitter,
		repo:       repo,
		validate:   validator.New(),
		log:        log,
	}
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeFetchError maps the error taxonomy of a provider fetch onto HTTP.
// Upstream failures forward the provider's status and best-available message.
func (h *Handlers) writeFetchError(w http.ResponseWriter, err error) {
	var validationErr *weather.ValidationError
	var upstreamErr *weather.UpstreamError

	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Reason)
	case errors.As(err, &upstreamErr):
		status := upstreamErr.StatusCode
		if status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
		writeError(w, status, upstreamErr.Message)
	case errors.Is(err, weather.ErrNoAPIKey):
		writeError(w, http.StatusInternalServerError, "API key not configured")
	case errors.Is(err, weather.ErrSubmitInFlight):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.log.Error("weather fetch failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch weather data")
	}
}

// Weather handles GET /weather?location=<text>&days=<int>.
func (h *Handlers) Weather(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")
	if location == "" {
		writeError(w, http.StatusBadRequest, "Location is required")
		return
	}

	days := defaultForecastDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = parsed
	}

	data, err := h.provider.FetchForecast(r.Context(), location, days)
	if err != nil {
		h.writeFetchError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, data)
}

// Geocode handles GET /geocode?lat=<float>&lon=<float>. The response embeds
// the resolved place alongside current conditions and the forecast.
func (h *Handlers) Geocode(w http.ResponseWriter, r *http.Request) {
	latRaw := r.URL.Query().Get("lat")
	lonRaw := r.URL.Query().Get("lon")
	if latRaw == "" || lonRaw == "" {
		writeError(w, http.StatusBadRequest, "Latitude and longitude are required")
		return
	}

	lat, latErr := strconv.ParseFloat(latRaw, 64)
	lon, lonErr := strconv.ParseFloat(lonRaw, 64)
	if latErr != nil || lonErr != nil {
		writeError(w, http.StatusBadRequest, "Latitude and longitude must be numbers")
		return
	}

	data, err := h.provider.ReverseGeocode(r.Context(), lat, lon)
	if err != nil {
		h.writeFetchError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, data)
}

type suggestionsResponse struct {
	Suggestions []weather.LocationSuggestion `json:"suggestions"`
	Error       string                       `json:"error,omitempty"`
}

// LocationSearch handles GET /location-search?q=<text>. Always 200 with a
// possibly-empty list, since lookup failures must never flash an error at
// someone mid-keystroke. The exception is a missing provider credential,
// which is a configuration problem worth surfacing.
func (h *Handlers) LocationSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if utf8.RuneCountInString(query) < 2 {
		writeJSON(w, http.StatusOK, suggestionsResponse{Suggestions: []weather.LocationSuggestion{}})
		return
	}

	suggestions, err := h.provider.SearchLocations(r.Context(), query)
	if errors.Is(err, weather.ErrNoAPIKey) {
		writeJSON(w, http.StatusInternalServerError, suggestionsResponse{
			Suggestions: []weather.LocationSuggestion{},
			Error:       "API key not configured",
		})
		return
	}

	writeJSON(w, http.StatusOK, suggestionsResponse{Suggestions: suggestions})
}

type videosResponse struct {
	Videos  []weather.Video `json:"videos"`
	Message string          `json:"message,omitempty"`
}

// Videos handles GET /videos?location=<text>. Best-effort: always 200, with a
// message when the lookup degraded. Successful lookups are cached; cache
// trouble falls through to a direct provider call.
func (h *Handlers) Videos(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")
	if location == "" {
		writeError(w, http.StatusBadRequest, "Location is required")
		return
	}

	if cached, ok, err := h.videoCache.Get(r.Context(), location); err != nil {
		h.log.Warn("video cache get failed", "location", location, "err", err)
	} else if ok {
		writeJSON(w, http.StatusOK, videosResponse{Videos: cached})
		return
	}

	videos, message := h.videos.Search(r.Context(), location)
	if message == "" {
		if err := h.videoCache.Set(r.Context(), location, videos); err != nil {
			h.log.Warn("video cache set failed", "location", location, "err", err)
		}
	}

	writeJSON(w, http.StatusOK, videosResponse{Videos: videos, Message: message})
}

type dbPinger interface {
	Ping(ctx context.Context) error
}

type redisPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlerFunc returns an http.HandlerFunc that checks db and redis
// connectivity: 200 when both respond, 503 otherwise.
func HealthHandlerFunc(db dbPinger, redis redisPinger, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		dbStatus := "ok"
		redisStatus := "ok"

		if err := db.Ping(ctx); err != nil {
			log.Error("health check: db ping failed", "err", err)
			dbStatus = "error"
			status = http.StatusServiceUnavailable
		}

		if err := redis.Ping(ctx); err != nil {
			log.Error("health check: redis ping failed", "err", err)
			redisStatus = "error"
			status = http.StatusServiceUnavailable
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}

		writeJSON(w, status, map[string]string{
			"status": overall,
			"db":     dbStatus,
			"redis":  redisStatus,
		})
	}
}
