package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akash17891234/weather-app-assessment/internal/api"
	"github.com/Akash17891234/weather-app-assessment/internal/storage"
	"github.com/Akash17891234/weather-app-assessment/internal/weather"
)

// ---- mock implementations ----

type mockProvider struct {
	searchFn  func(ctx context.Context, query string) ([]weather.LocationSuggestion, error)
	fetchFn   func(ctx context.Context, locationQuery string, days int) (*weather.Data, error)
	reverseFn func(ctx context.Context, lat, lon float64) (*weather.Data, error)
}

func (m *mockProvider) SearchLocations(ctx context.Context, query string) ([]weather.LocationSuggestion, error) {
	return m.searchFn(ctx, query)
}
func (m *mockProvider) FetchForecast(ctx context.Context, locationQuery string, days int) (*weather.Data, error) {
	return m.fetchFn(ctx, locationQuery, days)
}
func (m *mockProvider) ReverseGeocode(ctx context.Context, lat, lon float64) (*weather.Data, error) {
	return m.reverseFn(ctx, lat, lon)
}

type mockVideos struct {
	searchFn func(ctx context.Context, locationName string) ([]weather.Video, string)
}

func (m *mockVideos) Search(ctx context.Context, locationName string) ([]weather.Video, string) {
	return m.searchFn(ctx, locationName)
}

type mockVideoCache struct {
	getFn func(ctx context.Context, location string) ([]weather.Video, bool, error)
	setFn func(ctx context.Context, location string, videos []weather.Video) error
}

func (m *mockVideoCache) Get(ctx context.Context, location string) ([]weather.Video, bool, error) {
	return m.getFn(ctx, location)
}
func (m *mockVideoCache) Set(ctx context.Context, location string, videos []weather.Video) error {
	return m.setFn(ctx, location, videos)
}

type mockSubmitter struct {
	submitFn func(ctx context.Context, locationText, locationType, startDate, endDate string) (*weather.Data, error)
	deviceFn func(ctx context.Context, lat, lon float64, startDate, endDate string) (*weather.Data, error)
}

func (m *mockSubmitter) Submit(ctx context.Context, locationText, locationType, startDate, endDate string) (*weather.Data, error) {
	return m.submitFn(ctx, locationText, locationType, startDate, endDate)
}
func (m *mockSubmitter) SubmitFromDeviceLocation(ctx context.Context, lat, lon float64, startDate, endDate string) (*weather.Data, error) {
	return m.deviceFn(ctx, lat, lon, startDate, endDate)
}

type mockRepo struct {
	listFn      func(ctx context.Context) ([]storage.WeatherSearch, error)
	updateFn    func(ctx context.Context, id uuid.UUID, p storage.UpdateSearchParams) (*storage.WeatherSearch, error)
	deleteOneFn func(ctx context.Context, id uuid.UUID) error
	deleteAllFn func(ctx context.Context) (int64, error)
}

func (m *mockRepo) List(ctx context.Context) ([]storage.WeatherSearch, error) {
	return m.listFn(ctx)
}
func (m *mockRepo) Update(ctx context.Context, id uuid.UUID, p storage.UpdateSearchParams) (*storage.WeatherSearch, error) {
	return m.updateFn(ctx, id, p)
}
func (m *mockRepo) DeleteOne(ctx context.Context, id uuid.UUID) error {
	return m.deleteOneFn(ctx, id)
}
func (m *mockRepo) DeleteAll(ctx context.Context) (int64, error) {
	return m.deleteAllFn(ctx)
}

type mockPinger struct{ err error }

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

// ---- helpers ----

func sampleData() *weather.Data {
	return &weather.Data{
		Current: &weather.CurrentWeather{
			TempC:     22.5,
			Condition: weather.Condition{Text: "Sunny"},
		},
		Forecast: []weather.ForecastDay{{Date: "2024-01-01"}},
		Location: &weather.LocationInfo{Name: "Paris", Country: "France"},
	}
}

func sampleVideos() []weather.Video {
	return []weather.Video{{ID: "abc123", Title: "Paris in 4K", ChannelTitle: "Travel Channel"}}
}

type routerDeps struct {
	provider   *mockProvider
	videos     *mockVideos
	videoCache *mockVideoCache
	submitter  *mockSubmitter
	repo       *mockRepo
	db         *mockPinger
	redis      *mockPinger
}

func buildRouter(d routerDeps) http.Handler {
	if d.provider == nil {
		d.provider = &mockProvider{}
	}
	if d.videos == nil {
		d.videos = &mockVideos{}
	}
	if d.videoCache == nil {
		d.videoCache = &mockVideoCache{
			getFn: func(_ context.Context, _ string) ([]weather.Video, bool, error) { return nil, false, nil },
			setFn: func(_ context.Context, _ string, _ []weather.Video) error { return nil },
		}
	}
	if d.submitter == nil {
		d.submitter = &mockSubmitter{}
	}
	if d.repo == nil {
		d.repo = &mockRepo{}
	}
	if d.db == nil {
		d.db = &mockPinger{}
	}
	if d.redis == nil {
		d.redis = &mockPinger{}
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	handlers := api.NewHandlers(d.provider, d.videos, d.videoCache, d.submitter, d.repo, log)
	return api.NewRouter(handlers, d.db, d.redis, log)
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body["error"]
}

// ---- GET /weather ----

func TestWeather_Success(t *testing.T) {
	var gotLocation string
	var gotDays int
	provider := &mockProvider{
		fetchFn: func(_ context.Context, locationQuery string, days int) (*weather.Data, error) {
			gotLocation = locationQuery
			gotDays = days
			return sampleData(), nil
		},
	}

	router := buildRouter(routerDeps{provider: provider})
	req := httptest.NewRequest(http.MethodGet, "/weather?location=Paris", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Paris", gotLocation)
	assert.Equal(t, 5, gotDays)

	var got weather.Data
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, 22.5, got.Current.TempC)
}

func TestWeather_MissingLocation(t *testing.T) {
	router := buildRouter(routerDeps{})
	req := httptest.NewRequest(http.MethodGet, "/weather", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Location is required", errorBody(t, w))
}

func TestWeather_InvalidDays(t *testing.T) {
	router := buildRouter(routerDeps{})
	req := httptest.NewRequest(http.MethodGet, "/weather?location=Paris&days=zero", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWeather_UpstreamErrorForwardsStatusAndMessage(t *testing.T) {
	provider := &mockProvider{
		fetchFn: func(_ context.Context, _ string, _ int) (*weather.Data, error) {
			return nil, &weather.UpstreamError{StatusCode: http.StatusBadRequest, Message: "No matching location found."}
		},
	}

	router := buildRouter(routerDeps{provider: provider})
	req := httptest.NewRequest(http.MethodGet, "/weather?location=xyzzyplugh", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No matching location found.", errorBody(t, w))
}

func TestWeather_MissingAPIKey(t *testing.T) {
	provider := &mockProvider{
		fetchFn: func(_ context.Context, _ string, _ int) (*weather.Data, error) {
			return nil, weather.ErrNoAPIKey
		},
	}

	router := buildRouter(routerDeps{provider: provider})
	req := httptest.NewRequest(http.MethodGet, "/weather?location=Paris", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "API key not configured", errorBody(t, w))
}

func TestWeather_UnknownErrorIsGeneric(t *testing.T) {
	provider := &mockProvider{
		fetchFn: func(_ context.Context, _ string, _ int) (*weather.Data, error) {
			return nil, fmt.Errorf("dial tcp: connection refused")
		},
	}

	router := buildRouter(routerDeps{provider: provider})
	req := httptest.NewRequest(http.MethodGet, "/weather?location=Paris", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to fetch weather data", errorBody(t, w))
}

// ---- GET /geocode ----

func TestGeocode_Success(t *testing.T) {
	provider := &mockProvider{
		reverseFn: func(_ context.Context, lat, lon float64) (*weather.Data, error) {
			assert.Equal(t, 48.8567, lat)
			assert.Equal(t, 2.3508, lon)
			return sampleData(), nil
		},
	}

	router := buildRouter(routerDeps{provider: provider})
	req := httptest.NewRequest(http.MethodGet, "/geocode?lat=48.8567&lon=2.3508", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var got weather.Data
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	require.NotNil(t, got.Location)
	assert.Equal(t, "Paris", got.Location.Name)
}

func TestGeocode_MissingCoordinates(t *testing.T) {
	router := buildRouter(routerDeps{})
	req := httptest.NewRequest(http.MethodGet, "/geocode?lat=48.8567", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Latitude and longitude are required", errorBody(t, w))
}

func TestGeocode_NonNumericCoordinates(t *testing.T) {
	router := buildRouter(routerDeps{})
	req := httptest.NewRequest(http.MethodGet, "/geocode?lat=north&lon=west", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Latitude and longitude must be numbers", errorBody(t, w))
}

// ---- GET /location-search ----

func TestLocationSearch_ShortQuerySkipsProvider(t *testing.T) {
	provider := &mockProvider{
		searchFn: func(_ context.Context, _ string) ([]weather.LocationSuggestion, error) {
			t.Fatal("provider should not be called for a short query")
			return nil, nil
		},
	}

	router := buildRouter(routerDeps{provider: provider})
	req := httptest.NewRequest(http.MethodGet, "/location-search?q=P", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Suggestions []weather.LocationSuggestion `json:"suggestions"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.NotNil(t, body.Suggestions)
	assert.Empty(t, body.Suggestions)
}

func TestLocationSearch_ReturnsSuggestions(t *testing.T) {
	provider := &mockProvider{
		searchFn: func(_ context.Context, query string) ([]weather.LocationSuggestion, error) {
			assert.Equal(t, "Par", query)
			return []weather.LocationSuggestion{
				{ID: 1, Name: "Paris", Country: "France", DisplayName: "Paris, Île-de-France, France"},
			}, nil
		},
	}

	router := buildRouter(routerDeps{provider: provider})
	req := httptest.NewRequest(http.MethodGet, "/location-search?q=Par", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Suggestions []weather.LocationSuggestion `json:"suggestions"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.Len(t, body.Suggestions, 1)
	assert.Equal(t, "Paris, Île-de-France, France", body.Suggestions[0].DisplayName)
}

func TestLocationSearch_MissingKeySurfacesConfigProblem(t *testing.T) {
	provider := &mockProvider{
		searchFn: func(_ context.Context, _ string) ([]weather.LocationSuggestion, error) {
			return []weather.LocationSuggestion{}, weather.ErrNoAPIKey
		},
	}

	router := buildRouter(routerDeps{provider: provider})
	req := httptest.NewRequest(http.MethodGet, "/location-search?q=Par", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body struct {
		Suggestions []weather.LocationSuggestion `json:"suggestions"`
		Error       string                       `json:"error"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "API key not configured", body.Error)
	assert.Empty(t, body.Suggestions)
}

// ---- GET /videos ----

func TestVideos_MissingLocation(t *testing.T) {
	router := buildRouter(routerDeps{})
	req := httptest.NewRequest(http.MethodGet, "/videos", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Location is required", errorBody(t, w))
}

func TestVideos_CacheHitSkipsSearch(t *testing.T) {
	videos := &mockVideos{
		searchFn: func(_ context.Context, _ string) ([]weather.Video, string) {
			t.Fatal("searcher should not be called on cache hit")
			return nil, ""
		},
	}
	videoCache := &mockVideoCache{
		getFn: func(_ context.Context, _ string) ([]weather.Video, bool, error) {
			return sampleVideos(), true, nil
		},
	}

	router := buildRouter(routerDeps{videos: videos, videoCache: videoCache})
	req := httptest.NewRequest(http.MethodGet, "/videos?location=Paris", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Videos []weather.Video `json:"videos"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.Len(t, body.Videos, 1)
	assert.Equal(t, "abc123", body.Videos[0].ID)
}

func TestVideos_CacheMissSearchesAndStores(t *testing.T) {
	setCalled := false
	videos := &mockVideos{
		searchFn: func(_ context.Context, location string) ([]weather.Video, string) {
			assert.Equal(t, "Paris", location)
			return sampleVideos(), ""
		},
	}
	videoCache := &mockVideoCache{
		getFn: func(_ context.Context, _ string) ([]weather.Video, bool, error) { return nil, false, nil },
		setFn: func(_ context.Context, _ string, v []weather.Video) error {
			setCalled = true
			assert.Equal(t, sampleVideos(), v)
			return nil
		},
	}

	router := buildRouter(routerDeps{videos: videos, videoCache: videoCache})
	req := httptest.NewRequest(http.MethodGet, "/videos?location=Paris", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, setCalled, "cache.Set should be called after a clean lookup")
}

func TestVideos_DegradedLookupIsNotCached(t *testing.T) {
	videos := &mockVideos{
		searchFn: func(_ context.Context, _ string) ([]weather.Video, string) {
			return []weather.Video{}, "Failed to fetch videos"
		},
	}
	videoCache := &mockVideoCache{
		getFn: func(_ context.Context, _ string) ([]weather.Video, bool, error) { return nil, false, nil },
		setFn: func(_ context.Context, _ string, _ []weather.Video) error {
			t.Fatal("degraded lookups must not be cached")
			return nil
		},
	}

	router := buildRouter(routerDeps{videos: videos, videoCache: videoCache})
	req := httptest.NewRequest(http.MethodGet, "/videos?location=Paris", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Videos  []weather.Video `json:"videos"`
		Message string          `json:"message"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Empty(t, body.Videos)
	assert.Equal(t, "Failed to fetch videos", body.Message)
}

func TestVideos_CacheErrorFallsThroughToSearch(t *testing.T) {
	searched := false
	videos := &mockVideos{
		searchFn: func(_ context.Context, _ string) ([]weather.Video, string) {
			searched = true
			return sampleVideos(), ""
		},
	}
	videoCache := &mockVideoCache{
		getFn: func(_ context.Context, _ string) ([]weather.Video, bool, error) {
			return nil, false, fmt.Errorf("redis unreachable")
		},
		setFn: func(_ context.Context, _ string, _ []weather.Video) error { return nil },
	}

	router := buildRouter(routerDeps{videos: videos, videoCache: videoCache})
	req := httptest.NewRequest(http.MethodGet, "/videos?location=Paris", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, searched)
}

// ---- GET /health ----

func TestHealth_OK(t *testing.T) {
	router := buildRouter(routerDeps{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "ok", body["db"])
	assert.Equal(t, "ok", body["redis"])
}

func TestHealth_DBDown(t *testing.T) {
	router := buildRouter(routerDeps{db: &mockPinger{err: fmt.Errorf("db unreachable")}})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, "error", body["db"])
}

func TestHealth_RedisDown(t *testing.T) {
	router := buildRouter(routerDeps{redis: &mockPinger{err: fmt.Errorf("redis unreachable")}})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
