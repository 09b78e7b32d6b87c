package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/Akash17891234/weather-app-assessment/internal/storage"
	"github.com/Akash17891234/weather-app-assessment/internal/weather"
)

// WeatherProvider defines the provider gateway operations needed by handlers.
type WeatherProvider interface {
	SearchLocations(ctx context.Context, query string) ([]weather.LocationSuggestion, error)
	FetchForecast(ctx context.Context, locationQuery string, days int) (*weather.Data, error)
	ReverseGeocode(ctx context.Context, lat, lon float64) (*weather.Data, error)
}

// VideoSearcher defines the best-effort video enrichment lookup.
type VideoSearcher interface {
	Search(ctx context.Context, locationName string) ([]weather.Video, string)
}

// VideoCache defines the cache operations for video lookups.
type VideoCache interface {
	Get(ctx context.Context, location string) ([]weather.Video, bool, error)
	Set(ctx context.Context, location string, videos []weather.Video) error
}

// Submitter defines the validated fetch-and-persist submission flow.
type Submitter interface {
	Submit(ctx context.Context, locationText, locationType, startDate, endDate string) (*weather.Data, error)
	SubmitFromDeviceLocation(ctx context.Context, lat, lon float64, startDate, endDate string) (*weather.Data, error)
}

// HistoryRepo defines the storage operations needed by the history handlers.
// Creation goes through Submitter, so it is not part of this interface.
type HistoryRepo interface {
	List(ctx context.Context) ([]storage.WeatherSearch, error)
	Update(ctx context.Context, id uuid.UUID, p storage.UpdateSearchParams) (*storage.WeatherSearch, error)
	DeleteOne(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) (int64, error)
}
