package weather

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// forecastDays is the fixed forecast horizon for a submitted search.
const forecastDays = 5

const dateLayout = "2006-01-02"

// ForecastProvider is the subset of Gateway the fetch controller needs.
type ForecastProvider interface {
	FetchForecast(ctx context.Context, locationQuery string, days int) (*Data, error)
	ReverseGeocode(ctx context.Context, lat, lon float64) (*Data, error)
}

// SearchRecord is a validated search plus its result snapshot, handed to the
// history store after a successful fetch.
type SearchRecord struct {
	Location     string
	LocationType string
	StartDate    string
	EndDate      string
	Data         *Data
}

// HistorySaver persists a SearchRecord. Satisfied by storage.Repository.
type HistorySaver interface {
	SaveSearch(ctx context.Context, rec SearchRecord) error
}

// FetchController orchestrates a single resolve-and-fetch submission:
// validation, one provider call, then a best-effort history save. No retries
// anywhere; a single upstream failure is terminal for that submission.
type FetchController struct {
	provider ForecastProvider
	history  HistorySaver
	log      *slog.Logger
	inFlight atomic.Bool
}

// NewFetchController constructs a FetchController.
func NewFetchController(provider ForecastProvider, history HistorySaver, log *slog.Logger) *FetchController {
	return &FetchController{
		provider: provider,
		history:  history,
		log:      log,
	}
}

// Submit validates the user's input, fetches a 5-day forecast and persists
// the search with its snapshot. Validation short-circuits in order and never
// reaches the provider. The fetch result is returned even when the save
// fails; persistence failure is logged, never shown.
func (c *FetchController) Submit(ctx context.Context, locationText, locationType, startDate, endDate string) (*Data, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSubmitInFlight
	}
	defer c.inFlight.Store(false)

	locationText = strings.TrimSpace(locationText)
	if locationText == "" {
		return nil, &ValidationError{Reason: "location required"}
	}
	if startDate == "" || endDate == "" {
		return nil, &ValidationError{Reason: "dates required"}
	}
	start, end, err := parseDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, &ValidationError{Reason: "end before start"}
	}

	data, err := c.provider.FetchForecast(ctx, locationText, forecastDays)
	if err != nil {
		return nil, err
	}

	c.save(ctx, SearchRecord{
		Location:     locationText,
		LocationType: locationType,
		StartDate:    startDate,
		EndDate:      endDate,
		Data:         data,
	})

	return data, nil
}

// SubmitFromDeviceLocation resolves device coordinates to a place and its
// forecast. The search is persisted only when both dates are present, with
// location_type "coordinates" and a label derived from the resolved place.
func (c *FetchController) SubmitFromDeviceLocation(ctx context.Context, lat, lon float64, startDate, endDate string) (*Data, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSubmitInFlight
	}
	defer c.inFlight.Store(false)

	data, err := c.provider.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		return nil, err
	}

	if startDate != "" && endDate != "" && data.Location != nil {
		c.save(ctx, SearchRecord{
			Location:     data.Location.Name + ", " + data.Location.Country,
			LocationType: "coordinates",
			StartDate:    startDate,
			EndDate:      endDate,
			Data:         data,
		})
	}

	return data, nil
}

func (c *FetchController) save(ctx context.Context, rec SearchRecord) {
	if err := c.history.SaveSearch(ctx, rec); err != nil {
		c.log.Error("saving weather search failed", "location", rec.Location, "err", err)
	}
}

func parseDateRange(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return time.Time{}, time.Time{}, &ValidationError{Reason: fmt.Sprintf("invalid start date %q", startDate)}
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return time.Time{}, time.Time{}, &ValidationError{Reason: fmt.Sprintf("invalid end date %q", endDate)}
	}
	return start, end, nil
}
