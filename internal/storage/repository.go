package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Akash17891234/weather-app-assessment/internal/weather"
)

// ErrNotFound is returned when the given id matches no stored search.
var ErrNotFound = errors.New("weather search not found")

// Location types accepted for a stored search.
const (
	LocationTypeCity        = "city"
	LocationTypeZip         = "zip"
	LocationTypeCoordinates = "coordinates"
	LocationTypeLandmark    = "landmark"
)

// WeatherSearch is a persisted search with its result snapshot. The store, not
// the application, assigns the id and both timestamps.
type WeatherSearch struct {
	ID              uuid.UUID     `json:"id"`
	Location        string        `json:"location"`
	LocationType    string        `json:"location_type"`
	StartDate       string        `json:"start_date"`
	EndDate         string        `json:"end_date"`
	TemperatureData *weather.Data `json:"temperature_data"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// CreateSearchParams is the caller-supplied part of a new record.
type CreateSearchParams struct {
	Location        string
	LocationType    string
	StartDate       string
	EndDate         string
	TemperatureData *weather.Data
}

// UpdateSearchParams is a partial edit; nil fields keep their stored value.
// Callers must have validated end_date >= start_date before reaching here;
// the table's check constraint is only a backstop.
type UpdateSearchParams struct {
	Location     *string
	LocationType *string
	StartDate    *string
	EndDate      *string
}

// Querier abstracts the subset of pgxpool.Pool used by Repository.
// This allows injection of a mock in tests.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository provides database access for weather search history. Every
// operation is a single round-trip with no client-side caching; concurrent
// updates to the same id are last-write-wins.
type Repository struct {
	q Querier
}

// NewRepository constructs a Repository backed by the given pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{q: pool}
}

// NewRepositoryWithQuerier constructs a Repository with a custom Querier (for tests).
func NewRepositoryWithQuerier(q Querier) *Repository {
	return &Repository{q: q}
}

const searchColumns = `id, location, location_type, start_date::text, end_date::text, temperature_data, created_at, updated_at`

// List returns all stored searches, most recent first.
func (r *Repository) List(ctx context.Context) ([]WeatherSearch, error) {
	q := `SELECT ` + searchColumns + ` FROM weather_searches ORDER BY created_at DESC`

	rows, err := r.q.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("querying weather searches: %w", err)
	}
	defer rows.Close()

	searches := make([]WeatherSearch, 0)
	for rows.Next() {
		s, err := scanSearch(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning weather search row: %w", err)
		}
		searches = append(searches, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating weather search rows: %w", err)
	}

	return searches, nil
}

// Create inserts a new search. Id and timestamps come back from the store.
func (r *Repository) Create(ctx context.Context, p CreateSearchParams) (*WeatherSearch, error) {
	dataJSON, err := marshalSnapshot(p.TemperatureData)
	if err != nil {
		return nil, err
	}

	q := `
		INSERT INTO weather_searches (location, location_type, start_date, end_date, temperature_data)
		VALUES ($1, $2, $3::date, $4::date, $5)
		RETURNING ` + searchColumns

	s, err := scanSearch(r.q.QueryRow(ctx, q, p.Location, p.LocationType, p.StartDate, p.EndDate, dataJSON))
	if err != nil {
		return nil, fmt.Errorf("creating weather search: %w", err)
	}
	return s, nil
}

// SaveSearch adapts Create to the fetch controller's side-effect interface.
func (r *Repository) SaveSearch(ctx context.Context, rec weather.SearchRecord) error {
	_, err := r.Create(ctx, CreateSearchParams{
		Location:        rec.Location,
		LocationType:    rec.LocationType,
		StartDate:       rec.StartDate,
		EndDate:         rec.EndDate,
		TemperatureData: rec.Data,
	})
	return err
}

// Update applies a partial edit and stamps a fresh updated_at.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, p UpdateSearchParams) (*WeatherSearch, error) {
	q := `
		UPDATE weather_searches
		SET location      = COALESCE($2, location),
		    location_type = COALESCE($3, location_type),
		    start_date    = COALESCE($4::date, start_date),
		    end_date      = COALESCE($5::date, end_date),
		    updated_at    = now()
		WHERE id = $1
		RETURNING ` + searchColumns

	s, err := scanSearch(r.q.QueryRow(ctx, q, id, p.Location, p.LocationType, p.StartDate, p.EndDate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("updating weather search %s: %w", id, err)
	}
	return s, nil
}

// DeleteOne removes a single search, reporting ErrNotFound for an unknown id.
func (r *Repository) DeleteOne(ctx context.Context, id uuid.UUID) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM weather_searches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting weather search %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAll clears the history and returns how many rows were removed.
func (r *Repository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM weather_searches`)
	if err != nil {
		return 0, fmt.Errorf("clearing weather searches: %w", err)
	}
	return tag.RowsAffected(), nil
}

// scanSearch reads one row in searchColumns order.
func scanSearch(row pgx.Row) (*WeatherSearch, error) {
	var s WeatherSearch
	var dataJSON []byte

	if err := row.Scan(
		&s.ID,
		&s.Location,
		&s.LocationType,
		&s.StartDate,
		&s.EndDate,
		&dataJSON,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if len(dataJSON) > 0 {
		var data weather.Data
		if err := json.Unmarshal(dataJSON, &data); err != nil {
			return nil, fmt.Errorf("unmarshaling temperature data: %w", err)
		}
		s.TemperatureData = &data
	}

	return &s, nil
}

// marshalSnapshot serializes the snapshot, keeping SQL NULL for absent data.
func marshalSnapshot(data *weather.Data) ([]byte, error) {
	if data == nil {
		return nil, nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshaling temperature data: %w", err)
	}
	return b, nil
}
