package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Akash17891234/weather-app-assessment/internal/export"
	"github.com/Akash17891234/weather-app-assessment/internal/storage"
)

// createSearchRequest leaves location and date presence to the submitter so
// its ordered validation messages surface unchanged; the validator covers
// what the submitter does not check (enum membership, date format).
type createSearchRequest struct {
	Location     string `json:"location"`
	LocationType string `json:"location_type" validate:"required,oneof=city zip coordinates landmark"`
	StartDate    string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate      string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

type coordinatesSearchRequest struct {
	Lat       *float64 `json:"lat" validate:"required"`
	Lon       *float64 `json:"lon" validate:"required"`
	StartDate string   `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string   `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

type updateSearchRequest struct {
	Location     *string `json:"location" validate:"omitempty,min=1"`
	LocationType *string `json:"location_type" validate:"omitempty,oneof=city zip coordinates landmark"`
	StartDate    *string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate      *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

// decodeAndValidate decodes the request body into dst and runs struct
// validation, writing a 400 and returning false on any failure.
func (h *Handlers) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

// validationMessage flattens a validator error into a single field complaint.
func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Sprintf("invalid value for field %s (%s)", fe.Field(), fe.Tag())
	}
	return "invalid request"
}

// ListSearches handles GET /searches, most recent first.
func (h *Handlers) ListSearches(w http.ResponseWriter, r *http.Request) {
	searches, err := h.repo.List(r.Context())
	if err != nil {
		h.log.Error("listing searches failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to load weather history")
		return
	}

	writeJSON(w, http.StatusOK, searches)
}

// CreateSearch handles POST /searches: validate, fetch a 5-day forecast,
// persist the search with its snapshot, and return the fetched weather. The
// weather comes back even when the save failed; display is never blocked by
// persistence.
func (h *Handlers) CreateSearch(w http.ResponseWriter, r *http.Request) {
	var req createSearchRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	data, err := h.submitter.Submit(r.Context(), req.Location, req.LocationType, req.StartDate, req.EndDate)
	if err != nil {
		h.writeFetchError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, data)
}

// CreateSearchFromCoordinates handles POST /searches/coordinates for
// device-location submissions. Persisted only when both dates were supplied.
func (h *Handlers) CreateSearchFromCoordinates(w http.ResponseWriter, r *http.Request) {
	var req coordinatesSearchRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	data, err := h.submitter.SubmitFromDeviceLocation(r.Context(), *req.Lat, *req.Lon, req.StartDate, req.EndDate)
	if err != nil {
		h.writeFetchError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, data)
}

// UpdateSearch handles PUT /searches/{id}. The date-range invariant is
// checked here, before any store mutation; the table constraint is only a
// backstop.
func (h *Handlers) UpdateSearch(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid search id")
		return
	}

	var req updateSearchRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if (req.StartDate == nil) != (req.EndDate == nil) {
		writeError(w, http.StatusBadRequest, "both dates required to change the date range")
		return
	}
	if req.StartDate != nil && *req.EndDate < *req.StartDate {
		writeError(w, http.StatusBadRequest, "end before start")
		return
	}

	updated, err := h.repo.Update(r.Context(), id, storage.UpdateSearchParams{
		Location:     req.Location,
		LocationType: req.LocationType,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "weather search not found")
			return
		}
		h.log.Error("updating search failed", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to update search")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// DeleteSearch handles DELETE /searches/{id}.
func (h *Handlers) DeleteSearch(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid search id")
		return
	}

	if err := h.repo.DeleteOne(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "weather search not found")
			return
		}
		h.log.Error("deleting search failed", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete search")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ClearSearches handles DELETE /searches and reports how many rows went away.
func (h *Handlers) ClearSearches(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.repo.DeleteAll(r.Context())
	if err != nil {
		h.log.Error("clearing searches failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to clear history")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

// exportFormats maps the format parameter to a formatter, content type and
// download filename.
var exportFormats = map[string]struct {
	render      func([]storage.WeatherSearch) ([]byte, error)
	contentType string
	filename    string
}{
	"json":     {export.JSON, "application/json", "weather-searches.json"},
	"csv":      {export.CSV, "text/csv", "weather-searches.csv"},
	"xml":      {export.XML, "application/xml", "weather-searches.xml"},
	"markdown": {export.Markdown, "text/markdown", "weather-searches.md"},
}

// ExportSearches handles GET /export?format=json|csv|xml|markdown.
func (h *Handlers) ExportSearches(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}

	spec, ok := exportFormats[format]
	if !ok {
		writeError(w, http.StatusBadRequest, "unsupported export format")
		return
	}

	searches, err := h.repo.List(r.Context())
	if err != nil {
		h.log.Error("listing searches for export failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to load weather history")
		return
	}

	body, err := spec.render(searches)
	if err != nil {
		h.log.Error("rendering export failed", "format", format, "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to export data")
		return
	}

	w.Header().Set("Content-Type", spec.contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+spec.filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
