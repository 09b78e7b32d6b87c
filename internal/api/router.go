package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

// NewRouter builds the Chi router with all routes configured. Rate limiting
// is applied globally: 60 requests per minute per IP.
func NewRouter(h *Handlers, db dbPinger, redisClient redisPinger, log *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(httprate.LimitByIP(60, time.Minute))

	r.Get("/health", HealthHandlerFunc(db, redisClient, log))

	r.Get("/weather", h.Weather)
	r.Get("/geocode", h.Geocode)
	r.Get("/location-search", h.LocationSearch)
	r.Get("/videos", h.Videos)
	r.Get("/export", h.ExportSearches)

	r.Route("/searches", func(r chi.Router) {
		r.Get("/", h.ListSearches)
		r.Post("/", h.CreateSearch)
		r.Post("/coordinates", h.CreateSearchFromCoordinates)
		r.Put("/{id}", h.UpdateSearch)
		r.Delete("/{id}", h.DeleteSearch)
		r.Delete("/", h.ClearSearches)
	})

	return r
}

// Ensure chi.Mux implements http.Handler.
var _ http.Handler = (*chi.Mux)(nil)
