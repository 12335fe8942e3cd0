package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/recur/internal/http/alias"
	"github.com/MrJamesThe3rd/recur/internal/http/export"
	"github.com/MrJamesThe3rd/recur/internal/http/item"
	"github.com/MrJamesThe3rd/recur/internal/http/statement"
)

type Options struct {
	CORSOrigins []string
	Timeout     time.Duration
}

func New(
	opts Options,
	statementsV1 *statement.Handler,
	itemsV1 *item.Handler,
	aliasesV1 *alias.Handler,
	exportV1 *export.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
	}))

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Route("/api/v1", func(r chi.Router) {
		// Uploads are multipart; the rest of the statement routes are JSON.
		r.Route("/statements", statementsV1.Routes)

		r.Route("/items", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			itemsV1.Routes(r)
		})

		r.Route("/planned", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			itemsV1.PlannedRoutes(r)
		})

		r.Route("/calendar", itemsV1.CalendarRoutes)

		r.Route("/aliases", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			aliasesV1.Routes(r)
		})

		r.Route("/export", exportV1.Routes)
	})

	return router
}
