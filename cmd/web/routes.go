package main

import (
	"net/http"

	"github.com/AdamBeresnev/pose-backend/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func newRouter(app *application) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", app.health)

	r.Route("/auth", func(r chi.Router) {
		r.Get("/login/google", app.login)
		r.Get("/callback/google", app.callback)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireBearer(app.tokens))
			r.Get("/me", app.me)
		})
	})

	return r
}
