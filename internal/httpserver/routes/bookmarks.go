package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/klotho/internal/httpserver/deps"
	"github.com/MrSnakeDoc/klotho/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/klotho/internal/httpserver/mw"
)

func init() { Register(registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	limit := mw.RateLimit(rateLimitConfig(d))

	r.Route("/bookmarks", func(r chi.Router) {
		r.Use(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger), mw.EnforceHost(d.AllowedHosts, d.Logger))

		r.Get("/", handlers.ListBookmarks(d))
		r.Get("/{id}", handlers.GetBookmark(d))
		r.With(limit).Post("/", handlers.CreateBookmark(d))
		r.With(limit).Put("/{id}", handlers.UpdateBookmark(d))
		r.With(limit).Delete("/{id}", handlers.DeleteBookmark(d))
	})
}
