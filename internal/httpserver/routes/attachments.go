package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/klotho/internal/httpserver/deps"
	"github.com/MrSnakeDoc/klotho/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/klotho/internal/httpserver/mw"
)

func init() { Register(registerAttachments) }

func registerAttachments(r chi.Router, d deps.Deps) {
	limit := mw.RateLimit(rateLimitConfig(d))

	r.Route("/attachments", func(r chi.Router) {
		r.Use(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger), mw.EnforceHost(d.AllowedHosts, d.Logger))

		r.With(limit).Post("/", handlers.UploadAttachment(d))
		r.Get("/{key}", handlers.DownloadAttachment(d))
		r.With(limit).Delete("/{key}", handlers.RemoveAttachment(d))
	})
}
