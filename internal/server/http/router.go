package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/and161185/streamish/internal/config"
)

// NewRouter wires middleware and routes. requestTimeout <= 0 disables the per-request deadline.
func NewRouter(h *Handler, cfg config.HTTPConfig, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(Logging(h.log))
	r.Use(h.Recover)
	r.Use(CORS(cfg.CORSOrigins))

	r.Get("/", h.home)
	r.Get("/videos/{id}", h.videoPage)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(Metrics)
		if requestTimeout > 0 {
			r.Use(chimiddleware.Timeout(requestTimeout))
		}
		r.Use(h.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		r.Get("/health/live", h.live)
		r.Get("/health/ready", h.ready)

		r.Route("/profiles", func(r chi.Router) {
			r.Get("/", h.listProfiles)
			r.Post("/", h.createProfile)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.getProfile)
				r.Put("/", h.updateProfile)
				r.Delete("/", h.deleteProfile)
				r.Get("/videos", h.profileVideos)
			})
		})

		r.Route("/video", func(r chi.Router) {
			r.Get("/", h.listVideos(false))
			r.Post("/", h.createVideo)
			r.Get("/search", h.searchVideos)
			r.Get("/hottest", h.hottestVideos)
			r.Get("/GetWithComments", h.listVideos(true))
			r.Get("/GetWithComments/{id}", h.getVideo(true))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.getVideo(false))
				r.Put("/", h.updateVideo)
				r.Delete("/", h.deleteVideo)
				r.Post("/comments", h.addComment)
			})
		})
	})

	return r
}
