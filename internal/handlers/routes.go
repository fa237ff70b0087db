package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterOptions: общие настройки роутера.
type RouterOptions struct {
	// Источники, которым разрешены запросы с куками.
	AllowedOrigins []string
	// Таймаут запроса, ноль отключает.
	RequestTimeout time.Duration
}

// Routes собирает маршруты API.
func (h *Handler) Routes(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", traceIDHeader},
		ExposedHeaders:   []string{traceIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(h.withTraceID)
	r.Use(h.withLogging)
	r.Use(middleware.Recoverer)
	if opts.RequestTimeout > 0 {
		r.Use(middleware.Timeout(opts.RequestTimeout))
	}

	r.Get("/", h.RootHandler)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/access-token", h.AccessTokenHandler)
		r.Post("/auth/logout", h.LogoutHandler)

		r.Get("/jobs", h.GetJobsHandler)
		r.Get("/job/{_id}", h.GetJobHandler)

		r.Group(func(r chi.Router) {
			r.Use(h.VerifyUser)

			r.Post("/job", h.CreateJobHandler)
			r.Put("/job/{_id}", h.UpdateJobHandler)
			r.Delete("/job/{_id}", h.DeleteJobHandler)

			r.Post("/bid", h.CreateBidHandler)
			r.Get("/bids", h.GetBidsHandler)
			r.Put("/bid/{_id}", h.UpdateBidStatusHandler)
		})
	})

	return r
}
