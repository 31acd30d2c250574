package api

import (
	"net/http"

	_ "ecbrates/docs"
	"ecbrates/internal/rate/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	swagger "github.com/swaggo/http-swagger"
)

func NewRouter(rateHandler *handler.Handler, metricsHandler http.Handler) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Heartbeat("/healthz"))

	router.Handle("/metrics", metricsHandler)

	// Swagger UI
	router.Get("/swagger/*", swagger.WrapHandler)

	router.Route("/api/v1/rates", func(r chi.Router) {
		r.Use(requestLogger)
		r.Get("/supported-currencies", rateHandler.GetSupportedCodes)
		r.Get("/convert", rateHandler.Convert)
		r.Get("/{base}/{quote}", rateHandler.GetByCodes)
	})
	return router
}
