package router

import (
	"net/http"

	"leadtracker/internal/api/v1/handler"
	"leadtracker/internal/api/v1/middleware"
	"leadtracker/internal/cache"
	"leadtracker/internal/config"
	"leadtracker/internal/log"
	"leadtracker/internal/service"
)

const BasePath = "/leadtracker/api/v1"

// New builds the API handler from config.AppConfig. cache.Init must have run.
func New(detector *service.Detector) http.Handler {
	cfg := config.AppConfig

	mux := http.NewServeMux()

	register := func(path string, h http.Handler) {
		mux.Handle(BasePath+path, h)
	}

	forms := handler.NewFormHandler(detector, cfg.MaxRequestBytes)
	authenticated := middleware.Authenticate([]byte(cfg.JWTSecret))

	register("/health", http.HandlerFunc(handler.HealthCheckHandler))
	register("/forms/detect", authenticated(http.HandlerFunc(forms.DetectForms)))
	register("/forms/extract", authenticated(http.HandlerFunc(forms.ExtractForms)))

	return middleware.RecoverPanic(
		log.Logger,
		middleware.SecureHeaders(
			middleware.Logging(
				middleware.Metrics(
					middleware.CORS(
						middleware.RateLimit(cache.Store, cfg.RateLimitRPS, cfg.RateLimitBurst)(mux),
					),
				),
			),
		),
	)
}

func NewMetricsRouter() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler.MetricsHandler())
	return mux
}
