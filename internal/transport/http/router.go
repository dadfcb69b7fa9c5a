package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/pocketledger/alerts/internal/application/anomaly"
	"github.com/pocketledger/alerts/internal/application/composer"
	"github.com/pocketledger/alerts/internal/application/pattern"
	"github.com/pocketledger/alerts/internal/application/preference"
	"github.com/pocketledger/alerts/internal/config"
	"github.com/pocketledger/alerts/internal/transport/http/handler"
	appmiddleware "github.com/pocketledger/alerts/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.Verifier != nil {
		authMw = appmiddleware.Auth(deps.Verifier)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10 on the transaction ingest hook.
	ingestRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	patternSvc := pattern.NewService(deps.PatternRepo)
	composerSvc := composer.NewService(deps.NotificationRepo)
	anomalySvc := anomaly.NewService(patternSvc, composerSvc)
	prefSvc := preference.NewService(deps.PreferenceRepo)

	healthH := handler.NewHealthHandler()
	txH := handler.NewTransactionHandler(anomalySvc)
	patternH := handler.NewPatternHandler(patternSvc)
	notifH := handler.NewNotificationHandler(deps.NotificationRepo)
	prefH := handler.NewPreferenceHandler(prefSvc)
	subH := handler.NewSubscriptionHandler(deps.SubscriptionRepo)
	procH := handler.NewProcessorHandler(deps.Processor)

	r.Get("/health-check/{action}", healthH.Ping)
	r.Post("/health-check/{action}", healthH.Ping)
	r.Get("/test", healthH.Test)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/v1", func(r chi.Router) {
		r.Use(authMw)

		r.With(ingestRL.Limit).Post("/transactions/analyze", txH.Analyze)

		r.Get("/patterns/{categoryID}", patternH.Get)
		r.Delete("/patterns/{categoryID}", patternH.Reset)

		r.Get("/notifications", notifH.List)
		r.Get("/notifications/{id}", notifH.Get)

		r.Get("/preferences", prefH.Get)
		r.Put("/preferences", prefH.Update)

		r.Post("/push-subscriptions", subH.Register)
		r.Delete("/push-subscriptions", subH.Unregister)

		r.Get("/processor/status", procH.Status)
	})

	return r
}
