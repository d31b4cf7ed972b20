// Package possaxadmin предоставляет маршруты для основного приложения.
package possaxadmin

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/possax-admin/internal/http/handlers/health"
	"github.com/magabrotheeeer/possax-admin/internal/http/handlers/listing/stores"
	"github.com/magabrotheeeer/possax-admin/internal/http/handlers/listing/users"
	"github.com/magabrotheeeer/possax-admin/internal/http/handlers/report/expiring"
	"github.com/magabrotheeeer/possax-admin/internal/http/handlers/report/summary"
	"github.com/magabrotheeeer/possax-admin/internal/http/handlers/report/top"
	"github.com/magabrotheeeer/possax-admin/internal/http/handlers/report/trend"
	"github.com/magabrotheeeer/possax-admin/internal/http/handlers/transaction/cancel"
	"github.com/magabrotheeeer/possax-admin/internal/http/handlers/transaction/create"
	"github.com/magabrotheeeer/possax-admin/internal/http/middlewarectx"
	dashboardservice "github.com/magabrotheeeer/possax-admin/internal/services/dashboard"
	writeintentservice "github.com/magabrotheeeer/possax-admin/internal/services/writeintent"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, dashboardService *dashboardservice.Service, writeintentService *writeintentservice.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		middlewarectx.RateLimitMiddleware(logger, rate.NewLimiter(50, 100)),
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Отчётные конечные точки: снимок закрепляется за запросом
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.SnapshotMiddleware(dashboardService, logger))
			r.Get("/reports/summary", summary.New(logger, dashboardService).ServeHTTP)
			r.Get("/reports/trend", trend.New(logger, dashboardService).ServeHTTP)
			r.Get("/reports/top", top.New(logger, dashboardService).ServeHTTP)
			r.Get("/reports/expiring", expiring.New(logger, dashboardService).ServeHTTP)
			r.Get("/users", users.New(logger, dashboardService).ServeHTTP)
			r.Get("/stores", stores.New(logger, dashboardService).ServeHTTP)
		})

		// Write-intent конечные точки
		r.Post("/transactions", create.New(logger, writeintentService).ServeHTTP)
		r.Post("/stores/{storeID}/transactions/{id}/cancel", cancel.New(logger, writeintentService).ServeHTTP)
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
