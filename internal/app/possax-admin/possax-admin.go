// Package possaxadmin собирает основное приложение отчётной панели:
// хранилище, кеш, цикл обновления снимка и HTTP-сервер.
package possaxadmin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/possax-admin/internal/cache"
	"github.com/magabrotheeeer/possax-admin/internal/config"
	"github.com/magabrotheeeer/possax-admin/internal/lib/sl"
	"github.com/magabrotheeeer/possax-admin/internal/migrations"
	dashboardservice "github.com/magabrotheeeer/possax-admin/internal/services/dashboard"
	writeintentservice "github.com/magabrotheeeer/possax-admin/internal/services/writeintent"
	"github.com/magabrotheeeer/possax-admin/internal/snapshot"
	"github.com/magabrotheeeer/possax-admin/internal/storage/repository"
)

// App представляет приложение отчётной панели.
type App struct {
	server          *http.Server
	logger          *slog.Logger
	db              *repository.Storage
	cache           *cache.Cache
	dashboard       *dashboardservice.Service
	refreshInterval time.Duration
}

// New создает новый экземпляр приложения и выполняет первый цикл обновления.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	holder := snapshot.NewHolder()
	dashboardService := dashboardservice.New(db, cacheRedis, holder, logger)
	writeintentService := writeintentservice.New(db, holder, logger)

	// Первый цикл до старта сервера: до его успеха запросы получают 503.
	if err := dashboardService.Refresh(ctx); err != nil {
		logger.Error("initial refresh failed, serving starts without snapshot", sl.Err(err))
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, dashboardService, writeintentService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:          srv,
		logger:          logger,
		db:              db,
		cache:           cacheRedis,
		dashboard:       dashboardService,
		refreshInterval: cfg.RefreshInterval,
	}, nil
}

// Run запускает цикл обновления снимка и HTTP-сервер. Останавливается
// по отмене контекста с корректным завершением сервера.
func (a *App) Run(ctx context.Context) error {
	go a.refreshLoop(ctx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close storage", sl.Err(closeErr))
		}
		return err
	}
}

// refreshLoop периодически пересчитывает снимок. Ошибка цикла логируется,
// предыдущий снимок продолжает обслуживать запросы.
func (a *App) refreshLoop(ctx context.Context) {
	ticker := time.NewTicker(a.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := a.dashboard.Refresh(ctx); err != nil {
				a.logger.Error("refresh cycle failed, keeping previous snapshot", sl.Err(err))
			}
		}
	}
}
