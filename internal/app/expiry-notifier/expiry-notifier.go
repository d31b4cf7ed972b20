// Package expirynotifier собирает воркер уведомлений об истекающих подписках.
package expirynotifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/possax-admin/internal/cache"
	"github.com/magabrotheeeer/possax-admin/internal/config"
	"github.com/magabrotheeeer/possax-admin/internal/lib/rabbitmq"
	dashboardservice "github.com/magabrotheeeer/possax-admin/internal/services/dashboard"
	notifierservice "github.com/magabrotheeeer/possax-admin/internal/services/notifier"
	"github.com/magabrotheeeer/possax-admin/internal/snapshot"
	"github.com/magabrotheeeer/possax-admin/internal/storage/repository"
)

// App представляет приложение воркера уведомлений.
type App struct {
	notifierService *notifierservice.Service
	scanInterval    time.Duration
	conn            *amqp.Connection
	ch              *amqp.Channel
	logger          *slog.Logger
}

func waitForDB(db *repository.Storage) error {
	for range 10 {
		err := repository.CheckDatabaseReady(db)
		if err == nil {
			return nil
		}
		time.Sleep(3 * time.Second)
	}
	return fmt.Errorf("database not ready after retries")
}

// New создает новый экземпляр приложения воркера уведомлений.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitURL, cfg.RabbitRetries, cfg.RabbitDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	queues := rabbitmq.GetNotificationQueues()
	ch, err := rabbitmq.SetupChannel(conn, queues)
	if err != nil {
		closeResources(nil, conn, logger)
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		closeResources(ch, conn, logger)
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}

	if err := waitForDB(db); err != nil {
		closeResources(ch, conn, logger)
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		closeResources(ch, conn, logger)
		return nil, fmt.Errorf("cache not initialized: %w", err)
	}

	holder := snapshot.NewHolder()
	dashboardService := dashboardservice.New(db, cacheRedis, holder, logger)
	notifierService := notifierservice.New(dashboardService, logger)

	return &App{
		notifierService: notifierService,
		scanInterval:    cfg.ScanInterval,
		conn:            conn,
		ch:              ch,
		logger:          logger,
	}, nil
}

func closeResources(ch *amqp.Channel, conn *amqp.Connection, logger *slog.Logger) {
	if ch != nil {
		if err := ch.Close(); err != nil {
			logger.Error("failed to close channel", "error", err)
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close connection", "error", err)
		}
	}
}

// Run запускает воркер уведомлений.
func (a *App) Run(ctx context.Context) error {
	go a.notifierService.Run(ctx, a.ch, a.scanInterval)

	<-ctx.Done()

	a.logger.Info("shutting down expiry notifier")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
