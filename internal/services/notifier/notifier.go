// Package notifier реализует фоновый сервис, который находит магазины
// с истекающей подпиской и публикует уведомления для владельцев в RabbitMQ.
package notifier

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/possax-admin/internal/lib/expiry"
	"github.com/magabrotheeeer/possax-admin/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/possax-admin/internal/lib/sl"
	"github.com/magabrotheeeer/possax-admin/internal/models"
	"github.com/magabrotheeeer/possax-admin/internal/snapshot"
)

// Dashboard определяет методы отчётного сервиса, нужные планировщику.
type Dashboard interface {
	Refresh(ctx context.Context) error
	Snapshot() (*snapshot.Snapshot, error)
	Expiring(snap *snapshot.Snapshot, f models.Filter, w expiry.Window, now time.Time) ([]models.ExpiringStoreRow, []models.ExpiringTrendRow, []models.User)
}

// Service периодически сканирует снимок и публикует уведомления
// об истекающих в ближайшую неделю подписках.
type Service struct {
	dash Dashboard
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(dash Dashboard, log *slog.Logger) *Service {
	return &Service{dash: dash, log: log}
}

// Run запускает цикл сканирования с заданным интервалом.
// Первый проход выполняется сразу.
func (s *Service) Run(ctx context.Context, channel *amqp.Channel, interval time.Duration) {
	s.runScan(ctx, channel)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runScan(ctx, channel)
		}
	}
}

func (s *Service) runScan(ctx context.Context, channel *amqp.Channel) {
	s.log.Info("starting scan for stores with expiring subscriptions")

	if err := s.dash.Refresh(ctx); err != nil {
		s.log.Error("failed to refresh snapshot, using previous one", sl.Err(err))
	}
	snap, err := s.dash.Snapshot()
	if err != nil {
		s.log.Error("no snapshot to scan", sl.Err(err))
		return
	}

	rows, _, owners := s.dash.Expiring(snap, models.Filter{}, expiry.Window7d, time.Now())
	if len(rows) == 0 {
		s.log.Info("no expiring subscriptions found")
		return
	}
	s.log.Info("found expiring subscriptions", "count", len(rows), "owners", len(owners))

	emails := make(map[int]string, len(owners))
	for _, owner := range owners {
		emails[owner.UserID] = owner.Email
	}

	for _, row := range rows {
		if row.Store.CurrentEnd == nil || row.DaysToExpiry == nil {
			continue
		}
		notice := models.StoreExpiryNotice{
			StoreID:      row.Store.StoreID,
			StoreName:    row.Store.StoreName,
			Type:         row.Store.SubscriptionType,
			CurrentEnd:   *row.Store.CurrentEnd,
			DaysToExpiry: *row.DaysToExpiry,
			OwnerUserID:  row.Store.OwnerUserID,
			OwnerName:    row.OwnerName,
			OwnerEmail:   emails[row.Store.OwnerUserID],
		}
		if err := rabbitmq.PublishMessage(channel, "notifications", "store.expiring", notice); err != nil {
			s.log.Error("failed to publish notice", slog.Int("store_id", notice.StoreID), sl.Err(err))
		}
	}
}
