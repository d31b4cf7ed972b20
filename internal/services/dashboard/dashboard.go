// Package dashboard содержит бизнес-логику отчётной панели: обновление
// снимка цикла, фильтрацию и отчётные запросы с кешированием сводных метрик.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/possax-admin/internal/apperr"
	"github.com/magabrotheeeer/possax-admin/internal/lib/expiry"
	"github.com/magabrotheeeer/possax-admin/internal/lib/sl"
	"github.com/magabrotheeeer/possax-admin/internal/models"
	"github.com/magabrotheeeer/possax-admin/internal/services/derive"
	"github.com/magabrotheeeer/possax-admin/internal/services/report"
	"github.com/magabrotheeeer/possax-admin/internal/snapshot"
)

// SnapshotSource определяет источник сущностей для одного цикла вычислений.
type SnapshotSource interface {
	// LoadSnapshot читает все три набора записей и собирает снимок.
	LoadSnapshot(ctx context.Context) (*snapshot.Snapshot, error)
}

// Cache описывает методы для кэширования отчётных данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// Service реализует отчётные сценарии панели поверх актуального снимка.
type Service struct {
	source  SnapshotSource
	cache   Cache
	holder  *snapshot.Holder
	log     *slog.Logger
	summary time.Duration // TTL кеша сводных метрик
}

// New создает новый экземпляр Service.
func New(source SnapshotSource, cache Cache, holder *snapshot.Holder, log *slog.Logger) *Service {
	return &Service{
		source:  source,
		cache:   cache,
		holder:  holder,
		log:     log,
		summary: time.Minute,
	}
}

// Refresh выполняет один цикл: загружает сущности, пересчитывает производные
// поля и публикует новый снимок. При ошибке целостности предыдущий снимок
// остаётся действующим, решение «логировать и продолжить» принимает вызывающая
// сторона.
func (s *Service) Refresh(ctx context.Context) error {
	const op = "dashboard.Refresh"

	raw, err := s.source.LoadSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	enriched, err := derive.Enrich(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.holder.Set(enriched)
	s.log.Info("snapshot refreshed",
		slog.String("version", enriched.Version),
		slog.Int("users", len(enriched.Users)),
		slog.Int("stores", len(enriched.Stores)),
		slog.Int("transactions", len(enriched.Transactions)))
	return nil
}

// Snapshot возвращает актуальный обогащённый снимок цикла.
func (s *Service) Snapshot() (*snapshot.Snapshot, error) {
	snap := s.holder.Current()
	if snap == nil {
		return nil, fmt.Errorf("no snapshot available yet")
	}
	return snap, nil
}

// ParseFilter валидирует и преобразует параметры фильтра из запроса.
// Даты приходят строками в формате 02-01-2006.
func ParseFilter(req models.DummyFilter) (models.Filter, error) {
	var f models.Filter

	if req.From != "" {
		from, err := time.Parse("02-01-2006", req.From)
		if err != nil {
			return models.Filter{}, apperr.Validationf("invalid from date: %v", err)
		}
		f.From = &from
	}
	if req.To != "" {
		to, err := time.Parse("02-01-2006", req.To)
		if err != nil {
			return models.Filter{}, apperr.Validationf("invalid to date: %v", err)
		}
		f.To = &to
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return models.Filter{}, apperr.Validationf("to date is earlier than from date")
	}

	f.Cities = req.Cities
	f.Roles = req.Roles
	for _, t := range req.SubscriptionTypes {
		tier := models.SubscriptionType(t)
		if !tier.IsValid() {
			return models.Filter{}, apperr.Validationf("unknown subscription type %q", t)
		}
		f.SubscriptionTypes = append(f.SubscriptionTypes, tier)
	}
	return f, nil
}

// Summary считает ключевые метрики по фильтру, используя кеш:
// сводка по одному и тому же снимку и фильтру переиспользуется.
func (s *Service) Summary(snap *snapshot.Snapshot, f models.Filter) (models.Summary, error) {
	cacheKey := summaryCacheKey(snap, f)

	var cached models.Summary
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read summary from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return cached, nil
	}

	sum := report.Summary(report.ApplyFilter(snap, f))
	if err := s.cache.Set(cacheKey, sum, s.summary); err != nil {
		s.log.Warn("failed to cache summary", slog.String("key", cacheKey), sl.Err(err))
	}
	return sum, nil
}

// Trend возвращает помесячные тренды пользователей и магазинов по фильтру.
func (s *Service) Trend(snap *snapshot.Snapshot, f models.Filter) ([]models.UserTrendRow, []models.StoreTrendRow) {
	filtered := report.ApplyFilter(snap, f)
	return report.MonthlyUserTrend(filtered), report.MonthlyStoreTrend(filtered)
}

// Top возвращает три лидерборда панели по фильтру.
func (s *Service) Top(snap *snapshot.Snapshot, f models.Filter, n int) ([]models.User, []models.CategoryCount, []models.CategoryCount) {
	if n <= 0 {
		n = report.DefaultTopN
	}
	filtered := report.ApplyFilter(snap, f)
	return report.TopActiveUsers(filtered, n), report.TopCities(filtered, n), report.TopReferralCodes(filtered, n)
}

// Users возвращает отфильтрованную таблицу пользователей с производными полями.
func (s *Service) Users(snap *snapshot.Snapshot, f models.Filter) []models.User {
	return report.ApplyFilter(snap, f).Users
}

// Stores возвращает отфильтрованную таблицу магазинов, отсортированную
// по близости окончания подписки.
func (s *Service) Stores(snap *snapshot.Snapshot, f models.Filter, now time.Time) []models.ExpiringStoreRow {
	return report.ExpiringStores(report.ApplyFilter(snap, f), snap, expiry.WindowAll, now)
}

// Expiring возвращает магазины выбранного окна истечения, тренд по датам
// окончания и затронутых владельцев.
func (s *Service) Expiring(snap *snapshot.Snapshot, f models.Filter, w expiry.Window, now time.Time) ([]models.ExpiringStoreRow, []models.ExpiringTrendRow, []models.User) {
	rows := report.ExpiringStores(report.ApplyFilter(snap, f), snap, w, now)
	return rows, report.ExpiringTrend(rows), report.AffectedOwners(rows, snap)
}

func summaryCacheKey(snap *snapshot.Snapshot, f models.Filter) string {
	raw, _ := json.Marshal(f)
	return fmt.Sprintf("summary:%s:%s", snap.Version, raw)
}
