// Package writeintent реализует два мутирующих сценария панели:
// создание транзакции подписки для набора магазинов и отмену транзакции.
// Запросы валидируются и разрешаются по текущему снимку; записи уходят
// в хранилище и попадают в снимок следующего цикла.
package writeintent

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/magabrotheeeer/possax-admin/internal/apperr"
	"github.com/magabrotheeeer/possax-admin/internal/models"
	"github.com/magabrotheeeer/possax-admin/internal/snapshot"
)

// Repository определяет методы хранилища, необходимые write-intent сценариям.
type Repository interface {
	// CreateTransaction добавляет транзакцию подписки и возвращает её ID.
	CreateTransaction(ctx context.Context, tx models.SubscriptionTransaction) (int, error)
	// UpdateStoreSubscriptionType выставляет магазину текущий тариф.
	UpdateStoreSubscriptionType(ctx context.Context, storeID int, t models.SubscriptionType) error
	// CancelTransaction помечает транзакцию магазина отменённой и возвращает
	// количество затронутых записей.
	CancelTransaction(ctx context.Context, storeID, txnID int, reason *string) (int, error)
}

// Service валидирует write-intent запросы и сериализует мутации по магазинам:
// на один магазин в каждый момент времени идёт не больше одной записи,
// чтобы два оператора не потеряли обновления друг друга. Путь чтения
// блокировок не требует — снимки неизменяемы.
type Service struct {
	repo      Repository
	snapshots *snapshot.Holder
	log       *slog.Logger

	mu         sync.Mutex
	storeLocks map[int]*sync.Mutex
}

// New создает новый экземпляр Service.
func New(repo Repository, snapshots *snapshot.Holder, log *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		snapshots:  snapshots,
		log:        log,
		storeLocks: make(map[int]*sync.Mutex),
	}
}

// Create разрешает целевой набор магазинов и добавляет каждому по одной
// транзакции с окном [now, now+duration], обновляя текущий тариф магазина.
// Возвращает отсортированный список идентификаторов целевых магазинов.
//
// Возвращает apperr.ValidationError при пустом целевом наборе, отрицательной
// сумме или неизвестной длительности и apperr.NotFoundError при ссылке
// на несуществующего пользователя или магазин.
func (s *Service) Create(ctx context.Context, req models.DummyCreateTransaction) ([]int, error) {
	const op = "writeintent.Create"

	tier := models.SubscriptionType(req.Type)
	if !tier.IsValid() {
		return nil, apperr.Validationf("unknown subscription type %q", req.Type)
	}
	if !durationAccepted(req.DurationDays) {
		return nil, apperr.Validationf("duration %d days is not accepted", req.DurationDays)
	}

	amount := tier.NominalPrice()
	if req.Amount != nil {
		if *req.Amount < 0 {
			return nil, apperr.Validationf("amount must not be negative")
		}
		amount = *req.Amount
	}

	snap := s.snapshots.Current()
	if snap == nil {
		return nil, fmt.Errorf("%s: no snapshot available", op)
	}

	targets, err := s.resolveTargets(snap, req)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, apperr.Validationf("resolved target store set is empty")
	}

	now := time.Now()
	end := now.AddDate(0, 0, req.DurationDays)
	for _, storeID := range targets {
		if err := s.createForStore(ctx, storeID, tier, now, end, amount); err != nil {
			return nil, fmt.Errorf("%s: store %d: %w", op, storeID, err)
		}
	}

	s.log.Info("created subscription transactions",
		slog.String("type", req.Type),
		slog.Int("duration_days", req.DurationDays),
		slog.Int("stores", len(targets)))
	return targets, nil
}

// resolveTargets собирает целевой набор магазинов: при scope by_user — все
// магазины каждого выбранного пользователя (владение плюс связь), при
// by_store — явный список. Ссылки пользователей на уже несуществующие
// магазины пропускаются, явные идентификаторы проверяются строго.
func (s *Service) resolveTargets(snap *snapshot.Snapshot, req models.DummyCreateTransaction) ([]int, error) {
	set := make(map[int]struct{})

	switch req.Scope {
	case models.ScopeByUser:
		for _, uid := range req.SelectedUserIDs {
			user, ok := snap.UserByID(uid)
			if !ok {
				return nil, &apperr.NotFoundError{Kind: "user", ID: uid}
			}
			for _, sid := range user.Stores {
				if _, ok := snap.StoreByID(sid); ok {
					set[sid] = struct{}{}
				}
			}
			for _, st := range snap.Stores {
				if st.OwnerUserID == uid {
					set[st.StoreID] = struct{}{}
				}
			}
		}
	case models.ScopeByStore:
		for _, sid := range req.StoreIDs {
			if _, ok := snap.StoreByID(sid); !ok {
				return nil, &apperr.NotFoundError{Kind: "store", ID: sid}
			}
			set[sid] = struct{}{}
		}
	default:
		return nil, apperr.Validationf("unknown scope %q", req.Scope)
	}

	targets := make([]int, 0, len(set))
	for sid := range set {
		targets = append(targets, sid)
	}
	sort.Ints(targets)
	return targets, nil
}

func (s *Service) createForStore(ctx context.Context, storeID int, tier models.SubscriptionType, start, end time.Time, amount int) error {
	lock := s.lockStore(storeID)
	lock.Lock()
	defer lock.Unlock()

	tx := models.SubscriptionTransaction{
		StoreID:    storeID,
		Type:       tier,
		StartDate:  start,
		EndDate:    end,
		AmountPaid: amount,
		IsActive:   true,
	}
	if _, err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return err
	}
	return s.repo.UpdateStoreSubscriptionType(ctx, storeID, tier)
}

// Cancel помечает транзакцию магазина отменённой. История не удаляется:
// окно подписки магазина пересчитается по оставшейся активной истории
// на следующем цикле.
//
// Возвращает apperr.ValidationError, если идентификатор транзакции пуст
// или не ссылается на транзакцию этого магазина.
func (s *Service) Cancel(ctx context.Context, storeID, txnID int, reason string) error {
	const op = "writeintent.Cancel"

	if txnID <= 0 {
		return apperr.Validationf("transaction id is required")
	}

	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}

	lock := s.lockStore(storeID)
	lock.Lock()
	defer lock.Unlock()

	affected, err := s.repo.CancelTransaction(ctx, storeID, txnID, reasonPtr)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return apperr.Validationf("transaction %d does not reference store %d", txnID, storeID)
	}

	s.log.Info("cancelled subscription transaction",
		slog.Int("store_id", storeID),
		slog.Int("transaction_id", txnID))
	return nil
}

// lockStore возвращает мьютекс магазина, создавая его при первом обращении.
func (s *Service) lockStore(storeID int) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.storeLocks[storeID]
	if !ok {
		lock = &sync.Mutex{}
		s.storeLocks[storeID] = lock
	}
	return lock
}

func durationAccepted(days int) bool {
	for _, d := range models.AcceptedDurations {
		if d == days {
			return true
		}
	}
	return false
}
