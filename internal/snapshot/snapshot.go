// Package snapshot реализует неизменяемый снимок сущностей на один цикл
// вычислений: пользователи, магазины и история транзакций подписок.
//
// Снимок строится один раз и после этого не мутируется: фильтрация и
// агрегация порождают новые снимки или отчётные строки. Параллельные чтения
// одного снимка безопасны без блокировок; запись идёт только через
// write-intent сервис и попадает в снимок следующего цикла.
package snapshot

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/possax-admin/internal/models"
)

// Snapshot — снимок трёх наборов записей с индексами по идентификаторам.
// Поле Version уникально для каждого снимка и попадает в логи и ответы,
// чтобы можно было сопоставить отчёт с конкретным циклом.
type Snapshot struct {
	Version string
	TakenAt time.Time

	Users        []models.User
	Stores       []models.Store
	Transactions []models.SubscriptionTransaction

	usersByID   map[int]int
	storesByID  map[int]int
	txnsByStore map[int][]int
}

// New строит снимок и его индексы. Переданные срезы переходят во владение
// снимка и не должны изменяться вызывающей стороной.
func New(users []models.User, stores []models.Store, txns []models.SubscriptionTransaction, takenAt time.Time) *Snapshot {
	s := &Snapshot{
		Version:      uuid.New().String(),
		TakenAt:      takenAt,
		Users:        users,
		Stores:       stores,
		Transactions: txns,
		usersByID:    make(map[int]int, len(users)),
		storesByID:   make(map[int]int, len(stores)),
		txnsByStore:  make(map[int][]int, len(stores)),
	}
	for i, u := range users {
		s.usersByID[u.UserID] = i
	}
	for i, st := range stores {
		s.storesByID[st.StoreID] = i
	}
	for i, tx := range txns {
		s.txnsByStore[tx.StoreID] = append(s.txnsByStore[tx.StoreID], i)
	}
	return s
}

// UserByID возвращает копию пользователя по идентификатору.
func (s *Snapshot) UserByID(id int) (models.User, bool) {
	i, ok := s.usersByID[id]
	if !ok {
		return models.User{}, false
	}
	return s.Users[i], true
}

// StoreByID возвращает копию магазина по идентификатору.
func (s *Snapshot) StoreByID(id int) (models.Store, bool) {
	i, ok := s.storesByID[id]
	if !ok {
		return models.Store{}, false
	}
	return s.Stores[i], true
}

// TransactionsForStore возвращает копии транзакций магазина,
// отсортированные по EndDate, при равенстве — по SubscriptionID.
func (s *Snapshot) TransactionsForStore(storeID int) []models.SubscriptionTransaction {
	idxs := s.txnsByStore[storeID]
	if len(idxs) == 0 {
		return nil
	}
	result := make([]models.SubscriptionTransaction, 0, len(idxs))
	for _, i := range idxs {
		result = append(result, s.Transactions[i])
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].EndDate.Equal(result[j].EndDate) {
			return result[i].SubscriptionID < result[j].SubscriptionID
		}
		return result[i].EndDate.Before(result[j].EndDate)
	})
	return result
}

// Clone возвращает глубокую копию снимка с новой версией.
// Используется движком деривации, который заполняет производные поля
// в копии, не трогая исходный снимок.
func (s *Snapshot) Clone() *Snapshot {
	users := make([]models.User, len(s.Users))
	copy(users, s.Users)
	for i := range users {
		if len(users[i].Stores) > 0 {
			stores := make([]int, len(users[i].Stores))
			copy(stores, users[i].Stores)
			users[i].Stores = stores
		}
		users[i].ReferralCode = cloneStr(users[i].ReferralCode)
	}

	stores := make([]models.Store, len(s.Stores))
	copy(stores, s.Stores)
	for i := range stores {
		stores[i].CurrentStart = cloneTime(stores[i].CurrentStart)
		stores[i].CurrentEnd = cloneTime(stores[i].CurrentEnd)
	}

	txns := make([]models.SubscriptionTransaction, len(s.Transactions))
	copy(txns, s.Transactions)
	for i := range txns {
		txns[i].CancelReason = cloneStr(txns[i].CancelReason)
	}

	return New(users, stores, txns, s.TakenAt)
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneStr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
