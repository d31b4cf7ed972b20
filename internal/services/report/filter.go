// Package report реализует конвейер фильтрации и отчётные запросы
// по обогащённым снимкам сущностей.
package report

import (
	"time"

	"github.com/magabrotheeeer/possax-admin/internal/models"
	"github.com/magabrotheeeer/possax-admin/internal/snapshot"
)

// ApplyFilter возвращает новый снимок, суженный по измерениям фильтра.
// Исходный снимок не изменяется, повторное применение того же фильтра
// даёт тот же результат.
//
// Пользователи проходят по диапазону CreatedAt, городу и роли;
// магазины — по диапазону CreatedAt и тарифу; транзакции сохраняются,
// только если их магазин остался в выборке, чтобы в отфильтрованном
// представлении не было висячих ссылок. Пустое множество значений
// измерения означает «без ограничения», а не «исключить всё».
func ApplyFilter(s *snapshot.Snapshot, f models.Filter) *snapshot.Snapshot {
	var users []models.User
	for _, u := range s.Users {
		if !inRange(u.CreatedAt, f.From, f.To) {
			continue
		}
		if !allowString(f.Cities, u.City) {
			continue
		}
		if !allowString(f.Roles, u.Role) {
			continue
		}
		users = append(users, u)
	}

	var stores []models.Store
	retained := make(map[int]struct{})
	for _, st := range s.Stores {
		if !inRange(st.CreatedAt, f.From, f.To) {
			continue
		}
		if !allowTier(f.SubscriptionTypes, st.SubscriptionType) {
			continue
		}
		stores = append(stores, st)
		retained[st.StoreID] = struct{}{}
	}

	var txns []models.SubscriptionTransaction
	for _, tx := range s.Transactions {
		if _, ok := retained[tx.StoreID]; ok {
			txns = append(txns, tx)
		}
	}

	return snapshot.New(users, stores, txns, s.TakenAt)
}

// inRange проверяет попадание даты в замкнутый диапазон.
// nil-граница означает отсутствие ограничения с этой стороны.
func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

func allowString(allowed []string, v string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == v {
			return true
		}
	}
	return false
}

func allowTier(allowed []models.SubscriptionType, v models.SubscriptionType) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == v {
			return true
		}
	}
	return false
}
