// Package derive реализует движок деривации: пересчёт производных полей
// магазинов по истории транзакций и вывод тарифа пользователя по его магазинам.
package derive

import (
	"github.com/magabrotheeeer/possax-admin/internal/apperr"
	"github.com/magabrotheeeer/possax-admin/internal/models"
	"github.com/magabrotheeeer/possax-admin/internal/snapshot"
)

// Enrich возвращает новый снимок с заполненными производными полями.
// Исходный снимок не изменяется.
//
// Для каждого магазина: текущее окно подписки берётся из активной транзакции
// с максимальным EndDate (при равенстве — с наибольшим SubscriptionID),
// RecurringCount и TotalMoneySpent считаются по всей истории, включая
// отменённые записи. Магазин без активных транзакций получает пустое окно
// и тариф Non-Paid.
//
// Возвращает apperr.IntegrityError, если хранимый тариф магазина расходится
// с тарифом его текущей транзакции: такое расхождение указывает на порчу
// данных выше по потоку и не исправляется молча.
func Enrich(s *snapshot.Snapshot) (*snapshot.Snapshot, error) {
	enriched := s.Clone()

	for i := range enriched.Stores {
		store := &enriched.Stores[i]
		txns := enriched.TransactionsForStore(store.StoreID)

		store.RecurringCount = len(txns)
		store.TotalMoneySpent = 0
		for _, tx := range txns {
			store.TotalMoneySpent += tx.AmountPaid
		}

		current, ok := currentTransaction(txns)
		if !ok {
			store.CurrentStart = nil
			store.CurrentEnd = nil
			store.SubscriptionType = models.SubscriptionNonPaid
			continue
		}

		if store.SubscriptionType != current.Type {
			return nil, &apperr.IntegrityError{
				StoreID: store.StoreID,
				Msg: "subscription type " + string(store.SubscriptionType) +
					" does not match current transaction type " + string(current.Type),
			}
		}

		start := current.StartDate
		end := current.EndDate
		store.CurrentStart = &start
		store.CurrentEnd = &end
	}

	for i := range enriched.Users {
		user := &enriched.Users[i]
		user.UserSubscriptionType = userTier(enriched, user.Stores)
	}

	return enriched, nil
}

// currentTransaction выбирает текущую транзакцию: активную с максимальным
// EndDate, при равенстве дат — с наибольшим SubscriptionID. Транзакции
// приходят отсортированными по EndDate и SubscriptionID по возрастанию.
func currentTransaction(txns []models.SubscriptionTransaction) (models.SubscriptionTransaction, bool) {
	for i := len(txns) - 1; i >= 0; i-- {
		if txns[i].IsActive {
			return txns[i], true
		}
	}
	return models.SubscriptionTransaction{}, false
}

// userTier возвращает старший тариф среди магазинов пользователя.
// Пустой список и ссылки на несуществующие магазины дают Non-Paid.
func userTier(s *snapshot.Snapshot, storeIDs []int) models.SubscriptionType {
	tier := models.SubscriptionNonPaid
	for _, id := range storeIDs {
		store, ok := s.StoreByID(id)
		if !ok {
			continue
		}
		tier = models.MaxTier(tier, store.SubscriptionType)
	}
	return tier
}
