package models

import "time"

// Store представляет магазин с текущим тарифом подписки.
// Поля CurrentStart, CurrentEnd, RecurringCount и TotalMoneySpent — производные,
// пересчитываются движком из истории транзакций на каждом цикле.
// CurrentStart и CurrentEnd равны nil, если у магазина нет ни одной
// активной транзакции (магазин никогда не подписывался).
type Store struct {
	StoreID          int              `json:"store_id"`                // Уникальный идентификатор магазина
	StoreName        string           `json:"store_name"`              // Название магазина
	StoreType        string           `json:"store_type"`              // Тип: Retail, F&B, Service и т.д.
	OwnerUserID      int              `json:"owner_user_id"`           // Идентификатор владельца
	City             string           `json:"city"`                    // Город
	CreatedAt        time.Time        `json:"created_at"`              // Дата создания магазина
	SubscriptionType SubscriptionType `json:"subscription_type"`       // Текущий тариф, зеркало последней транзакции
	IsBranch         bool             `json:"is_branch"`               // Признак филиала
	CurrentStart     *time.Time       `json:"current_start,omitempty"` // Начало текущего окна подписки
	CurrentEnd       *time.Time       `json:"current_end,omitempty"`   // Конец текущего окна подписки
	RecurringCount   int              `json:"recurring_count"`         // Количество транзакций за всю историю
	TotalMoneySpent  int              `json:"total_money_spent"`       // Сумма AmountPaid по всем транзакциям
}
