package models

import "time"

// Summary содержит ключевые метрики панели по отфильтрованной выборке.
// TotalIncome учитывает только платные транзакции (Pro и Basic).
type Summary struct {
	TotalUsers       int `json:"total_users"`
	TotalStores      int `json:"total_stores"`
	TotalProStores   int `json:"total_pro_stores"`
	TotalBasicStores int `json:"total_basic_stores"`
	TotalIncome      int `json:"total_income"`
}

// UserTrendRow — одна точка тренда пользователей: календарный месяц,
// производный тариф и количество пользователей с таким сочетанием.
type UserTrendRow struct {
	Month time.Time        `json:"month"`
	Tier  SubscriptionType `json:"tier"`
	Count int              `json:"count"`
}

// StoreTrendRow — одна точка тренда магазинов по месяцу создания.
type StoreTrendRow struct {
	Month time.Time `json:"month"`
	Count int       `json:"count"`
}

// CategoryCount — количество значений одной категории (город, реферальный код).
type CategoryCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// ExpiringStoreRow — магазин в отчёте об истекающих подписках.
// DaysToExpiry равен nil, если у магазина нет текущего окна подписки:
// такой магазин попадает только в окно "all".
type ExpiringStoreRow struct {
	Store        Store  `json:"store"`
	OwnerName    string `json:"owner_name"`
	DaysToExpiry *int   `json:"days_to_expiry,omitempty"`
}

// ExpiringTrendRow — количество магазинов с окончанием подписки в данную дату,
// в разрезе тарифов.
type ExpiringTrendRow struct {
	EndDate time.Time        `json:"end_date"`
	Tier    SubscriptionType `json:"tier"`
	Count   int              `json:"count"`
}
