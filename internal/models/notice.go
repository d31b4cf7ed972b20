package models

import "time"

// StoreExpiryNotice — сообщение для очереди уведомлений об истекающей
// подписке магазина. Потребляется внешним воркером рассылки.
type StoreExpiryNotice struct {
	StoreID      int              `json:"store_id"`
	StoreName    string           `json:"store_name"`
	Type         SubscriptionType `json:"type"`
	CurrentEnd   time.Time        `json:"current_end"`
	DaysToExpiry int              `json:"days_to_expiry"`
	OwnerUserID  int              `json:"owner_user_id"`
	OwnerName    string           `json:"owner_name"`
	OwnerEmail   string           `json:"owner_email"`
}
