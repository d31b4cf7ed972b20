package models

import "time"

// SubscriptionTransaction представляет одну запись истории подписок магазина.
// Записи не удаляются: отмена выставляет IsActive = false, а окно подписки
// магазина пересчитывается по оставшейся активной истории на следующем цикле.
type SubscriptionTransaction struct {
	SubscriptionID int              `json:"subscription_id"`         // Уникальный идентификатор транзакции
	StoreID        int              `json:"store_id"`                // Магазин, к которому относится транзакция
	Type           SubscriptionType `json:"type"`                    // Тариф транзакции
	StartDate      time.Time        `json:"start_date"`              // Начало действия, EndDate всегда позже
	EndDate        time.Time        `json:"end_date"`                // Окончание действия
	AmountPaid     int              `json:"amount_paid"`             // Оплаченная сумма в IDR, неотрицательная
	IsActive       bool             `json:"is_active"`               // false — транзакция отменена
	CancelReason   *string          `json:"cancel_reason,omitempty"` // Причина отмены (опционально)
}
