package models

import "time"

// Роли пользователей, допустимые в системе.
const (
	RoleOwner      = "Owner"
	RoleKasir      = "Kasir"
	RoleManager    = "Manager"
	RoleSupervisor = "Supervisor"
)

// User представляет пользователя системы Possax.
// Поле UserSubscriptionType — производное: старший тариф среди магазинов
// из Stores, пересчитывается движком на каждом цикле.
type User struct {
	UserID               int              `json:"user_id"`                 // Уникальный идентификатор пользователя
	Name                 string           `json:"name"`                    // Имя пользователя
	CreatedAt            time.Time        `json:"created_at"`              // Дата регистрации
	LastActivity         time.Time        `json:"last_activity"`           // Дата последней активности
	Role                 string           `json:"role"`                    // Роль: Owner, Kasir, Manager или Supervisor
	DeviceType           string           `json:"device_type"`             // Тип устройства: Android или iOS
	Phone                string           `json:"phone"`                   // Телефон
	Email                string           `json:"email"`                   // Электронная почта
	ReferralCode         *string          `json:"referral_code,omitempty"` // Реферальный код (nil — код не использовался)
	City                 string           `json:"city"`                    // Город
	Latitude             float64          `json:"latitude"`                // Широта
	Longitude            float64          `json:"longitude"`               // Долгота
	TotalTransactions    int              `json:"total_transactions"`      // Счётчик транзакций пользователя
	Stores               []int            `json:"stores"`                  // Идентификаторы связанных магазинов (0..N)
	UserSubscriptionType SubscriptionType `json:"user_subscription_type"`  // Производный тариф пользователя
}
