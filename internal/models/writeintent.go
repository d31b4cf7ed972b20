package models

// Область применения write-intent на создание транзакции.
const (
	ScopeByUser  = "by_user"  // Все магазины выбранных пользователей: владение плюс связь
	ScopeByStore = "by_store" // Явный список магазинов
)

// AcceptedDurations — допустимые длительности подписки в днях.
var AcceptedDurations = []int{30, 90, 180, 365}

// DummyCreateTransaction используется для приёма запроса на создание
// транзакций подписки из JSON до валидации. Amount равен nil, когда
// вызывающая сторона полагается на номинальную цену тарифа.
type DummyCreateTransaction struct {
	SelectedUserIDs []int  `json:"selected_user_ids,omitempty"`
	Scope           string `json:"scope" validate:"required,oneof=by_user by_store"`
	StoreIDs        []int  `json:"store_ids,omitempty"`
	Type            string `json:"type" validate:"required,oneof=Pro Basic Trial Non-Paid"`
	DurationDays    int    `json:"duration_days" validate:"required"`
	Amount          *int   `json:"amount,omitempty"`
}

// DummyCancelTransaction используется для приёма запроса на отмену транзакции.
type DummyCancelTransaction struct {
	Reason string `json:"reason,omitempty"`
}
