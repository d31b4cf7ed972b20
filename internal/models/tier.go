// Package models содержит доменные структуры админ-панели Possax:
// пользователей, магазины и историю транзакций подписок,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

// SubscriptionType представляет тариф подписки магазина.
// Тарифы образуют строгий порядок: Pro > Basic > Trial > Non-Paid.
type SubscriptionType string

// Допустимые тарифы подписки.
const (
	SubscriptionPro     SubscriptionType = "Pro"
	SubscriptionBasic   SubscriptionType = "Basic"
	SubscriptionTrial   SubscriptionType = "Trial"
	SubscriptionNonPaid SubscriptionType = "Non-Paid"
)

// tierRank задаёт явный числовой порядок тарифов.
// Сравнение тарифов выполняется только через Rank, а не лексикографически.
var tierRank = map[SubscriptionType]int{
	SubscriptionPro:     3,
	SubscriptionBasic:   2,
	SubscriptionTrial:   1,
	SubscriptionNonPaid: 0,
}

// Rank возвращает числовой ранг тарифа. Неизвестный тариф получает ранг 0,
// то есть приравнивается к Non-Paid.
func (t SubscriptionType) Rank() int {
	return tierRank[t]
}

// IsValid сообщает, является ли значение одним из четырёх допустимых тарифов.
func (t SubscriptionType) IsValid() bool {
	_, ok := tierRank[t]
	return ok
}

// NominalPrice возвращает номинальную цену тарифа в IDR.
// Trial и Non-Paid бесплатны по соглашению, но вызывающая сторона
// может указать собственную сумму.
func (t SubscriptionType) NominalPrice() int {
	switch t {
	case SubscriptionPro:
		return 400_000
	case SubscriptionBasic:
		return 200_000
	default:
		return 0
	}
}

// MaxTier возвращает старший из двух тарифов по порядку Pro > Basic > Trial > Non-Paid.
func MaxTier(a, b SubscriptionType) SubscriptionType {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}
