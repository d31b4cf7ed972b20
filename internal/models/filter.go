package models

import "time"

// Filter описывает параметры фильтрации отчётных выборок.
// Все измерения объединяются по И. Пустой срез или nil-дата означает
// «без ограничения» (пропустить всех), а не «исключить всех».
type Filter struct {
	From              *time.Time         // Начало диапазона по CreatedAt, включительно
	To                *time.Time         // Конец диапазона по CreatedAt, включительно
	Cities            []string           // Допустимые города (только пользователи)
	Roles             []string           // Допустимые роли (только пользователи)
	SubscriptionTypes []SubscriptionType // Допустимые тарифы (только магазины)
}

// DummyFilter используется для приёма параметров фильтра из query-параметров
// запроса до их валидации и преобразования в Filter. Даты приходят строками
// в формате 02-01-2006.
type DummyFilter struct {
	From              string   `json:"from,omitempty" validate:"omitempty,datetime=02-01-2006"`
	To                string   `json:"to,omitempty" validate:"omitempty,datetime=02-01-2006"`
	Cities            []string `json:"cities,omitempty"`
	Roles             []string `json:"roles,omitempty"`
	SubscriptionTypes []string `json:"subscription_types,omitempty"`
}
