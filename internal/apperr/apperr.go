// Package apperr определяет типизированные ошибки доменного слоя.
//
// ValidationError — некорректный ввод вызывающей стороны, возвращается
// без повторных попыток. IntegrityError — расхождение производного состояния
// с хранимым; движок обязан поднять её, а не чинить данные молча.
// NotFoundError — ссылка на несуществующую сущность в write-intent.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError описывает отклонённый ввод: пустое обязательное поле,
// отрицательную сумму, неизвестную длительность и т.п.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Msg
}

// Validationf создаёт ValidationError с форматированным сообщением.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IntegrityError сигнализирует, что хранимый тариф магазина расходится
// с тарифом его текущей транзакции. Такое состояние указывает на порчу
// данных выше по потоку и не исправляется автоматически.
type IntegrityError struct {
	StoreID int
	Msg     string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity: store %d: %s", e.StoreID, e.Msg)
}

// NotFoundError описывает ссылку на несуществующего пользователя,
// магазин или транзакцию.
type NotFoundError struct {
	Kind string // "user", "store" или "transaction"
	ID   int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// IsValidation сообщает, является ли ошибка ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsIntegrity сообщает, является ли ошибка IntegrityError.
func IsIntegrity(err error) bool {
	var ie *IntegrityError
	return errors.As(err, &ie)
}

// IsNotFound сообщает, является ли ошибка NotFoundError.
func IsNotFound(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}
