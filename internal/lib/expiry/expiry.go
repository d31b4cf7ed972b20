// Package expiry реализует расчёт дней до окончания подписки
// и разбиение магазинов по окнам истечения.
package expiry

import (
	"fmt"
	"math"
	"time"
)

// Window задаёт окно истечения подписки.
type Window string

// Допустимые окна. Окна 7d/14d/30d включают обе границы,
// expired — строго отрицательные значения, all — без ограничения.
const (
	WindowAll     Window = "all"
	Window7d      Window = "7d"
	Window14d     Window = "14d"
	Window30d     Window = "30d"
	WindowExpired Window = "expired"
)

// ParseWindow разбирает строковое представление окна.
// Пустая строка трактуется как "all".
func ParseWindow(s string) (Window, error) {
	switch Window(s) {
	case "", WindowAll:
		return WindowAll, nil
	case Window7d, Window14d, Window30d, WindowExpired:
		return Window(s), nil
	default:
		return "", fmt.Errorf("unknown expiry window: %q", s)
	}
}

// DaysTo возвращает floor((end - now) в днях). Для уже истекшей подписки
// значение отрицательное.
func DaysTo(end, now time.Time) int {
	return int(math.Floor(end.Sub(now).Hours() / 24))
}

// Contains сообщает, попадает ли количество дней до истечения в окно.
func (w Window) Contains(days int) bool {
	switch w {
	case Window7d:
		return days >= 0 && days <= 7
	case Window14d:
		return days >= 0 && days <= 14
	case Window30d:
		return days >= 0 && days <= 30
	case WindowExpired:
		return days < 0
	default:
		return true
	}
}
