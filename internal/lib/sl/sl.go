// Package sl содержит вспомогательные функции для работы с логгером slog,
// чтобы поля лога формировались единообразно во всех сервисах панели.
package sl

import "log/slog"

// Err возвращает slog.Attr с ключом "error" и текстом ошибки.
//
// Пример:
//
//	log.Error("failed to refresh snapshot", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
