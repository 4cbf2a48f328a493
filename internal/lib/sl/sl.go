// Package sl дополняет slog атрибутами, общими для всех сервисов платформы.
package sl

import "log/slog"

// Err возвращает атрибут с ключом "error", чтобы ошибки во всех
// логах сервисов выглядели одинаково:
//
//	log.Error("failed to credit user", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
