// log привязывает request-scoped *slog.Logger к context.Context:
// транспортный слой кладёт логгер с атрибутами запроса (request_id и т.п.),
// нижние слои достают его через From, не протаскивая логгер параметром.
package log

import (
	"context"
	"log/slog"
)

type loggerKey struct{}

// Into возвращает контекст с привязанным логгером.
func Into(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// From возвращает логгер запроса из контекста.
// Если логгера нет (или значение по ключу битое) — slog.Default().
func From(ctx context.Context) *slog.Logger {
	l, ok := ctx.Value(loggerKey{}).(*slog.Logger)
	if !ok || l == nil {
		return slog.Default()
	}

	return l
}
