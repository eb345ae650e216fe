// Стандартизация ответов об ошибках HTTP-слоя.
//
// Формат тела зависит от класса ошибки:
//   - статус < 500  -> {"message": "<безопасное описание>"} — клиентская ошибка;
//   - статус >= 500 -> {"error": "internal error"} — детали остаются в логах
//     и никогда не утекают наружу.
//
// Маппинг сервисных ошибок в статусы:
//
//	ErrInvalidArgument  -> 400
//	ErrNotFound         -> 404
//	ErrPermissionDenied -> 403
//	ErrArchived         -> 403
//	ErrUnknownUser      -> 403
//	ErrParentNotFound   -> 403
//	прочее              -> 500
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/eduforum/discussions-service/internal/service"
	logctx "github.com/eduforum/discussions-service/pkg/log"
)

// clientError — тело ответа для статусов < 500.
type clientError struct {
	Message string `json:"message"`
}

// serverError — тело ответа для статусов >= 500.
type serverError struct {
	Error string `json:"error"`
}

// statusFromError — таблица сервисная ошибка -> статус + безопасное сообщение.
func statusFromError(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid argument"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, service.ErrPermissionDenied):
		return http.StatusForbidden, "only instructors can create discussions"
	case errors.Is(err, service.ErrArchived):
		return http.StatusForbidden, "cannot comment on an archived discussion"
	case errors.Is(err, service.ErrUnknownUser):
		return http.StatusForbidden, "only registered users can comment"
	case errors.Is(err, service.ErrParentNotFound):
		return http.StatusForbidden, "parent comment not found"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// writeError пишет корректный статус/тело по сервисной ошибке.
// Для 5xx подробности уходят только в лог.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusFromError(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if status < http.StatusInternalServerError {
		_ = json.NewEncoder(w).Encode(clientError{Message: msg})
		return
	}

	logctx.From(r.Context()).LogAttrs(r.Context(), slog.LevelError, "internal error",
		slog.String("path", r.URL.Path),
		slog.String("err", err.Error()),
	)
	_ = json.NewEncoder(w).Encode(serverError{Error: msg})
}
