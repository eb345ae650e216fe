package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eduforum/discussions-service/internal/service"
)

// Handlers агрегирует зависимости HTTP-слоя.
type Handlers struct {
	service *service.Service
	baseURL string
}

func NewHandlers(svc *service.Service, baseURL string) *Handlers {
	return &Handlers{
		service: svc,
		baseURL: baseURL,
	}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через writeError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// errInvalidArgument — локальная ошибка парсинга -> 400.
func errInvalidArgument() error {
	return service.ErrInvalidArgument
}

// CreateDiscussion — POST /discussions.
// 201 с созданным обсуждением; 404 — неизвестный пользователь;
// 403 — пользователь не преподаватель.
func (h *Handlers) CreateDiscussion(w http.ResponseWriter, r *http.Request) {
	var in createDiscussionRequest
	if err := decodeStrict(r, &in); err != nil {
		writeError(w, r, errInvalidArgument())
		return
	}

	result, err := h.service.CreateDiscussion(r.Context(), service.CreateDiscussionInput{
		UserID:  in.UserID,
		Subject: in.Subject,
		Content: in.Content,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toDiscussionResponse(*result))
}

// ListDiscussions — GET /discussions.
// Неархивные обсуждения, самые активные — первыми.
func (h *Handlers) ListDiscussions(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Discussions(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]discussionSummary, 0, len(items))
	for _, d := range items {
		out = append(out, toDiscussionSummary(d, h.baseURL))
	}

	writeJSON(w, http.StatusOK, out)
}

// AddComment — POST /discussions/{id}/comments.
// 201 с созданным комментарием; 404 — обсуждение не найдено;
// 403 — архив, неизвестный пользователь или неизвестный родитель.
func (h *Handlers) AddComment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, r, errInvalidArgument())
		return
	}

	var in addCommentRequest
	if err := decodeStrict(r, &in); err != nil {
		writeError(w, r, errInvalidArgument())
		return
	}

	result, err := h.service.AddComment(r.Context(), service.AddCommentInput{
		DiscussionID: id,
		UserID:       in.UserID,
		Content:      in.Content,
		ParentID:     in.ParentCommentID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCommentResponse(*result))
}

// DiscussionComments — GET /discussions/{id}/comments.
// Обсуждение с деревом комментариев; 404 — не найдено или архивировано.
func (h *Handlers) DiscussionComments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, r, errInvalidArgument())
		return
	}

	result, err := h.service.DiscussionWithComments(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toDiscussionDetails(*result))
}

// ListUsers — GET /users.
func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Users(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]userResponse, 0, len(items))
	for _, u := range items {
		out = append(out, toUserResponse(u))
	}

	writeJSON(w, http.StatusOK, out)
}

// GetUserByName — GET /users/{username}.
func (h *Handlers) GetUserByName(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if username == "" {
		writeError(w, r, errInvalidArgument())
		return
	}

	user, err := h.service.UserByName(r.Context(), username)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserDetailsResponse(*user))
}

// Livez — GET /livez: процесс жив.
func (h *Handlers) Livez(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Healthz — GET /healthz: сквозная проверка хранилища.
func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	if err := h.service.HealthCheck(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
