package http

// Тесты HTTP-слоя поверх собранного роутера: маршруты, коды ответов,
// формат тел ошибок ({"message"} для 4xx, {"error"} для 5xx).
// Сторадж подменяется gomock-моком, сервис настоящий.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/eduforum/discussions-service/internal/config"
	"github.com/eduforum/discussions-service/internal/models"
	"github.com/eduforum/discussions-service/internal/service"
	"github.com/eduforum/discussions-service/internal/storage"
	"github.com/eduforum/discussions-service/mocks"
)

const (
	testBaseURL      = "http://localhost:8080"
	testDiscussionID = "665f1f77bcf86cd799439001"
	testUserID       = "665f1f77bcf86cd799439002"
)

func newTestRouter(t *testing.T) (http.Handler, *mocks.MockStorage) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	ms := mocks.NewMockStorage(ctrl)
	svc := service.New(ms, config.Config{})

	router := NewRouter(svc, Options{
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Timeout: 5 * time.Second,
		BaseURL: testBaseURL,
	})

	return router, ms
}

func doJSON(t *testing.T, router http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func instructor() *models.User {
	return &models.User{
		ID:        testUserID,
		Username:  "amartin",
		FirstName: "Alice",
		LastName:  "Martin",
		Role:      models.RoleInstructor,
	}
}

func activeDiscussion() *models.Discussion {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &models.Discussion{
		ID:        testDiscussionID,
		UserID:    testUserID,
		Username:  "amartin",
		Subject:   "subj",
		Content:   "body",
		Comments:  []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestRouter_CreateDiscussion_Created(t *testing.T) {
	router, ms := newTestRouter(t)

	ms.EXPECT().
		UserByID(gomock.Any(), testUserID).
		Return(instructor(), nil)
	ms.EXPECT().
		CreateDiscussion(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, d models.Discussion) (*models.Discussion, error) {
			d.ID = testDiscussionID
			d.Comments = []string{}
			d.CreatedAt = time.Now().UTC()
			d.UpdatedAt = d.CreatedAt
			return &d, nil
		})

	rec := doJSON(t, router, http.MethodPost, "/discussions", map[string]string{
		"userId":  testUserID,
		"subject": "Go vs Rust",
		"content": "discuss",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decodeBody[discussionResponse](t, rec)
	require.Equal(t, testDiscussionID, body.ID)
	require.Equal(t, "amartin", body.Username)
	require.Equal(t, "Go vs Rust", body.Subject)
	require.NotNil(t, body.Comments)
	require.Nil(t, body.LastCommentAt)
}

// Студенту создавать обсуждения нельзя: 403 с телом {"message": ...}.
func TestRouter_CreateDiscussion_StudentForbidden(t *testing.T) {
	router, ms := newTestRouter(t)

	studentUser := instructor()
	studentUser.Role = models.RoleStudent

	ms.EXPECT().
		UserByID(gomock.Any(), testUserID).
		Return(studentUser, nil)

	rec := doJSON(t, router, http.MethodPost, "/discussions", map[string]string{
		"userId":  testUserID,
		"subject": "s",
		"content": "c",
	})

	require.Equal(t, http.StatusForbidden, rec.Code)

	body := decodeBody[map[string]string](t, rec)
	require.Contains(t, body, "message")
	require.NotContains(t, body, "error")
}

func TestRouter_CreateDiscussion_UnknownUser(t *testing.T) {
	router, ms := newTestRouter(t)

	ms.EXPECT().
		UserByID(gomock.Any(), testUserID).
		Return(nil, storage.ErrNotFound)

	rec := doJSON(t, router, http.MethodPost, "/discussions", map[string]string{
		"userId":  testUserID,
		"subject": "s",
		"content": "c",
	})

	require.Equal(t, http.StatusNotFound, rec.Code)
}

// Неизвестное поле в JSON отклоняется строгим декодером -> 400.
func TestRouter_CreateDiscussion_UnknownField(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/discussions", map[string]string{
		"userId":  testUserID,
		"subject": "s",
		"content": "c",
		"extra":   "nope",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_ListDiscussions_OK(t *testing.T) {
	router, ms := newTestRouter(t)

	last := time.Now().UTC().Truncate(time.Millisecond)
	items := []models.Discussion{
		{ID: "d2", Username: "amartin", Subject: "newer", CommentCount: 3, LastCommentAt: last},
		{ID: "d1", Username: "jchen", Subject: "older"},
	}

	ms.EXPECT().
		ActiveDiscussions(gomock.Any()).
		Return(items, nil)

	rec := doJSON(t, router, http.MethodGet, "/discussions", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody[[]discussionSummary](t, rec)
	require.Len(t, body, 2)
	require.Equal(t, "newer", body[0].Subject)
	require.Equal(t, "amartin", body[0].Author)
	require.Equal(t, int64(3), body[0].CommentCount)
	require.Equal(t, testBaseURL+"/discussions/d2/comments", body[0].URL)
	require.NotNil(t, body[0].LastCommentAt)
	// у обсуждения без комментариев lastCommentAt опущен
	require.Nil(t, body[1].LastCommentAt)
}

// Внутренняя ошибка стораджа: 500 и тело {"error": "internal error"} без деталей.
func TestRouter_ListDiscussions_Internal(t *testing.T) {
	router, ms := newTestRouter(t)

	ms.EXPECT().
		ActiveDiscussions(gomock.Any()).
		Return(nil, errors.New("tcp reset"))

	rec := doJSON(t, router, http.MethodGet, "/discussions", nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	body := decodeBody[map[string]string](t, rec)
	require.Equal(t, "internal error", body["error"])
	require.NotContains(t, rec.Body.String(), "tcp reset")
}

func TestRouter_AddComment_Created(t *testing.T) {
	router, ms := newTestRouter(t)

	student := instructor()
	student.Role = models.RoleStudent
	student.Username = "bkowalski"

	ms.EXPECT().
		DiscussionByID(gomock.Any(), testDiscussionID).
		Return(activeDiscussion(), nil)
	ms.EXPECT().
		UserByID(gomock.Any(), testUserID).
		Return(student, nil)
	ms.EXPECT().
		AddComment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c models.Comment) (*models.Comment, error) {
			c.ID = "665f1f77bcf86cd799439099"
			c.Replies = []string{}
			c.CreatedAt = time.Now().UTC()
			return &c, nil
		})

	rec := doJSON(t, router, http.MethodPost, "/discussions/"+testDiscussionID+"/comments", map[string]string{
		"userId":  testUserID,
		"content": "hello",
	})

	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody[commentResponse](t, rec)
	require.Equal(t, testDiscussionID, body.DiscussionID)
	require.Equal(t, "bkowalski", body.Username)
	require.Equal(t, "hello", body.Content)
	require.Empty(t, body.ParentCommentID)
}

func TestRouter_AddComment_ArchivedForbidden(t *testing.T) {
	router, ms := newTestRouter(t)

	archived := activeDiscussion()
	archived.IsArchived = true

	ms.EXPECT().
		DiscussionByID(gomock.Any(), testDiscussionID).
		Return(archived, nil)

	rec := doJSON(t, router, http.MethodPost, "/discussions/"+testDiscussionID+"/comments", map[string]string{
		"userId":  testUserID,
		"content": "hello",
	})

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_AddComment_DiscussionNotFound(t *testing.T) {
	router, ms := newTestRouter(t)

	ms.EXPECT().
		DiscussionByID(gomock.Any(), testDiscussionID).
		Return(nil, storage.ErrNotFound)

	rec := doJSON(t, router, http.MethodPost, "/discussions/"+testDiscussionID+"/comments", map[string]string{
		"userId":  testUserID,
		"content": "hello",
	})

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_AddComment_ParentNotFound(t *testing.T) {
	router, ms := newTestRouter(t)

	student := instructor()
	student.Role = models.RoleStudent

	ms.EXPECT().
		DiscussionByID(gomock.Any(), testDiscussionID).
		Return(activeDiscussion(), nil)
	ms.EXPECT().
		UserByID(gomock.Any(), testUserID).
		Return(student, nil)
	ms.EXPECT().
		AddComment(gomock.Any(), gomock.Any()).
		Return(nil, storage.ErrParentNotFound)

	rec := doJSON(t, router, http.MethodPost, "/discussions/"+testDiscussionID+"/comments", map[string]string{
		"userId":          testUserID,
		"content":         "hello",
		"parentCommentId": "665f1f77bcf86cd799439003",
	})

	require.Equal(t, http.StatusForbidden, rec.Code)

	body := decodeBody[map[string]string](t, rec)
	require.Equal(t, "parent comment not found", body["message"])
}

func TestRouter_DiscussionComments_OK(t *testing.T) {
	router, ms := newTestRouter(t)

	d := activeDiscussion()
	d.CommentCount = 2

	now := time.Now().UTC().Truncate(time.Millisecond)
	comments := []models.Comment{
		{ID: "c1", DiscussionID: d.ID, Username: "u1", Content: "root", CreatedAt: now},
		{ID: "c2", DiscussionID: d.ID, Username: "u2", Content: "reply", ParentID: "c1", CreatedAt: now.Add(time.Minute)},
	}

	ms.EXPECT().
		DiscussionByID(gomock.Any(), testDiscussionID).
		Return(d, nil)
	ms.EXPECT().
		CommentsByDiscussion(gomock.Any(), testDiscussionID).
		Return(comments, nil)

	rec := doJSON(t, router, http.MethodGet, "/discussions/"+testDiscussionID+"/comments", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody[discussionDetails](t, rec)
	require.Equal(t, testDiscussionID, body.ID)
	require.Equal(t, "amartin", body.Author)
	require.Len(t, body.Comments, 1)
	require.Equal(t, "c1", body.Comments[0].ID)
	require.Len(t, body.Comments[0].Replies, 1)
	require.Equal(t, "c2", body.Comments[0].Replies[0].ID)
}

func TestRouter_DiscussionComments_NotFound(t *testing.T) {
	router, ms := newTestRouter(t)

	ms.EXPECT().
		DiscussionByID(gomock.Any(), testDiscussionID).
		Return(nil, storage.ErrNotFound)

	rec := doJSON(t, router, http.MethodGet, "/discussions/"+testDiscussionID+"/comments", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)

	body := decodeBody[map[string]string](t, rec)
	require.Equal(t, "not found", body["message"])
}

func TestRouter_ListUsers_OK(t *testing.T) {
	router, ms := newTestRouter(t)

	ms.EXPECT().
		Users(gomock.Any()).
		Return([]models.User{*instructor()}, nil)

	rec := doJSON(t, router, http.MethodGet, "/users", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody[[]userResponse](t, rec)
	require.Len(t, body, 1)
	require.Equal(t, "amartin", body[0].Username)
	require.Equal(t, "INSTRUCTOR", body[0].Role)
}

func TestRouter_GetUserByName(t *testing.T) {
	router, ms := newTestRouter(t)

	ms.EXPECT().
		UserByName(gomock.Any(), "amartin").
		Return(instructor(), nil)

	rec := doJSON(t, router, http.MethodGet, "/users/amartin", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody[userDetailsResponse](t, rec)
	require.Equal(t, testUserID, body.ID)
	require.Equal(t, "INSTRUCTOR", body.Role)

	ms.EXPECT().
		UserByName(gomock.Any(), "ghost").
		Return(nil, storage.ErrNotFound)

	rec = doJSON(t, router, http.MethodGet, "/users/ghost", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_Livez(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/livez", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestRouter_Healthz(t *testing.T) {
	router, ms := newTestRouter(t)

	ms.EXPECT().
		HealthCheck(gomock.Any()).
		Return(nil)

	rec := doJSON(t, router, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	ms.EXPECT().
		HealthCheck(gomock.Any()).
		Return(errors.New("mongo down"))

	rec = doJSON(t, router, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "mongo down")
}

// X-Request-Id проставляется middleware и возвращается клиенту.
func TestRouter_RequestIDHeader(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/livez", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}
