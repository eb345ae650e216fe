package storage

import (
	"context"
	"errors"

	"github.com/eduforum/discussions-service/internal/models"
)

var (
	// ErrNotFound — сущность отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrParentNotFound — указан parent_id, но родительский комментарий не найден.
	ErrParentNotFound = errors.New("parent comment not found")
	// ErrConflict — конфликт уникальности (например, username).
	ErrConflict = errors.New("conflict")
)

// UserDirectory — справочник пользователей.
// Сервис опирается только на этот интерфейс: проверка существования
// пользователя и его роли перед мутациями.
type UserDirectory interface {
	// UserByID возвращает пользователя по hex-идентификатору.
	// Если запись не найдена (включая некорректный формат id) — ErrNotFound.
	UserByID(ctx context.Context, id string) (*models.User, error)

	// UserByName возвращает пользователя по уникальному username.
	// Если запись не найдена — ErrNotFound.
	UserByName(ctx context.Context, username string) (*models.User, error)

	// Users возвращает всех пользователей.
	Users(ctx context.Context) ([]models.User, error)
}

// Storage описывает операции над обсуждениями и комментариями.
type Storage interface {
	UserDirectory

	// CreateDiscussion сохраняет новое обсуждение.
	// Входной Discussion должен содержать UserID, Username, Subject, Content.
	// Вычисляемые хранилищем поля: ID, CreatedAt, UpdatedAt; сводные поля
	// (CommentCount, Comments, LastCommentAt) инициализируются нулевыми.
	CreateDiscussion(ctx context.Context, d models.Discussion) (*models.Discussion, error)

	// DiscussionByID возвращает обсуждение по идентификатору.
	// Если запись не найдена (включая некорректный формат id) — ErrNotFound.
	DiscussionByID(ctx context.Context, id string) (*models.Discussion, error)

	// ActiveDiscussions возвращает неархивные обсуждения,
	// отсортированные по updated_at DESC (самые активные — первыми).
	ActiveDiscussions(ctx context.Context) ([]models.Discussion, error)

	// AddComment создаёт комментарий и обновляет связанные записи
	// в ОДНОЙ multi-document транзакции:
	//  1. если ParentID задан — проверка существования родителя
	//     (нет — ErrParentNotFound, транзакция прерывается без записей);
	//  2. вставка нового комментария;
	//  3. у обсуждения: $inc comment_count, $set last_comment_at, $push comments;
	//  4. если ParentID задан — $push replies у родителя.
	// Любая ошибка на шагах 1–4 откатывает всё: частичный эффект не наблюдаем.
	// Если обсуждение исчезло между проверкой предусловий и обновлением —
	// возвращается обычная обёрнутая ошибка (server fault), не ErrNotFound.
	AddComment(ctx context.Context, c models.Comment) (*models.Comment, error)

	// CommentsByDiscussion возвращает неудалённые (is_deleted=false)
	// комментарии обсуждения, отсортированные по created_at ASC, _id ASC.
	// Ровно тот порядок, которого требует сборщик дерева.
	CommentsByDiscussion(ctx context.Context, discussionID string) ([]models.Comment, error)

	// SeedUsers идемпотентно заполняет справочник пользователей:
	// вставляет записи, только если коллекция пуста.
	SeedUsers(ctx context.Context, users []models.User) error

	// HealthCheck — сквозная проверка хранилища: запись временного
	// документа, чтение и удаление.
	HealthCheck(ctx context.Context) error

	// Close закрывает соединения/ресурсы хранилища.
	Close(ctx context.Context) error
}
