// service содержит бизнес-логику discussions-сервиса.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/eduforum/discussions-service/internal/config"
	"github.com/eduforum/discussions-service/internal/storage"
	"github.com/eduforum/discussions-service/pkg/log"
)

var (
	// ErrInvalidArgument — неверные входные параметры запроса к сервису.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound — сущность отсутствует (обсуждение, пользователь по username).
	ErrNotFound = errors.New("not found")
	// ErrPermissionDenied — создавать обсуждения может только преподаватель.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrUnknownUser — автор комментария не найден в справочнике.
	ErrUnknownUser = errors.New("unknown user")
	// ErrArchived — обсуждение архивировано и не принимает комментарии.
	ErrArchived = errors.New("discussion archived")
	// ErrParentNotFound — указан parent_comment_id, но родителя нет.
	ErrParentNotFound = errors.New("parent comment not found")
	// ErrInternal — внутренняя ошибка (сторадж/БД/контекст/и т.д.).
	ErrInternal = errors.New("internal")
)

// Service — описывает бизнес-логику discussions-service.
type Service struct {
	storage storage.Storage
	cfg     config.Config
}

// New создает новый экземпляр Service.
func New(storage storage.Storage, cfg config.Config) *Service {
	return &Service{
		storage: storage,
		cfg:     cfg,
	}
}

// HealthCheck — сквозная проверка хранилища (запись/чтение/удаление
// временного документа).
func (s *Service) HealthCheck(ctx context.Context) error {
	const op = "service/HealthCheck"

	if err := s.storage.HealthCheck(ctx); err != nil {
		log.From(ctx).Error("storage health check failed", "op", op, "err", err)
		return fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return nil
}
