package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/eduforum/discussions-service/pkg/log"

	"github.com/eduforum/discussions-service/internal/models"
	"github.com/eduforum/discussions-service/internal/storage"
)

// Users — все пользователи справочника.
//
// Поведение/ошибки:
//   - ErrInternal — ошибки стораджа.
func (s *Service) Users(ctx context.Context) ([]models.User, error) {
	const op = "service/users/Users"

	lg := log.From(ctx).With("op", op)

	items, err := s.storage.Users(ctx)
	if err != nil {
		lg.Error("storage error on Users", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return items, nil
}

// UserByName — пользователь по уникальному username.
//
// Валидация:
//   - username не должен быть пустым.
//
// Поведение/ошибки:
//   - ErrNotFound — пользователь не найден;
//   - ErrInternal — иные ошибки стораджа.
func (s *Service) UserByName(ctx context.Context, username string) (*models.User, error) {
	const op = "service/users/UserByName"

	username = strings.TrimSpace(username)
	lg := log.From(ctx).With("op", op, "username", username)

	if username == "" {
		lg.Warn("invalid argument: empty username")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	user, err := s.storage.UserByName(ctx, username)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("user not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on UserByName", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	return user, nil
}
