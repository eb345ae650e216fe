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

// CreateDiscussionInput — создание нового обсуждения.
// Всегда обязательны: UserID, Subject, Content.
type CreateDiscussionInput struct {
	UserID  string
	Subject string
	Content string
}

// CreateDiscussion — бизнес-операция создания обсуждения.
//
// Валидация:
//   - UserID, Subject, Content нормализуются (TrimSpace) и не должны быть пустыми.
//
// Поведение/ошибки:
//   - ErrNotFound — пользователь отсутствует в справочнике;
//   - ErrPermissionDenied — пользователь не преподаватель;
//   - ErrInternal — прочие ошибки стораджа/БД/контекста.
func (s *Service) CreateDiscussion(ctx context.Context, in CreateDiscussionInput) (*models.Discussion, error) {
	const op = "service/discussions/CreateDiscussion"

	in.UserID = strings.TrimSpace(in.UserID)
	lg := log.From(ctx).With("op", op, "user_id", in.UserID)

	if in.UserID == "" {
		lg.Warn("invalid argument: empty user_id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	in.Subject = strings.TrimSpace(in.Subject)
	if in.Subject == "" {
		lg.Warn("invalid argument: empty subject")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	in.Content = strings.TrimSpace(in.Content)
	if in.Content == "" {
		lg.Warn("invalid argument: empty content")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	user, err := s.storage.UserByID(ctx, in.UserID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("user not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on UserByID", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	if user.Role != models.RoleInstructor {
		lg.Warn("permission denied: not an instructor")
		return nil, fmt.Errorf("%s: %w", op, ErrPermissionDenied)
	}

	result, err := s.storage.CreateDiscussion(ctx, models.Discussion{
		UserID:   user.ID,
		Username: user.Username,
		Subject:  in.Subject,
		Content:  in.Content,
	})
	if err != nil {
		lg.Error("storage error on CreateDiscussion", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return result, nil
}

// Discussions — неархивные обсуждения, самые активные — первыми
// (updated_at DESC; добавление комментария обновляет updated_at).
//
// Поведение/ошибки:
//   - ErrInternal — ошибки стораджа.
func (s *Service) Discussions(ctx context.Context) ([]models.Discussion, error) {
	const op = "service/discussions/Discussions"

	lg := log.From(ctx).With("op", op)

	items, err := s.storage.ActiveDiscussions(ctx)
	if err != nil {
		lg.Error("storage error on ActiveDiscussions", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return items, nil
}

// DiscussionWithComments — обсуждение вместе с деревом комментариев.
//
// Read-path сборки дерева:
//  1. обсуждение по id; архивное неотличимо от отсутствующего (404);
//  2. неудалённые комментарии в порядке created_at ASC;
//  3. BuildCommentTree поверх плоского списка.
//
// Поведение/ошибки:
//   - ErrNotFound — обсуждение отсутствует или архивировано;
//   - ErrInternal — ошибки стораджа.
func (s *Service) DiscussionWithComments(ctx context.Context, id string) (*models.DiscussionDetails, error) {
	const op = "service/discussions/DiscussionWithComments"

	id = strings.TrimSpace(id)
	lg := log.From(ctx).With("op", op, "discussion_id", id)

	if id == "" {
		lg.Warn("invalid argument: empty id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	discussion, err := s.storage.DiscussionByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("discussion not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on DiscussionByID", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	if discussion.IsArchived {
		lg.Warn("discussion archived")
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	comments, err := s.storage.CommentsByDiscussion(ctx, discussion.ID)
	if err != nil {
		lg.Error("storage error on CommentsByDiscussion", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return &models.DiscussionDetails{
		ID:           discussion.ID,
		Author:       discussion.Username,
		Subject:      discussion.Subject,
		Content:      discussion.Content,
		CommentCount: discussion.CommentCount,
		Comments:     BuildCommentTree(comments),
	}, nil
}
