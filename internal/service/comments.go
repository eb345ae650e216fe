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

// AddCommentInput — добавление комментария или ответа.
// Правила:
//   - всегда обязательны: DiscussionID, UserID, Content;
//   - ParentID опционален: пустой — корневой комментарий, иначе ответ.
type AddCommentInput struct {
	DiscussionID string
	UserID       string
	Content      string
	ParentID     string
}

// AddComment — бизнес-операция добавления комментария.
//
// Предусловия проверяются до транзакции:
//   - обсуждение существует (иначе ErrNotFound) и не архивировано (иначе ErrArchived);
//   - автор существует в справочнике (иначе ErrUnknownUser).
//
// Дальше вся мутация — одна атомарная единица в сторадже (storage.AddComment):
// проверка родителя, вставка комментария, сводные поля обсуждения,
// replies родителя — фиксируются или откатываются только вместе.
// Проверка существования родителя выполняется ВНУТРИ транзакции, поэтому
// гонка с конкурентными изменениями родителя исключена.
//
// Ретраев здесь нет: повтор вызова после таймаута создаст второй комментарий
// (идемпотентного ключа в протоколе нет).
//
// Поведение/ошибки:
//   - ErrInvalidArgument — пустые/битые входные данные;
//   - ErrNotFound — обсуждение не найдено;
//   - ErrArchived — обсуждение архивировано;
//   - ErrUnknownUser — автор не найден;
//   - ErrParentNotFound — указан ParentID, но родителя нет;
//   - ErrInternal — прочие ошибки стораджа/БД/контекста.
func (s *Service) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	const op = "service/comments/AddComment"

	in.DiscussionID = strings.TrimSpace(in.DiscussionID)
	in.UserID = strings.TrimSpace(in.UserID)
	in.ParentID = strings.TrimSpace(in.ParentID)

	lg := log.From(ctx).With(
		"op", op,
		"discussion_id", in.DiscussionID,
		"user_id", in.UserID,
		"parent_id", in.ParentID,
	)

	if in.DiscussionID == "" {
		lg.Warn("invalid argument: empty discussion_id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if in.UserID == "" {
		lg.Warn("invalid argument: empty user_id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	in.Content = strings.TrimSpace(in.Content)
	if in.Content == "" {
		lg.Warn("invalid argument: empty content")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	// Предусловие: обсуждение существует и активно.
	discussion, err := s.storage.DiscussionByID(ctx, in.DiscussionID)
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
		return nil, fmt.Errorf("%s: %w", op, ErrArchived)
	}

	// Предусловие: автор существует.
	user, err := s.storage.UserByID(ctx, in.UserID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("unknown user")
			return nil, fmt.Errorf("%s: %w", op, ErrUnknownUser)
		default:
			lg.Error("storage error on UserByID", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	result, err := s.storage.AddComment(ctx, models.Comment{
		DiscussionID: discussion.ID,
		UserID:       user.ID,
		Username:     user.Username,
		Content:      in.Content,
		ParentID:     in.ParentID,
	})
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrParentNotFound):
			lg.Warn("parent comment not found")
			return nil, fmt.Errorf("%s: %w", op, ErrParentNotFound)
		case errors.Is(err, storage.ErrNotFound):
			lg.Warn("not found on AddComment")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		default:
			lg.Error("storage error on AddComment", "err", err)
			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	return result, nil
}
