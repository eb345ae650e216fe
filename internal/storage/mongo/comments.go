package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/eduforum/discussions-service/internal/models"
	"github.com/eduforum/discussions-service/internal/storage"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// commentDoc — BSON-представление комментария.
// parent_id хранится как *ObjectID: nil = корневой комментарий.
type commentDoc struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	DiscussionID primitive.ObjectID   `bson:"discussion_id"`
	UserID       primitive.ObjectID   `bson:"user_id"`
	Username     string               `bson:"username"`
	Content      string               `bson:"content"`
	ParentID     *primitive.ObjectID  `bson:"parent_id,omitempty"`
	Replies      []primitive.ObjectID `bson:"replies"`
	IsDeleted    bool                 `bson:"is_deleted"`
	CreatedAt    time.Time            `bson:"created_at"`
}

// toModel конвертирует документ в доменную модель.
func (c commentDoc) toModel() models.Comment {
	replies := make([]string, 0, len(c.Replies))
	for _, oid := range c.Replies {
		replies = append(replies, oid.Hex())
	}

	out := models.Comment{
		ID:           c.ID.Hex(),
		DiscussionID: c.DiscussionID.Hex(),
		UserID:       c.UserID.Hex(),
		Username:     c.Username,
		Content:      c.Content,
		Replies:      replies,
		IsDeleted:    c.IsDeleted,
		CreatedAt:    c.CreatedAt.UTC(),
	}

	if c.ParentID != nil {
		out.ParentID = c.ParentID.Hex()
	}

	return out
}

// AddComment создаёт комментарий и обновляет связанные записи в одной
// multi-document транзакции. Либо фиксируются все изменения
// (вставка комментария, сводные поля обсуждения, replies родителя),
// либо ни одно из них.
//
// Ошибки:
//   - storage.ErrParentNotFound — указан ParentID, но родителя нет
//     (проверка выполняется внутри транзакции, гонка с конкурентными
//     изменениями родителя исключена);
//   - прочие ошибки оборачиваются и откатывают транзакцию целиком.
func (m *Mongo) AddComment(ctx context.Context, comm models.Comment) (*models.Comment, error) {
	const op = "storage/mongo/AddComment"

	discussionOID, err := primitive.ObjectIDFromHex(strings.TrimSpace(comm.DiscussionID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	userOID, err := primitive.ObjectIDFromHex(strings.TrimSpace(comm.UserID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	var parentOID *primitive.ObjectID
	if p := strings.TrimSpace(comm.ParentID); p != "" {
		oid, err := primitive.ObjectIDFromHex(p)
		if err != nil {
			// Битый parent_id неотличим от отсутствующего родителя.
			return nil, fmt.Errorf("%s: %w", op, storage.ErrParentNotFound)
		}

		parentOID = &oid
	}

	doc := commentDoc{
		ID:           primitive.NewObjectID(),
		DiscussionID: discussionOID,
		UserID:       userOID,
		Username:     comm.Username,
		Content:      comm.Content,
		ParentID:     parentOID,
		Replies:      []primitive.ObjectID{},
		IsDeleted:    false,
		CreatedAt:    toMS(time.Now()),
	}

	session, err := m.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("%s: start session: %w", op, err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongodriver.SessionContext) (interface{}, error) {
		// Шаг 1: существование родителя проверяем внутри транзакции.
		if parentOID != nil {
			count, err := m.comments.CountDocuments(sc,
				bson.D{{Key: "_id", Value: *parentOID}},
				options.Count().SetLimit(1),
			)
			if err != nil {
				return nil, fmt.Errorf("find parent: %w", err)
			}

			if count == 0 {
				return nil, storage.ErrParentNotFound
			}
		}

		// Шаг 2: вставка нового комментария.
		if _, err := m.comments.InsertOne(sc, doc); err != nil {
			return nil, fmt.Errorf("insert: %w", err)
		}

		// Шаг 3: сводные поля обсуждения одним атомарным обновлением.
		// $inc относителен, поэтому конкурентные транзакции не теряют счётчик.
		res, err := m.discussions.UpdateByID(sc, discussionOID, bson.D{
			{Key: "$inc", Value: bson.D{{Key: "comment_count", Value: 1}}},
			{Key: "$set", Value: bson.D{
				{Key: "last_comment_at", Value: doc.CreatedAt},
				{Key: "updated_at", Value: doc.CreatedAt},
			}},
			{Key: "$push", Value: bson.D{{Key: "comments", Value: doc.ID}}},
		})
		if err != nil {
			return nil, fmt.Errorf("update discussion: %w", err)
		}

		// Предусловия проверял вызывающий слой; исчезновение обсуждения
		// на этом шаге — сбой сервера, а не клиентская ошибка.
		if res.MatchedCount == 0 {
			return nil, fmt.Errorf("update discussion: no document matched")
		}

		// Шаг 4: дописываем id ответа в replies родителя.
		if parentOID != nil {
			res, err := m.comments.UpdateByID(sc, *parentOID, bson.D{
				{Key: "$push", Value: bson.D{{Key: "replies", Value: doc.ID}}},
			})
			if err != nil {
				return nil, fmt.Errorf("update parent: %w", err)
			}

			if res.MatchedCount == 0 {
				return nil, fmt.Errorf("update parent: no document matched")
			}
		}

		return nil, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := doc.toModel()
	return &out, nil
}

// CommentsByDiscussion возвращает неудалённые комментарии обсуждения.
// Сортировка: created_at ASC, _id ASC — родитель всегда раньше ответа,
// именно этого порядка ждёт сборщик дерева.
func (m *Mongo) CommentsByDiscussion(ctx context.Context, discussionID string) ([]models.Comment, error) {
	const op = "storage/mongo/CommentsByDiscussion"

	discussionOID, err := primitive.ObjectIDFromHex(strings.TrimSpace(discussionID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	filter := bson.D{
		{Key: "discussion_id", Value: discussionOID},
		{Key: "is_deleted", Value: false},
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := m.comments.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	var items []models.Comment
	for cur.Next(ctx) {
		var doc commentDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}

		items = append(items, doc.toModel())
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return items, nil
}
