package mongo

import (
	"context"
	"errors"
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

// discussionDoc — BSON-представление обсуждения.
// Сводные поля (comment_count, comments, last_comment_at) меняются только
// атомарными операторами внутри транзакции AddComment.
type discussionDoc struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	UserID        primitive.ObjectID   `bson:"user_id"`
	Username      string               `bson:"username"`
	Subject       string               `bson:"subject"`
	Content       string               `bson:"content"`
	Comments      []primitive.ObjectID `bson:"comments"`
	CommentCount  int64                `bson:"comment_count"`
	LastCommentAt time.Time            `bson:"last_comment_at,omitempty"`
	IsArchived    bool                 `bson:"is_archived"`
	CreatedAt     time.Time            `bson:"created_at"`
	UpdatedAt     time.Time            `bson:"updated_at"`
}

// toModel конвертирует документ в доменную модель.
func (d discussionDoc) toModel() models.Discussion {
	comments := make([]string, 0, len(d.Comments))
	for _, oid := range d.Comments {
		comments = append(comments, oid.Hex())
	}

	out := models.Discussion{
		ID:           d.ID.Hex(),
		UserID:       d.UserID.Hex(),
		Username:     d.Username,
		Subject:      d.Subject,
		Content:      d.Content,
		Comments:     comments,
		CommentCount: d.CommentCount,
		IsArchived:   d.IsArchived,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}

	// Нулевое last_comment_at означает «комментариев ещё не было».
	if !d.LastCommentAt.IsZero() {
		out.LastCommentAt = d.LastCommentAt.UTC()
	}

	return out
}

// CreateDiscussion сохраняет новое обсуждение с нулевыми сводными полями.
func (m *Mongo) CreateDiscussion(ctx context.Context, d models.Discussion) (*models.Discussion, error) {
	const op = "storage/mongo/CreateDiscussion"

	userOID, err := primitive.ObjectIDFromHex(strings.TrimSpace(d.UserID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	now := toMS(time.Now())

	doc := discussionDoc{
		UserID:       userOID,
		Username:     d.Username,
		Subject:      d.Subject,
		Content:      d.Content,
		Comments:     []primitive.ObjectID{},
		CommentCount: 0,
		IsArchived:   false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	res, err := m.discussions.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("%s: insert: %w", op, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		// Mongo всегда возвращает ObjectID.
		return nil, fmt.Errorf("%s: inserted id type", op)
	}

	doc.ID = oid
	out := doc.toModel()
	return &out, nil
}

// DiscussionByID возвращает обсуждение по идентификатору.
// Некорректный формат id трактуется как «нет такой записи».
func (m *Mongo) DiscussionByID(ctx context.Context, id string) (*models.Discussion, error) {
	const op = "storage/mongo/DiscussionByID"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	var doc discussionDoc
	if err := m.discussions.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := doc.toModel()
	return &out, nil
}

// ActiveDiscussions возвращает неархивные обсуждения, самые активные — первыми.
// Сортировка: updated_at DESC (обновляется и при добавлении комментария), _id DESC.
func (m *Mongo) ActiveDiscussions(ctx context.Context) ([]models.Discussion, error) {
	const op = "storage/mongo/ActiveDiscussions"

	filter := bson.D{{Key: "is_archived", Value: bson.D{{Key: "$ne", Value: true}}}}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: -1}})

	cur, err := m.discussions.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	var items []models.Discussion
	for cur.Next(ctx) {
		var doc discussionDoc
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
