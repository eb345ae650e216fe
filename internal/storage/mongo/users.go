package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/eduforum/discussions-service/internal/models"
	"github.com/eduforum/discussions-service/internal/storage"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
)

// userDoc — BSON-представление пользователя.
type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	FirstName string             `bson:"first_name"`
	LastName  string             `bson:"last_name"`
	Role      int32              `bson:"role"`
}

// toModel конвертирует документ в доменную модель.
func (u userDoc) toModel() models.User {
	return models.User{
		ID:        u.ID.Hex(),
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      models.UserRole(u.Role),
	}
}

// UserByID возвращает пользователя по идентификатору.
// Некорректный формат id трактуется как «нет такой записи».
func (m *Mongo) UserByID(ctx context.Context, id string) (*models.User, error) {
	const op = "storage/mongo/UserByID"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	var doc userDoc
	if err := m.users.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := doc.toModel()
	return &out, nil
}

// UserByName возвращает пользователя по уникальному username.
func (m *Mongo) UserByName(ctx context.Context, username string) (*models.User, error) {
	const op = "storage/mongo/UserByName"

	var doc userDoc
	if err := m.users.FindOne(ctx, bson.D{{Key: "username", Value: strings.TrimSpace(username)}}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := doc.toModel()
	return &out, nil
}

// Users возвращает всех пользователей в порядке username.
func (m *Mongo) Users(ctx context.Context) ([]models.User, error) {
	const op = "storage/mongo/Users"

	cur, err := m.users.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	var items []models.User
	for cur.Next(ctx) {
		var doc userDoc
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

// SeedUsers идемпотентно заполняет справочник: вставляет записи, только
// если коллекция пуста. Гонка двух инстансов на старте безопасна —
// уникальный индекс по username превратит повторную вставку в ErrConflict.
func (m *Mongo) SeedUsers(ctx context.Context, users []models.User) error {
	const op = "storage/mongo/SeedUsers"

	if len(users) == 0 {
		return nil
	}

	count, err := m.users.CountDocuments(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("%s: count: %w", op, err)
	}

	if count > 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(users))
	for _, u := range users {
		docs = append(docs, userDoc{
			Username:  u.Username,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Role:      int32(u.Role),
		})
	}

	if _, err := m.users.InsertMany(ctx, docs); err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrConflict)
		}

		return fmt.Errorf("%s: insert: %w", op, err)
	}

	return nil
}
