package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// healthDoc — временный документ для сквозной проверки хранилища.
type healthDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Status    string             `bson:"status"`
	CreatedAt time.Time          `bson:"created_at"`
}

// HealthCheck выполняет полный цикл запись -> чтение -> удаление
// во временной коллекции. Любой сбой означает деградацию хранилища.
func (m *Mongo) HealthCheck(ctx context.Context) error {
	const op = "storage/mongo/HealthCheck"

	doc := healthDoc{
		ID:        primitive.NewObjectID(),
		Status:    "healthy",
		CreatedAt: toMS(time.Now()),
	}

	if _, err := m.health.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("%s: insert: %w", op, err)
	}

	var got healthDoc
	if err := m.health.FindOne(ctx, bson.D{{Key: "_id", Value: doc.ID}}).Decode(&got); err != nil {
		return fmt.Errorf("%s: find: %w", op, err)
	}

	if _, err := m.health.DeleteOne(ctx, bson.D{{Key: "_id", Value: doc.ID}}); err != nil {
		return fmt.Errorf("%s: delete: %w", op, err)
	}

	return nil
}
