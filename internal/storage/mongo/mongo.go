package mongo

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/eduforum/discussions-service/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	discussionsCollection = "discussions"
	commentsCollection    = "comments"
	usersCollection       = "users"
	healthCollection      = "health"

	defaultDBName = "discussions"
)

// Mongo - тонкий адаптер для подключения и коллекций MongoDB.
// AddComment использует multi-document транзакции, поэтому инстанс MongoDB
// должен быть членом replica set (для single-node достаточно rs.initiate()).
type Mongo struct {
	cfg         *config.Config
	client      *mongodriver.Client
	db          *mongodriver.Database
	discussions *mongodriver.Collection
	comments    *mongodriver.Collection
	users       *mongodriver.Collection
	health      *mongodriver.Collection
}

// New подключается к MongoDB, проверяет его, подготавливает коллекции и обеспечивает индексацию.
func New(ctx context.Context, cfg *config.Config) (*Mongo, error) {
	if cfg == nil {
		return nil, fmt.Errorf("mongo: nil config")
	}

	if cfg.DB.URL == "" {
		return nil, fmt.Errorf("mongo: empty cfg.DB.URL")
	}

	cli, err := mongodriver.Connect(ctx, options.Client().ApplyURI(cfg.DB.URL))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	dbName := databaseFromURI(cfg.DB.URL)
	db := cli.Database(dbName)

	m := &Mongo{
		cfg:         cfg,
		client:      cli,
		db:          db,
		discussions: db.Collection(discussionsCollection),
		comments:    db.Collection(commentsCollection),
		users:       db.Collection(usersCollection),
		health:      db.Collection(healthCollection),
	}

	if err := m.ensureIndexes(ctx); err != nil {
		_ = m.Close(ctx)
		return nil, err
	}

	return m, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// ensureIndexes создает индексы, необходимые сервису обсуждений.
// - Лента обсуждений: is_archived + updated_at(desc)
// - Комментарии обсуждения в порядке создания: discussion_id + created_at(asc)
// - Уникальность username в справочнике пользователей
func (m *Mongo) ensureIndexes(ctx context.Context) error {
	discussionIdx := []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: "is_archived", Value: 1}, {Key: "updated_at", Value: -1}},
			Options: options.Index().SetName("archived_updated_desc"),
		},
	}

	commentIdx := []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: "discussion_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("discussion_created_asc"),
		},
	}

	userIdx := []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetName("username_unique").SetUnique(true),
		},
	}

	if _, err := m.discussions.Indexes().CreateMany(ctx, discussionIdx); err != nil {
		return fmt.Errorf("mongo ensure discussion indexes: %w", err)
	}

	if _, err := m.comments.Indexes().CreateMany(ctx, commentIdx); err != nil {
		return fmt.Errorf("mongo ensure comment indexes: %w", err)
	}

	if _, err := m.users.Indexes().CreateMany(ctx, userIdx); err != nil {
		return fmt.Errorf("mongo ensure user indexes: %w", err)
	}

	return nil
}

// databaseFromURI извлекает имя базы данных из URI-пути mongodb.
// Если оно отсутствует или не поддается расшифровке, возвращает разумное значение по умолчанию.
func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}
	return defaultDBName
}

// toMS приводит время к UTC с точностью до миллисекунд:
// MongoDB DateTime хранит миллисекунды.
func toMS(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
