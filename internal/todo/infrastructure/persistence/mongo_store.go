package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/todo/internal/shared/domain"
	"github.com/felixgeelhaar/todo/internal/todo/domain/task"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// TasksCollection is the collection holding one document per task.
const TasksCollection = "tasks"

// MongoStore persists tasks as documents keyed by their id string.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	logger *slog.Logger
}

// NewMongoStore connects to uri, verifies the primary is reachable and
// ensures the created_at index exists.
func NewMongoStore(ctx context.Context, uri, database string, logger *slog.Logger) (*MongoStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if database == "" {
		return nil, fmt.Errorf("mongo database name is required")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	store := &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(TasksCollection),
		logger: logger,
	}

	if err := store.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Info("MongoDB store connected", "database", database, "collection", TasksCollection)
	return store, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "created_at", Value: 1}},
		Options: options.Index().SetName("idx_tasks_created_at"),
	})
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	return nil
}

func (s *MongoStore) Create(ctx context.Context, t *task.Task) error {
	if err := validateNew(t); err != nil {
		return err
	}

	_, err := s.coll.InsertOne(ctx, toDocument(t))
	if mongo.IsDuplicateKeyError(err) {
		return task.NewStoreError("create", errDuplicateID)
	}
	return task.NewStoreError("create", err)
}

// List returns all tasks ordered by _id. Ids are UUIDv7 strings, so this is
// creation order.
func (s *MongoStore) List(ctx context.Context) ([]*task.Task, error) {
	cursor, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, task.NewStoreError("list", err)
	}

	var docs []taskDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, task.NewStoreError("list", err)
	}

	tasks := make([]*task.Task, 0, len(docs))
	for _, doc := range docs {
		t, err := doc.toTask()
		if err != nil {
			return nil, task.NewStoreError("list", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (s *MongoStore) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	var doc taskDocument
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id.String()}}).Decode(&doc)
	return s.decoded(id, "find", doc, err)
}

// Update applies $set and $inc in one findAndModify and returns the new document.
func (s *MongoStore) Update(ctx context.Context, id uuid.UUID, changes task.Changes) (*task.Task, error) {
	changes, err := changes.Normalize()
	if err != nil {
		return nil, err
	}
	if changes.IsEmpty() {
		return s.FindByID(ctx, id)
	}

	set := bson.D{{Key: "updated_at", Value: domain.Now()}}
	if changes.Text != nil {
		set = append(set, bson.E{Key: "task", Value: *changes.Text})
	}
	if changes.Completed != nil {
		set = append(set, bson.E{Key: "completed", Value: *changes.Completed})
	}

	update := bson.D{
		{Key: "$set", Value: set},
		{Key: "$inc", Value: bson.D{{Key: "version", Value: 1}}},
	}

	var doc taskDocument
	err = s.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id.String()}},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	return s.decoded(id, "update", doc, err)
}

func (s *MongoStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id.String()}})
	if err != nil {
		return task.NewStoreError("delete", err)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return task.NewStoreError("ping", s.client.Ping(ctx, readpref.Primary()))
}

// Close disconnects the client, waiting at most five seconds.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect MongoDB: %w", err)
	}
	s.logger.Info("MongoDB store closed")
	return nil
}

func (s *MongoStore) decoded(id uuid.UUID, op string, doc taskDocument, err error) (*task.Task, error) {
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound(id)
		}
		return nil, task.NewStoreError(op, err)
	}
	t, err := doc.toTask()
	if err != nil {
		return nil, task.NewStoreError(op, err)
	}
	return t, nil
}
