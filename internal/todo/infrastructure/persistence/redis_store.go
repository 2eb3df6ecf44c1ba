package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/todo/internal/todo/domain/task"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces every key written by RedisStore.
const DefaultRedisPrefix = "todo"

// maxUpdateAttempts bounds the WATCH retry loop in Update. Every lost round
// means another writer committed, so the bound is only hit under sustained
// contention from more writers than attempts.
const maxUpdateAttempts = 100

// RedisStore keeps each task as a JSON string under <prefix>:task:<id> and
// an ordering index in the sorted set <prefix>:tasks scored by creation time.
type RedisStore struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedisStore parses a redis:// URL, connects and pings.
func NewRedisStore(ctx context.Context, url string, logger *slog.Logger) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRedisStoreFromClient(client, DefaultRedisPrefix, logger), nil
}

// NewRedisStoreFromClient wraps an existing client. The store takes
// ownership and closes it on Close.
func NewRedisStoreFromClient(client *redis.Client, prefix string, logger *slog.Logger) *RedisStore {
	if logger == nil {
		logger = slog.Default()
	}
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix, logger: logger}
}

func (s *RedisStore) taskKey(id string) string { return s.prefix + ":task:" + id }
func (s *RedisStore) indexKey() string         { return s.prefix + ":tasks" }

func (s *RedisStore) Create(ctx context.Context, t *task.Task) error {
	if err := validateNew(t); err != nil {
		return err
	}

	data, err := json.Marshal(toDocument(t))
	if err != nil {
		return task.NewStoreError("create", err)
	}

	id := t.ID().String()
	var added *redis.BoolCmd
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		added = pipe.SetNX(ctx, s.taskKey(id), data, 0)
		pipe.ZAddNX(ctx, s.indexKey(), redis.Z{Score: float64(t.CreatedAt().UnixMilli()), Member: id})
		return nil
	})
	if err != nil {
		return task.NewStoreError("create", err)
	}
	if !added.Val() {
		return task.NewStoreError("create", errDuplicateID)
	}
	return nil
}

// List reads the index and fetches all documents with one MGET. Equal scores
// fall back to lexicographic member order, which matches UUIDv7 order.
func (s *RedisStore) List(ctx context.Context) ([]*task.Task, error) {
	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, task.NewStoreError("list", err)
	}

	tasks := make([]*task.Task, 0, len(ids))
	if len(ids) == 0 {
		return tasks, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.taskKey(id)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, task.NewStoreError("list", err)
	}

	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			s.logger.Warn("task index references missing document", "task_id", ids[i])
			continue
		}
		t, err := decodeTask(raw)
		if err != nil {
			return nil, task.NewStoreError("list", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (s *RedisStore) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	raw, err := s.client.Get(ctx, s.taskKey(id.String())).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, notFound(id)
		}
		return nil, task.NewStoreError("find", err)
	}

	t, err := decodeTask(raw)
	if err != nil {
		return nil, task.NewStoreError("find", err)
	}
	return t, nil
}

// Update is an optimistic WATCH/MULTI read-modify-write. A round aborted by a
// concurrent write is retried against the fresh record, so concurrent
// updates resolve last-write-wins. Exhausting maxUpdateAttempts yields
// task.ErrConflict.
func (s *RedisStore) Update(ctx context.Context, id uuid.UUID, changes task.Changes) (*task.Task, error) {
	changes, err := changes.Normalize()
	if err != nil {
		return nil, err
	}
	if changes.IsEmpty() {
		return s.FindByID(ctx, id)
	}

	key := s.taskKey(id.String())
	var updated *task.Task

	apply := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Result()
		if err != nil {
			return err
		}
		t, err := decodeTask(raw)
		if err != nil {
			return err
		}

		t.Apply(changes)
		data, err := json.Marshal(toDocument(t))
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		if err != nil {
			return err
		}
		updated = t
		return nil
	}

	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		err = s.client.Watch(ctx, apply, key)
		switch {
		case err == nil:
			return updated, nil
		case errors.Is(err, redis.Nil):
			return nil, notFound(id)
		case errors.Is(err, redis.TxFailedErr):
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, task.NewStoreError("update", ctxErr)
			}
			continue
		default:
			return nil, task.NewStoreError("update", err)
		}
	}

	s.logger.Warn("task update lost every optimistic round",
		"task_id", id, "attempts", maxUpdateAttempts)
	return nil, fmt.Errorf("update task %s: %w", id, task.ErrConflict)
}

func (s *RedisStore) Delete(ctx context.Context, id uuid.UUID) error {
	member := id.String()
	var deleted *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		deleted = pipe.Del(ctx, s.taskKey(member))
		pipe.ZRem(ctx, s.indexKey(), member)
		return nil
	})
	if err != nil {
		return task.NewStoreError("delete", err)
	}
	if deleted.Val() == 0 {
		return notFound(id)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return task.NewStoreError("ping", s.client.Ping(ctx).Err())
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func decodeTask(raw string) (*task.Task, error) {
	var doc taskDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("decode task: %w", err)
	}
	return doc.toTask()
}
