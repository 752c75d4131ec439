package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"task-manager/models"
)

// Redis keeps every task as a JSON document under <prefix>task:<id> and a
// sorted set <prefix>created scored by creation time. IDs are UUIDv7, so
// equal scores fall back to insertion order.
type Redis struct {
	client *redis.Client
	prefix string
}

var _ Store = (*Redis)(nil)

// NewRedis wraps an existing client. All keys are namespaced with prefix.
func NewRedis(ctx context.Context, client *redis.Client, prefix string) (*Redis, error) {
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &Redis{client: client, prefix: prefix}, nil
}

func (r *Redis) docKey(id string) string { return r.prefix + "task:" + id }

func (r *Redis) indexKey() string { return r.prefix + "created" }

func (r *Redis) Insert(ctx context.Context, task *models.Task) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate id: %w", err)
	}
	task.ID = id.String()
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to encode task: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.docKey(task.ID), data, 0)
	pipe.ZAdd(ctx, r.indexKey(), redis.Z{Score: float64(task.CreatedAt.UnixMicro()), Member: task.ID})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

func (r *Redis) List(ctx context.Context, status models.Status) ([]models.Task, error) {
	ids, err := r.client.ZRevRange(ctx, r.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read task index: %w", err)
	}
	tasks := []models.Task{}
	if len(ids) == 0 {
		return tasks, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.docKey(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read tasks: %w", err)
	}

	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue // removed between the index read and MGET
		}
		var t models.Task
		if err := json.Unmarshal([]byte(s), &t); err != nil {
			return nil, fmt.Errorf("failed to decode task: %w", err)
		}
		if matches(t, status) {
			tasks = append(tasks, t)
		}
	}
	sortNewestFirst(tasks)
	return tasks, nil
}

func (r *Redis) Get(ctx context.Context, id string) (*models.Task, error) {
	data, err := r.client.Get(ctx, r.docKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	var t models.Task
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to decode task: %w", err)
	}
	return &t, nil
}

// saveRetries bounds how often Save retries after a concurrent write to
// the same task.
const saveRetries = 5

// Save replaces the document and its index entry in one transaction. The
// document key is watched so a concurrent Delete cannot leave the index
// entry behind.
func (r *Redis) Save(ctx context.Context, task *models.Task) error {
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to encode task: %w", err)
	}
	key := r.docKey(task.ID)

	save := func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			// createdAt may have been overwritten
			pipe.ZAdd(ctx, r.indexKey(), redis.Z{Score: float64(task.CreatedAt.UnixMicro()), Member: task.ID})
			return nil
		})
		return err
	}

	for i := 0; i < saveRetries; i++ {
		err = r.client.Watch(ctx, save, key)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, id string) error {
	pipe := r.client.TxPipeline()
	del := pipe.Del(ctx, r.docKey(id))
	pipe.ZRem(ctx, r.indexKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if del.Val() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
