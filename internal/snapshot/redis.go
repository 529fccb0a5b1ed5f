package snapshot

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTTL = 24 * time.Hour

// RedisStore keeps the snapshot in redis so a session can hop machines.
// Entries expire after a day; a booking older than that is not worth
// resuming.
type RedisStore struct {
	redis *redis.Client
	key   string
	ttl   time.Duration
}

func NewRedisStore(redisClient *redis.Client, key string) *RedisStore {
	return &RedisStore{
		redis: redisClient,
		key:   key,
		ttl:   defaultTTL,
	}
}

func (r *RedisStore) Save(ctx context.Context, snap Snapshot) error {
	raw, err := encode(snap)
	if err != nil {
		return err
	}

	_, err = r.redis.SetEx(ctx, r.key, raw, r.ttl).Result()
	return err
}

func (r *RedisStore) Load(ctx context.Context) (Snapshot, bool, error) {
	raw, err := r.redis.Get(ctx, r.key).Bytes()
	if err == redis.Nil {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, err
	}

	snap, ok := decode(raw)
	return snap, ok, nil
}

func (r *RedisStore) Clear(ctx context.Context) error {
	_, err := r.redis.Del(ctx, r.key).Result()
	return err
}
