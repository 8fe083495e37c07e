package rates

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"go-currency-ledger"
)

// RedisClient is the part of a go-redis client RedisStore needs.
// *redis.Client and redis.UniversalClient both satisfy it.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisStore keeps the snapshot as one JSON value under key, so several processes can share it.
type RedisStore struct {
	client RedisClient
	key    string
}

// NewRedisStore returns a Store writing under key.
func NewRedisStore(client RedisClient, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Load(ctx context.Context) (ledger.RateTable, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ledger.RateTable{}, ErrNotStored
	}
	if err != nil {
		return ledger.RateTable{}, fmt.Errorf("redis get [%v]: %w", s.key, err)
	}
	return decodeSnapshot(data)
}

// Save stores without expiry, staleness is judged from the embedded timestamp.
func (s *RedisStore) Save(ctx context.Context, table ledger.RateTable) error {
	data, err := encodeSnapshot(table)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set [%v]: %w", s.key, err)
	}
	return nil
}
