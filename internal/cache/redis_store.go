package cache

import (
	"context"
	"time"

	"github.com/redis/rueidis"
)

const scanBatchSize = 100

type RedisStore struct {
	client rueidis.Client
}

func NewRedisStore(client rueidis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	cmd := s.client.B().Get().Key(key).Build()
	value, err := s.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	seconds := int64(ttl / time.Second)
	if seconds <= 0 {
		seconds = 1
	}

	cmd := s.client.B().Set().Key(key).Value(rueidis.BinaryString(value)).ExSeconds(seconds).Build()
	return s.client.Do(ctx, cmd).Error()
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	cmd := s.client.B().Del().Key(keys...).Build()
	return s.client.Do(ctx, cmd).Error()
}

func (s *RedisStore) DeletePrefix(ctx context.Context, prefix string) error {
	var cursor uint64
	for {
		cmd := s.client.B().Scan().Cursor(cursor).Match(prefix + "*").Count(scanBatchSize).Build()
		entry, err := s.client.Do(ctx, cmd).AsScanEntry()
		if err != nil {
			return err
		}

		if err := s.Delete(ctx, entry.Elements...); err != nil {
			return err
		}

		cursor = entry.Cursor
		if cursor == 0 {
			return nil
		}
	}
}
