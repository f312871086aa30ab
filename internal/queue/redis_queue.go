package queue

import (
	"context"
	"time"

	"github.com/redis/rueidis"
)

// RedisQueue is a Redis list: producers LPUSH, workers BRPOP.
type RedisQueue struct {
	client rueidis.Client
	key    string
}

func NewRedisQueue(client rueidis.Client, key string) *RedisQueue {
	return &RedisQueue{
		client: client,
		key:    key,
	}
}

func (q *RedisQueue) Push(ctx context.Context, payload []byte) error {
	cmd := q.client.B().Lpush().Key(q.key).Element(rueidis.BinaryString(payload)).Build()
	return q.client.Do(ctx, cmd).Error()
}

func (q *RedisQueue) Pop(ctx context.Context, timeout time.Duration) ([]byte, error) {
	cmd := q.client.B().Brpop().Key(q.key).Timeout(timeout.Seconds()).Build()
	result, err := q.client.Do(ctx, cmd).AsStrSlice()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, ErrQueueEmpty
		}
		return nil, err
	}

	// BRPOP replies with [key, element].
	if len(result) != 2 {
		return nil, ErrQueueEmpty
	}
	return []byte(result[1]), nil
}
