package deckcache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"ai-flashcard-be/internal/entity"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "pdfcache:"

// RedisStore keeps entries as JSON under pdfcache:<entry id> and lets redis
// expire them after the TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Find(ctx context.Context, contentHash, userId, filtersKey string) (*entity.PDFCacheEntry, error) {
	val, err := s.client.Get(ctx, redisKeyPrefix+EntryKey(userId, contentHash, filtersKey)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var entry entity.PDFCacheEntry
	if err := json.Unmarshal([]byte(val), &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *RedisStore) Save(ctx context.Context, entry *entity.PDFCacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, redisKeyPrefix+entry.Id, data, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, redisKeyPrefix+id).Err()
}
