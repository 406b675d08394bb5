package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReplySet tracks answered comment ids in a Redis set.
// It satisfies joblog.ReplyStore and replaces the reply log file when several
// hosts share one bot account.
type ReplySet struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewReplySet creates a Redis-backed reply store. A zero ttl keeps ids forever.
func NewReplySet(client *redis.Client, key string, ttl time.Duration) *ReplySet {
	if key == "" {
		key = "empleos:replied"
	}
	return &ReplySet{
		client: client,
		key:    key,
		ttl:    ttl,
	}
}

// Contains reports whether the comment was already answered
func (s *ReplySet) Contains(ctx context.Context, id string) (bool, error) {
	ok, err := s.client.SIsMember(ctx, s.key, id).Result()
	if err != nil {
		return false, fmt.Errorf("redis sismember: %w", err)
	}
	return ok, nil
}

// Add marks the comment as answered
func (s *ReplySet) Add(ctx context.Context, id string) error {
	pipe := s.client.TxPipeline()
	pipe.SAdd(ctx, s.key, id)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis sadd: %w", err)
	}
	return nil
}

// Len returns how many ids are stored
func (s *ReplySet) Len(ctx context.Context) (int64, error) {
	n, err := s.client.SCard(ctx, s.key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis scard: %w", err)
	}
	return n, nil
}

// Import copies ids from an existing reply log into the set
func (s *ReplySet) Import(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	members := make([]any, len(ids))
	for i, id := range ids {
		members[i] = id
	}
	if err := s.client.SAdd(ctx, s.key, members...).Err(); err != nil {
		return fmt.Errorf("redis sadd: %w", err)
	}
	return nil
}
