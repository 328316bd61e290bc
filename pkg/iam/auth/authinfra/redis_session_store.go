package authinfra

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/memyselfalone/tkbm-cooperative-management-system/pkg/iam/auth"
	"github.com/redis/go-redis/v9"
)

// RedisSessionStore is the Redis implementation of SessionRepository.
// Sessions are stored as JSON under a per-token key with a TTL matching the
// refresh token lifetime, so Redis expiry is the cleanup mechanism.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore creates a new session store backed by Redis.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) auth.SessionRepository {
	return &RedisSessionStore{
		client: client,
		ttl:    ttl,
	}
}

func sessionKey(token string) string {
	return fmt.Sprintf("refresh_session:%s", token)
}

// Store persists a refresh session.
func (s *RedisSessionStore) Store(ctx context.Context, token string, session auth.RefreshSession) error {
	jsonData, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKey(token), jsonData, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session in Redis: %w", err)
	}

	return nil
}

// Consume reads and deletes a session in one round trip, making each refresh
// token single use.
func (s *RedisSessionStore) Consume(ctx context.Context, token string) (*auth.RefreshSession, error) {
	jsonData, err := s.client.GetDel(ctx, sessionKey(token)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, auth.ErrSessionNotFound()
		}
		return nil, fmt.Errorf("failed to get session from Redis: %w", err)
	}

	var session auth.RefreshSession
	if err := json.Unmarshal([]byte(jsonData), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// Revoke deletes a session if it exists.
func (s *RedisSessionStore) Revoke(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to revoke session in Redis: %w", err)
	}
	return nil
}
