// Package session keeps login sessions in redis.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MaameAchiaa/Educonnect-web-application/internal/cache"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/models"
	"github.com/MaameAchiaa/Educonnect-web-application/internal/repositories"
)

type SessionRedis struct {
	helper *cache.CacheHelper
	ttl    time.Duration
}

// NewSessionRedis stores sessions under the session: prefix. A zero ttl uses the cache default.
func NewSessionRedis(client *redis.Client, ttl time.Duration) repositories.SessionRepository {
	if ttl <= 0 {
		ttl = cache.SessionCacheConfig.TTL
	}
	return &SessionRedis{
		helper: cache.NewCacheHelper(client, cache.SessionCacheConfig.Prefix),
		ttl:    ttl,
	}
}

func (s *SessionRedis) Create(ctx context.Context, session *models.Session) error {
	if !s.helper.Available() {
		return cache.ErrCacheNotAvailable
	}
	if session.ExpiresAt.IsZero() {
		session.ExpiresAt = session.CreatedAt.Add(s.ttl)
	}
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}

	taken, err := s.helper.Exists(ctx, session.Token)
	if err != nil {
		return fmt.Errorf("failed to check session token: %w", err)
	}
	if taken {
		return repositories.ErrDuplicate
	}
	return s.helper.Set(ctx, session.Token, session, ttl)
}

func (s *SessionRedis) Get(ctx context.Context, token string) (*models.Session, error) {
	var session models.Session
	if err := s.helper.Get(ctx, token, &session); err != nil {
		if errors.Is(err, cache.ErrCacheNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session.Expired(time.Now()) {
		return nil, repositories.ErrNotFound
	}
	return &session, nil
}

func (s *SessionRedis) Delete(ctx context.Context, token string) error {
	return s.helper.Delete(ctx, token)
}
