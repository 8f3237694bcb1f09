package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"FlowShift/internal/domain/models"
	"FlowShift/internal/domain/repository"
	"FlowShift/pkg/cache"
)

// ErrSessionMissing is returned when no session is stored under an id.
var ErrSessionMissing = errors.New("session not found")

const (
	sessionPrefix = "session"
	guardPrefix   = "session-guard"
)

// CacheSessionStore keeps sessions in a cache.Service with a sliding TTL.
type CacheSessionStore struct {
	cache cache.Service
	ttl   time.Duration
}

func NewCacheSessionStore(c cache.Service, ttl time.Duration) repository.SessionStore {
	return &CacheSessionStore{cache: c, ttl: ttl}
}

func (s *CacheSessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	var sess models.Session
	if err := s.cache.Get(ctx, cache.GenerateKey(sessionPrefix, id), &sess); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, ErrSessionMissing
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return &sess, nil
}

// Save writes the session and restarts its TTL.
func (s *CacheSessionStore) Save(ctx context.Context, sess *models.Session) error {
	if err := s.cache.Set(ctx, cache.GenerateKey(sessionPrefix, sess.ID), sess, s.ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *CacheSessionStore) Delete(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, cache.GenerateKey(sessionPrefix, id), cache.GenerateKey(guardPrefix, id))
}

func (s *CacheSessionStore) Acquire(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	return s.cache.TryLock(ctx, cache.GenerateKey(guardPrefix, id), ttl)
}

func (s *CacheSessionStore) Release(ctx context.Context, id string) error {
	return s.cache.Unlock(ctx, cache.GenerateKey(guardPrefix, id))
}
