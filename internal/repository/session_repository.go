package repository

import (
	"context"
	"sync"
	"time"

	"github.com/yhubail/graphql/internal/config"
	"github.com/yhubail/graphql/internal/util"

	"github.com/go-redis/redis/v8"
)

// TokenStore 凭证存储：单个不透明Bearer令牌的 get/set/clear。
// 除该令牌外不持久化任何会话数据。
type TokenStore interface {
	Set(ctx context.Context, token string, ttl time.Duration) error
	Get(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// MemoryTokenStore 进程内实现，默认后端
type MemoryTokenStore struct {
	mu        sync.RWMutex
	token     string
	expiresAt time.Time
}

func (s *MemoryTokenStore) Set(ctx context.Context, token string, ttl time.Duration) error {
	if token == "" {
		return util.ErrEmptyToken
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.expiresAt = time.Now().Add(ttl)
	return nil
}

func (s *MemoryTokenStore) Get(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" || time.Now().After(s.expiresAt) {
		return "", util.ErrNoSession
	}
	return s.token, nil
}

func (s *MemoryTokenStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.expiresAt = time.Time{}
	return nil
}

const redisTokenKey = "dashboard:session:token"

// RedisTokenStore 跨重启保留令牌，用于多实例部署
type RedisTokenStore struct {
	Client *redis.Client
}

func (s *RedisTokenStore) Set(ctx context.Context, token string, ttl time.Duration) error {
	if token == "" {
		return util.ErrEmptyToken
	}
	return s.Client.Set(ctx, redisTokenKey, token, ttl).Err()
}

func (s *RedisTokenStore) Get(ctx context.Context) (string, error) {
	token, err := s.Client.Get(ctx, redisTokenKey).Result()
	if err == redis.Nil {
		return "", util.ErrNoSession
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *RedisTokenStore) Clear(ctx context.Context) error {
	return s.Client.Del(ctx, redisTokenKey).Err()
}

// SessionRepository 按配置选择后端
type SessionRepository struct {
	Store TokenStore
	TTL   time.Duration
}

func NewSessionRepository(cfg *config.Config, rdb *redis.Client) *SessionRepository {
	var store TokenStore
	switch cfg.Session.Store {
	case util.SessionRedis:
		store = &RedisTokenStore{Client: rdb}
	default:
		store = &MemoryTokenStore{}
	}
	return &SessionRepository{Store: store, TTL: cfg.Session.TTL}
}

func (r *SessionRepository) Save(ctx context.Context, token string) error {
	return r.Store.Set(ctx, token, r.TTL)
}

func (r *SessionRepository) Current(ctx context.Context) (string, error) {
	return r.Store.Get(ctx)
}

func (r *SessionRepository) Clear(ctx context.Context) error {
	return r.Store.Clear(ctx)
}
