package repo

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/vishalbagda/MidWiseAi/internal/domain"
)

// MemorySessions keeps chat sessions in process memory. Expiry is done by Sweep.
type MemorySessions struct {
	mu    sync.RWMutex
	items map[string]domain.ChatSession
}

func NewMemorySessions() *MemorySessions {
	return &MemorySessions{items: make(map[string]domain.ChatSession)}
}

func (m *MemorySessions) Get(_ context.Context, id string) (*domain.ChatSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	s = cloneSession(s)
	return &s, nil
}

func (m *MemorySessions) Put(_ context.Context, s *domain.ChatSession) error {
	m.mu.Lock()
	m.items[s.ID] = cloneSession(*s)
	m.mu.Unlock()
	return nil
}

func (m *MemorySessions) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return false, nil
	}
	delete(m.items, id)
	return true, nil
}

// Sweep drops sessions whose last activity is older than idle.
func (m *MemorySessions) Sweep(_ context.Context, idle time.Duration, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.items {
		if now.Sub(s.LastActivity) > idle {
			delete(m.items, id)
			n++
		}
	}
	return n, nil
}

func (m *MemorySessions) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// слайс сообщений копируем, чтобы вызывающий не менял состояние стора
func cloneSession(s domain.ChatSession) domain.ChatSession {
	s.Messages = append([]domain.ChatMessage(nil), s.Messages...)
	return s
}

// RedisSessions stores each session as JSON under chat:session:<id> with a sliding TTL.
type RedisSessions struct {
	rds *Redis
	ttl time.Duration
}

func NewRedisSessions(rds *Redis, ttl time.Duration) *RedisSessions {
	return &RedisSessions{rds: rds, ttl: ttl}
}

func sessionKey(id string) string { return "chat:session:" + id }

func (r *RedisSessions) Get(ctx context.Context, id string) (*domain.ChatSession, error) {
	b, err := r.rds.C.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s domain.ChatSession
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *RedisSessions) Put(ctx context.Context, s *domain.ChatSession) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.rds.C.Set(ctx, sessionKey(s.ID), b, r.ttl).Err()
}

func (r *RedisSessions) Delete(ctx context.Context, id string) (bool, error) {
	n, err := r.rds.C.Del(ctx, sessionKey(id)).Result()
	return n > 0, err
}

// Sweep is a no-op: Redis expires idle sessions by key TTL.
func (r *RedisSessions) Sweep(context.Context, time.Duration, time.Time) (int, error) {
	return 0, nil
}
