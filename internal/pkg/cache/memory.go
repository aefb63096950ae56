package cache

import (
	"Resonance/internal/api/dto"
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	recs     []*dto.RecommendationDTO
	storedAt time.Time
	ttl      time.Duration
}

// MemoryCache 进程内 TTL 缓存，过期条目读取时惰性清除
type MemoryCache struct {
	mu    sync.RWMutex
	store map[string]memoryEntry
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{store: make(map[string]memoryEntry)}
}

func (s *MemoryCache) Get(_ context.Context, key string) ([]*dto.RecommendationDTO, bool) {
	s.mu.RLock()
	entry, ok := s.store[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Since(entry.storedAt) > entry.ttl {
		s.mu.Lock()
		// 锁升级期间键可能已被并发 Set 刷新，只删仍过期的条目
		if cur, ok := s.store[key]; ok && time.Since(cur.storedAt) > cur.ttl {
			delete(s.store, key)
		}
		s.mu.Unlock()
		return nil, false
	}
	return entry.recs, true
}

func (s *MemoryCache) Set(_ context.Context, key string, recs []*dto.RecommendationDTO, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	s.mu.Lock()
	s.store[key] = memoryEntry{recs: recs, storedAt: time.Now(), ttl: ttl}
	s.mu.Unlock()
}
