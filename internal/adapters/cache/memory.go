package cache

import (
	"context"
	"sync"
	"time"

	"github.com/alejandrodnm/calcdesk/internal/domain"
)

type memoryEntry struct {
	result    domain.Result
	createdAt time.Time
}

// MemoryCache implementa ports.ResultCache en memoria con TTL.
// Cuando se supera maxEntries se descartan las entradas expiradas y, si no
// alcanza, la más antigua.
type MemoryCache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	entries    map[string]memoryEntry
	now        func() time.Time
}

// NewMemoryCache crea una caché en memoria. ttl <= 0 significa sin expiración.
func NewMemoryCache(ttl time.Duration, maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	return &MemoryCache{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]memoryEntry),
		now:        time.Now,
	}
}

// Get devuelve el resultado si existe y no expiró.
func (m *MemoryCache) Get(_ context.Context, key string) (domain.Result, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return domain.Result{}, false
	}
	if m.expired(e) {
		delete(m.entries, key)
		return domain.Result{}, false
	}
	return e.result, true
}

// Set guarda el resultado.
func (m *MemoryCache) Set(_ context.Context, key string, result domain.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.maxEntries {
		m.evict()
	}
	m.entries[key] = memoryEntry{result: result, createdAt: m.now()}
	return nil
}

// Len devuelve cuántas entradas hay (incluidas expiradas aún no purgadas).
func (m *MemoryCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *MemoryCache) expired(e memoryEntry) bool {
	return m.ttl > 0 && m.now().Sub(e.createdAt) > m.ttl
}

// evict se llama con el lock tomado.
func (m *MemoryCache) evict() {
	var oldestKey string
	var oldest time.Time
	for k, e := range m.entries {
		if m.expired(e) {
			delete(m.entries, k)
			continue
		}
		if oldestKey == "" || e.createdAt.Before(oldest) {
			oldestKey, oldest = k, e.createdAt
		}
	}
	if len(m.entries) >= m.maxEntries && oldestKey != "" {
		delete(m.entries, oldestKey)
	}
}
