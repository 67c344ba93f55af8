package redis

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// memorySweepInterval bounds how often writes scan the whole map for
// expired keys.
const memorySweepInterval = time.Minute

// memoryStore implements cmdable over a mutex-guarded map. Expired keys are
// dropped on access, and writes sweep the map at most once per
// memorySweepInterval so keys that are never read again do not accumulate.
type memoryStore struct {
	mu        sync.Mutex
	data      map[string]memoryEntry
	now       func() time.Time
	nextSweep time.Time
}

func newMemoryStore(now func() time.Time) *memoryStore {
	return &memoryStore{
		data:      make(map[string]memoryEntry),
		now:       now,
		nextSweep: now().Add(memorySweepInterval),
	}
}

// sweep must be called with mu held.
func (m *memoryStore) sweep() {
	now := m.now()
	if now.Before(m.nextSweep) {
		return
	}
	for key, entry := range m.data {
		if !entry.expiresAt.IsZero() && !now.Before(entry.expiresAt) {
			delete(m.data, key)
		}
	}
	m.nextSweep = now.Add(memorySweepInterval)
}

func (m *memoryStore) lookup(key string) (memoryEntry, bool) {
	entry, ok := m.data[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		delete(m.data, key)
		return memoryEntry{}, false
	}
	return entry, true
}

func (m *memoryStore) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *memoryStore) Set(_ context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep()
	entry := memoryEntry{value: fmt.Sprint(value)}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.data[key] = entry
	return redis.NewStatusResult("OK", nil)
}

func (m *memoryStore) Get(_ context.Context, key string) *redis.StringCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.lookup(key)
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(entry.value, nil)
}

func (m *memoryStore) Incr(_ context.Context, key string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep()
	entry, _ := m.lookup(key)
	current := int64(0)
	if entry.value != "" {
		parsed, err := strconv.ParseInt(entry.value, 10, 64)
		if err != nil {
			return redis.NewIntResult(0, fmt.Errorf("value at %s is not an integer", key))
		}
		current = parsed
	}
	current++
	entry.value = strconv.FormatInt(current, 10)
	m.data[key] = entry
	return redis.NewIntResult(current, nil)
}

func (m *memoryStore) Expire(_ context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.lookup(key)
	if !ok {
		return redis.NewBoolResult(false, nil)
	}
	entry.expiresAt = m.now().Add(ttl)
	m.data[key] = entry
	return redis.NewBoolResult(true, nil)
}

func (m *memoryStore) Del(_ context.Context, keys ...string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int64
	for _, key := range keys {
		if _, ok := m.lookup(key); ok {
			delete(m.data, key)
			removed++
		}
	}
	return redis.NewIntResult(removed, nil)
}
