// Package cache provides the session cache backends: an in-process store for
// single-node deployments and tests, and a Redis store for distributed
// deployments. Both keep entries under the "security:sessions:" namespace and
// honor best-effort TTL expiry.
package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/jmolinera/go-session-center/sessions"
)

// Namespace prefixes every cache key so session entries never collide with
// unrelated users of a shared backend.
const Namespace = "security:sessions:"

var _ sessions.Cache = (*Memory)(nil)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// Memory is an in-process session cache. Entries are stored serialized so
// every Get returns an independent copy, and expiry is enforced lazily on
// read.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	nowTime func() time.Time
}

// MemoryOption defines a function type to modify the Memory instance.
type MemoryOption func(*Memory)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) MemoryOption {
	return func(m *Memory) {
		m.nowTime = nowFunc
	}
}

// NewMemory creates an empty in-process cache.
func NewMemory(options ...MemoryOption) *Memory {
	m := &Memory{
		entries: make(map[string]memoryEntry),
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// Get returns the cached session for key, or (nil, nil) when absent or
// expired.
func (m *Memory) Get(_ context.Context, key string) (*sessions.SessionContext, error) {
	m.mu.RLock()
	entry, ok := m.entries[Namespace+key]
	m.mu.RUnlock()
	if !ok || m.nowTime().After(entry.expiresAt) {
		return nil, nil
	}

	var session sessions.SessionContext
	if err := json.Unmarshal(entry.data, &session); err != nil {
		return nil, errors.Wrap(err, "[Memory.Get] unmarshal")
	}
	return &session, nil
}

// Put stores the session under key for ttl.
func (m *Memory) Put(_ context.Context, key string, value *sessions.SessionContext, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "[Memory.Put] marshal")
	}

	m.mu.Lock()
	m.entries[Namespace+key] = memoryEntry{data: data, expiresAt: m.nowTime().Add(ttl)}
	m.mu.Unlock()
	return nil
}

// Evict removes the entry for key. Absent keys are not an error.
func (m *Memory) Evict(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, Namespace+key)
	m.mu.Unlock()
	return nil
}

// Clear removes every entry in the namespace.
func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	m.entries = make(map[string]memoryEntry)
	m.mu.Unlock()
	return nil
}
