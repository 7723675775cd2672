// internal/kv/memory.go
//
// In-memory Store used by tests and single-node dev setups.  Entries carry
// an expiry and are pruned lazily on read; there is no background sweeper
// because the test keyspace stays small.
package kv

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Memory implements Store on a mutex-guarded map.
type Memory struct {
	mu sync.RWMutex
	m  map[string]memEntry

	// Gets and Sets count every call, expired or not.  Tests assert on
	// them to prove a tier was (or was not) touched.
	Gets int
	Sets int
}

type memEntry struct {
	val []byte
	exp time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{m: make(map[string]memEntry)}
}

func (s *Memory) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Gets++
	ent, ok := s.m[key]
	if !ok {
		return nil, ErrMiss
	}
	if !ent.exp.IsZero() && time.Now().After(ent.exp) {
		delete(s.m, key)
		return nil, ErrMiss
	}
	return ent.val, nil
}

func (s *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Sets++
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	s.m[key] = memEntry{val: value, exp: exp}
	return nil
}

func (s *Memory) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

func (s *Memory) DeletePrefix(_ context.Context, prefix string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	for k := range s.m {
		if strings.HasPrefix(k, prefix) {
			delete(s.m, k)
			n++
		}
	}
	return n, nil
}

func (s *Memory) Ping(context.Context) error { return nil }

// Len reports the number of live entries (expired ones included until the
// next Get touches them).
func (s *Memory) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
