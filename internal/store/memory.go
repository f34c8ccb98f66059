package store

import (
	"context"
	"sort"
	"sync"

	"dayplan/internal/model"
)

// Memory is an in-process backend for tests and dry runs. States are kept
// encoded so callers never share slices with the store.
type Memory struct {
	mu     sync.RWMutex
	states map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{states: make(map[string][]byte)}
}

func (m *Memory) Load(_ context.Context, userID string) (model.State, error) {
	if err := checkUser(userID); err != nil {
		return model.State{}, err
	}
	m.mu.RLock()
	b, ok := m.states[userID]
	m.mu.RUnlock()
	if !ok {
		return model.State{}, ErrNotFound
	}
	return decode(b)
}

func (m *Memory) Save(_ context.Context, userID string, st model.State) error {
	if err := checkUser(userID); err != nil {
		return err
	}
	b, err := encode(st)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.states[userID] = b
	m.mu.Unlock()
	return nil
}

func (m *Memory) Users(context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.states))
	for id := range m.states {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func (m *Memory) Close() error { return nil }
