package store

import (
	"context"
	"sync"

	"github.com/Clark-Hu/movie-catalog/internal/domain"
)

// Memory keeps movies in process memory. It starts empty and is discarded
// with the process.
type Memory struct {
	mu    sync.RWMutex
	order []string
	items map[string]domain.Movie
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{items: make(map[string]domain.Movie)}
}

// Insert adds a new movie, rejecting an id that is already present.
func (m *Memory) Insert(_ context.Context, movie domain.Movie) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.items[movie.ID]; exists {
		return ErrDuplicateID
	}
	m.items[movie.ID] = movie.Clone()
	m.order = append(m.order, movie.ID)
	return nil
}

// Get returns a copy of the stored movie.
func (m *Memory) Get(_ context.Context, id string) (domain.Movie, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	movie, ok := m.items[id]
	if !ok {
		return domain.Movie{}, ErrNotFound
	}
	return movie.Clone(), nil
}

// Save overwrites an existing movie.
func (m *Memory) Save(_ context.Context, movie domain.Movie) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[movie.ID]; !ok {
		return ErrNotFound
	}
	m.items[movie.ID] = movie.Clone()
	return nil
}

// Delete removes a movie permanently.
func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[id]; !ok {
		return ErrNotFound
	}
	delete(m.items, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns copies of all movies in insertion order.
func (m *Memory) List(_ context.Context) ([]domain.Movie, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Movie, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.items[id].Clone())
	}
	return out, nil
}

// HealthCheck always succeeds for the memory backend.
func (m *Memory) HealthCheck(context.Context) error {
	return nil
}

// Close drops every record.
func (m *Memory) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.order = nil
	m.items = make(map[string]domain.Movie)
}
