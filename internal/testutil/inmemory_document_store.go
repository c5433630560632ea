package testutil

import (
	"context"
	"sync"
)

// InMemoryDocumentStore is a storage.Document implementation backed by plain
// memory, used to exercise entity stores without touching disk. The error
// fields, when set, are returned by the corresponding operation to drive
// failure-path tests.
type InMemoryDocumentStore[T any] struct {
	mu    sync.RWMutex
	value T
	found bool

	saves int

	InitializeErr error
	SaveErr       error
	LoadErr       error
}

func NewInMemoryDocumentStore[T any]() *InMemoryDocumentStore[T] {
	return &InMemoryDocumentStore[T]{}
}

func (s *InMemoryDocumentStore[T]) Initialize(ctx context.Context) error {
	return s.InitializeErr
}

func (s *InMemoryDocumentStore[T]) Save(ctx context.Context, value T) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = value
	s.found = true
	s.saves++
	return nil
}

func (s *InMemoryDocumentStore[T]) Load(ctx context.Context) (T, bool, error) {
	var zero T
	if s.LoadErr != nil {
		return zero, false, s.LoadErr
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.found {
		return zero, false, nil
	}
	return s.value, true, nil
}

func (s *InMemoryDocumentStore[T]) Delete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	s.value = zero
	s.found = false
	return nil
}

func (s *InMemoryDocumentStore[T]) Clear(ctx context.Context) error {
	return s.Delete(ctx)
}

// Seed installs a value as if it had been persisted by an earlier run.
func (s *InMemoryDocumentStore[T]) Seed(value T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = value
	s.found = true
}

// Saved returns the last persisted value and whether anything was written.
func (s *InMemoryDocumentStore[T]) Saved() (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, s.found
}

// SaveCount returns how many successful saves happened.
func (s *InMemoryDocumentStore[T]) SaveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}
