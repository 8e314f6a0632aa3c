package storage

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/niksmo/local-market/internal/core/domain"
	"github.com/niksmo/local-market/internal/core/port"
)

var (
	_ port.KeyValueStore = (*MemoryKeyValueStore)(nil)
	_ port.OrderRecorder = (*MemoryOrderBook)(nil)
	_ port.OrderHistory  = (*MemoryOrderBook)(nil)
)

// MemoryKeyValueStore keeps entries for the lifetime of the process.
type MemoryKeyValueStore struct {
	mu      sync.RWMutex
	entries map[string]string
}

func NewMemoryKeyValueStore() *MemoryKeyValueStore {
	return &MemoryKeyValueStore{entries: make(map[string]string)}
}

func (s *MemoryKeyValueStore) Get(ctx context.Context, key string) (string, error) {
	const op = "MemoryKeyValueStore.Get"

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.entries[key]
	if !ok {
		return "", fmt.Errorf("%s: %q: %w", op, key, domain.ErrNotFound)
	}
	return v, nil
}

func (s *MemoryKeyValueStore) Set(ctx context.Context, key, value string) error {
	const op = "MemoryKeyValueStore.Set"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

func (s *MemoryKeyValueStore) Delete(ctx context.Context, key string) error {
	const op = "MemoryKeyValueStore.Delete"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// MemoryOrderBook records orders per customer in placement order.
type MemoryOrderBook struct {
	mu     sync.RWMutex
	orders map[string][]domain.Order
}

func NewMemoryOrderBook() *MemoryOrderBook {
	return &MemoryOrderBook{orders: make(map[string][]domain.Order)}
}

func (b *MemoryOrderBook) RecordOrder(ctx context.Context, o domain.Order) error {
	const op = "MemoryOrderBook.RecordOrder"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	o.Items = slices.Clone(o.Items)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.orders[o.CustomerID] = append(b.orders[o.CustomerID], o)
	return nil
}

func (b *MemoryOrderBook) Orders(
	ctx context.Context, customerID string,
) ([]domain.Order, error) {
	const op = "MemoryOrderBook.Orders"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.orders[customerID]), nil
}
