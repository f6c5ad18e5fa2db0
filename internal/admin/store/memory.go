package store

import (
	"context"
	"fmt"
	"sync"

	"elamli.org/elamli-admin/internal/admin/orders"
)

// MemoryStore is an in-memory orders.Store for local development and tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries orders.Snapshot

	// FetchErr and UpdateErr, when set, are returned by the corresponding
	// operations to simulate transport or permission failures.
	FetchErr  error
	UpdateErr error
}

// NewMemoryStore returns a MemoryStore seeded with the given entries.
func NewMemoryStore(entries orders.Snapshot) *MemoryStore {
	return &MemoryStore{entries: append(orders.Snapshot(nil), entries...)}
}

// FetchOrders returns a copy of the seeded snapshot in seed order.
func (s *MemoryStore) FetchOrders(_ context.Context) (orders.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FetchErr != nil {
		return nil, s.FetchErr
	}
	return append(orders.Snapshot(nil), s.entries...), nil
}

// UpdateOrderStatus mutates the status of the matching entry.
func (s *MemoryStore) UpdateOrderStatus(_ context.Context, orderID string, status orders.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UpdateErr != nil {
		return s.UpdateErr
	}
	for i := range s.entries {
		if s.entries[i].ID == orderID {
			s.entries[i].Record.Status = string(status)
			return nil
		}
	}
	return fmt.Errorf("store: order %s not found", orderID)
}
