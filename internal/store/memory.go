package store

import (
	"context"
	"slices"
	"sync"

	"sales-dashboard/internal/models"
)

// Memory is an in-process Source backed by a slice. Err, when set, is returned
// by every call and simulates an unreachable store.
type Memory struct {
	mu     sync.Mutex
	orders []models.RawOrder
	Err    error
}

func NewMemory(orders []models.RawOrder) *Memory {
	return &Memory{orders: slices.Clone(orders)}
}

func (m *Memory) FetchOrders(ctx context.Context) ([]models.RawOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return slices.Clone(m.orders), nil
}

func (m *Memory) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Err
}

func (m *Memory) Close() {}

func (m *Memory) ImportOrders(ctx context.Context, orders []models.RawOrder) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	m.orders = append(m.orders, orders...)
	return int64(len(orders)), nil
}
