package records

import (
	"context"
	"sync"
)

// MockRepository is a mock implementation of Repository for testing.
// This mock is exported to allow usage in tests across multiple packages.
type MockRepository struct {
	SaveFunc  func(ctx context.Context, payload string) (uint64, error)
	GetFunc   func(ctx context.Context, id uint64) (string, error)
	CloseFunc func() error
}

func (m *MockRepository) Save(ctx context.Context, payload string) (uint64, error) {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, payload)
	}
	return 0, nil
}

func (m *MockRepository) Get(ctx context.Context, id uint64) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return "", nil
}

func (m *MockRepository) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// MemoryRepository returns a MockRepository backed by a map, numbering
// records from 1 like a BIGSERIAL column.
func MemoryRepository() *MockRepository {
	var mu sync.Mutex
	rows := map[uint64]string{}
	var next uint64
	return &MockRepository{
		SaveFunc: func(ctx context.Context, payload string) (uint64, error) {
			mu.Lock()
			defer mu.Unlock()
			next++
			rows[next] = payload
			return next, nil
		},
		GetFunc: func(ctx context.Context, id uint64) (string, error) {
			mu.Lock()
			defer mu.Unlock()
			payload, ok := rows[id]
			if !ok {
				return "", ErrNotFound
			}
			return payload, nil
		},
	}
}
