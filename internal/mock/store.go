package mock

import (
	"context"
	"sync"

	"github.com/garrettladley/ham/internal/telemetry"
)

// Store keeps the simulated recent samples and the day's totals.
type Store interface {
	// AddSample records s and trims the history to capacity.
	AddSample(ctx context.Context, s Sample, capacity int) error
	// Recent returns up to n samples, newest first.
	Recent(ctx context.Context, n int) ([]Sample, error)
	AddTotals(ctx context.Context, delta Totals) error
	Totals(ctx context.Context) (Totals, error)
	Reset(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

var _ Store = (*MemoryStore)(nil)

type MemoryStore struct {
	mu      sync.RWMutex
	samples []Sample
	totals  Totals
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) AddSample(_ context.Context, s Sample, capacity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.samples = telemetry.PushBounded(m.samples, s, capacity)
	return nil
}

func (m *MemoryStore) Recent(_ context.Context, n int) ([]Sample, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n = min(max(n, 0), len(m.samples))
	out := make([]Sample, n)
	copy(out, m.samples[:n])
	return out, nil
}

func (m *MemoryStore) AddTotals(_ context.Context, delta Totals) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totals.DistanceMeters += delta.DistanceMeters
	m.totals.DietMinutes += delta.DietMinutes
	m.totals.WaterMinutes += delta.WaterMinutes
	m.totals.SleepSeconds += delta.SleepSeconds
	return nil
}

func (m *MemoryStore) Totals(_ context.Context) (Totals, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totals, nil
}

func (m *MemoryStore) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.samples = nil
	m.totals = Totals{}
	return nil
}

func (m *MemoryStore) Ping(_ context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }
