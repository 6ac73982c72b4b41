package clock

import (
	"sync"
	"time"
)

// mockTimeProvider is a time source the tests move by hand
type mockTimeProvider struct {
	mu          sync.RWMutex
	currentTime time.Time
}

func newMockTimeProvider(startTime time.Time) *mockTimeProvider {
	return &mockTimeProvider{currentTime: startTime}
}

func (m *mockTimeProvider) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentTime
}

func (m *mockTimeProvider) SetTime(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = t
}

func (m *mockTimeProvider) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = m.currentTime.Add(d)
}
