package clock

import (
	"testing"
	"time"
)

func TestPumpAdvancesByElapsedTime(t *testing.T) {
	mock := newMockTimeProvider(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	s := NewScheduler()
	p := NewPump(s, mock)

	count := 0
	s.Every(50*time.Millisecond, func() { count++ })

	mock.Advance(120 * time.Millisecond)
	if got := p.Step(); got != 120*time.Millisecond {
		t.Errorf("Expected step of 120ms, got %v", got)
	}
	if count != 2 {
		t.Errorf("Expected 2 firings, got %d", count)
	}

	if got := p.Step(); got != 0 {
		t.Errorf("Expected zero step without elapsed time, got %v", got)
	}
}

func TestPumpClampsLargeGaps(t *testing.T) {
	mock := newMockTimeProvider(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	s := NewScheduler()
	p := NewPump(s, mock)

	mock.Advance(10 * time.Second)
	if got := p.Step(); got != MaxCatchUp {
		t.Errorf("Expected step clamped to %v, got %v", MaxCatchUp, got)
	}
	if s.Now() != MaxCatchUp {
		t.Errorf("Expected scheduler at %v, got %v", MaxCatchUp, s.Now())
	}
}

func TestPumpIgnoresBackwardsTime(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock := newMockTimeProvider(start)
	s := NewScheduler()
	p := NewPump(s, mock)

	mock.SetTime(start.Add(-time.Minute))
	if got := p.Step(); got != 0 {
		t.Errorf("Expected zero step for backwards time, got %v", got)
	}
}

func TestMonotonicTimeProvider(t *testing.T) {
	provider := NewMonotonicTimeProvider()

	t1 := provider.Now()
	time.Sleep(10 * time.Millisecond)
	t2 := provider.Now()

	if !t2.After(t1) {
		t.Errorf("Expected t2 to be after t1, but got t1=%v, t2=%v", t1, t2)
	}
}
