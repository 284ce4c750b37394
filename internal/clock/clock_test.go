package clock

import (
	"testing"
	"time"
)

func TestRealClock_NowAndSince(t *testing.T) {
	clk := RealClock{}
	before := time.Now()
	now := clk.Now()
	if now.Before(before) || now.After(time.Now()) {
		t.Errorf("RealClock.Now returned unexpected time: %v", now)
	}
	if clk.Since(before) < 0 {
		t.Error("RealClock.Since went backwards")
	}
}

func TestRealClock_NewTicker(t *testing.T) {
	clk := RealClock{}
	ticker := clk.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	select {
	case <-ticker.C():
		// ok
	case <-time.After(100 * time.Millisecond):
		t.Error("RealClock.NewTicker.C did not fire within expected time")
	}
}

func TestMockClock_AdvanceFiresTickers(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clk := NewMockClock(start)
	ticker := clk.NewTicker(time.Second)

	clk.Advance(500 * time.Millisecond)
	select {
	case <-ticker.C():
		t.Fatal("ticker fired before its period elapsed")
	default:
	}

	clk.Advance(2 * time.Second)
	for i := 0; i < 2; i++ {
		select {
		case <-ticker.C():
		default:
			t.Fatalf("expected tick %d", i+1)
		}
	}

	ticker.Stop()
	clk.Advance(5 * time.Second)
	select {
	case <-ticker.C():
		t.Fatal("stopped ticker fired")
	default:
	}
}

func TestMockClock_AutoAdvance(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clk := NewMockClock(start)
	clk.AutoAdvance(time.Millisecond)

	t0 := clk.Now()
	if !t0.Equal(start) {
		t.Fatalf("first Now = %v, want %v", t0, start)
	}
	if got := clk.Since(t0); got != time.Millisecond {
		t.Fatalf("Since = %v, want 1ms", got)
	}
}
