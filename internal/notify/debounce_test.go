package notify

import (
	"testing"
	"time"
)

func TestDebounceOpensWindowOnAccept(t *testing.T) {
	d := NewDebounce(60 * time.Millisecond)

	if !d.Allow() {
		t.Fatal("first event should be accepted")
	}
	if d.Allow() {
		t.Fatal("event inside the cooldown window should be ignored")
	}

	time.Sleep(80 * time.Millisecond)
	if !d.Allow() {
		t.Fatal("event after the window should be accepted again")
	}
}

func TestDebounceTripClosesGateBeforeEcho(t *testing.T) {
	d := NewDebounce(60 * time.Millisecond)

	d.Trip()
	if d.Allow() {
		t.Fatal("echoed signal right after Trip should be ignored")
	}

	// Tripping an already-closed gate is a no-op, not an error.
	d.Trip()
	d.Trip()

	time.Sleep(80 * time.Millisecond)
	if !d.Allow() {
		t.Fatal("gate should reopen after the window")
	}
}
