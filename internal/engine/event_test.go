package engine

import "testing"

func TestNewEventQueue(t *testing.T) {
	eq := NewEventQueue()
	if eq == nil {
		t.Fatal("NewEventQueue returned nil")
	}
	if !eq.IsEmpty() {
		t.Error("New event queue should be empty")
	}
}

func TestEventQueueOrdering(t *testing.T) {
	eq := NewEventQueue()

	eq.Schedule(&Event{Type: "b", Time: 2})
	eq.Schedule(&Event{Type: "c", Time: 0.5})
	eq.Schedule(&Event{Type: "a", Time: 1})
	eq.Schedule(&Event{Type: "urgent", Time: 1, Priority: -1})
	eq.Schedule(&Event{Type: "a2", Time: 1})

	if eq.Size() != 5 {
		t.Fatalf("Expected queue size 5, got %d", eq.Size())
	}
	want := []EventType{"c", "urgent", "a", "a2", "b"}
	for i, w := range want {
		got := eq.Next()
		if got == nil || got.Type != w {
			t.Fatalf("event %d: expected %s, got %v", i, w, got)
		}
	}
	if eq.Next() != nil {
		t.Error("Expected nil from empty queue")
	}
}

func TestEventQueueClear(t *testing.T) {
	eq := NewEventQueue()
	eq.Schedule(&Event{Type: "a", Time: 1})
	eq.Clear()
	if !eq.IsEmpty() {
		t.Error("Expected empty queue after Clear")
	}
	if eq.Next() != nil {
		t.Error("Expected nil from cleared queue")
	}
}
