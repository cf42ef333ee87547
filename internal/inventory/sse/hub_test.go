package sse

import (
	"encoding/json"
	"testing"
)

func TestBroadcastAndUnregister(t *testing.T) {
	hub := NewHub(nil)
	a := &Client{ID: "a", UserID: "u1", Events: make(chan Event, 4)}
	b := &Client{ID: "b", UserID: "u2", Events: make(chan Event, 4)}
	hub.Register(a)
	hub.Register(b)

	hub.PublishStockUpdate("mat-1", 15, "in-stock")

	for _, c := range []*Client{a, b} {
		ev := <-c.Events
		if ev.EventType != EventStockUpdate {
			t.Fatalf("expected stock_update, got %s", ev.EventType)
		}
		var payload map[string]interface{}
		if err := json.Unmarshal([]byte(ev.Data), &payload); err != nil {
			t.Fatalf("bad payload: %v", err)
		}
		if payload["materialId"] != "mat-1" || payload["newStock"].(float64) != 15 {
			t.Fatalf("unexpected payload %v", payload)
		}
	}

	hub.Unregister("a")
	if hub.ClientCount() != 1 {
		t.Fatalf("expected 1 client, got %d", hub.ClientCount())
	}
	if _, ok := <-a.Events; ok {
		t.Fatal("expected channel closed after unregister")
	}
}

func TestSendToUserOnlyReachesTarget(t *testing.T) {
	hub := NewHub(nil)
	a := &Client{ID: "a", UserID: "u1", Events: make(chan Event, 1)}
	b := &Client{ID: "b", UserID: "u2", Events: make(chan Event, 1)}
	hub.Register(a)
	hub.Register(b)

	hub.PublishManagerNote("u2", "note-9")

	select {
	case ev := <-b.Events:
		if ev.EventType != EventManagerNote {
			t.Fatalf("expected manager_note, got %s", ev.EventType)
		}
	default:
		t.Fatal("target did not receive event")
	}
	select {
	case ev := <-a.Events:
		t.Fatalf("non-target received %v", ev)
	default:
	}
}

func TestBroadcastSkipsFullBuffers(t *testing.T) {
	hub := NewHub(nil)
	c := &Client{ID: "slow", Events: make(chan Event, 1)}
	hub.Register(c)

	hub.PublishLowStockDigest(3)
	hub.PublishLowStockDigest(4) // dropped

	if len(c.Events) != 1 {
		t.Fatalf("expected 1 buffered event, got %d", len(c.Events))
	}
}
