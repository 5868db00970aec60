package server

import (
	"testing"
	"time"
)

func TestHub_SubscribeReceivesHeartbeat(t *testing.T) {
	h := NewHub(10, func() int { return 3 })
	h.Start()
	defer h.Stop()

	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	select {
	case e := <-ch:
		if e.Type != "heartbeat" {
			t.Errorf("event type = %q, want \"heartbeat\"", e.Type)
		}
		if e.Devices != 3 {
			t.Errorf("devices = %d, want 3", e.Devices)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no heartbeat received")
	}
}

func TestHub_PublishDelivers(t *testing.T) {
	h := NewHub(60000, nil) // heartbeat far away; only the published event arrives
	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	h.Publish(Event{Type: "paired", Message: "iPhone"})

	select {
	case e := <-ch:
		if e.Type != "paired" || e.Message != "iPhone" {
			t.Errorf("got %+v, want paired/iPhone", e)
		}
		if e.Time.IsZero() {
			t.Error("Publish should stamp a time")
		}
	case <-time.After(time.Second):
		t.Fatal("published event not delivered")
	}
}

func TestHub_UnsubscribeClosesChannel(t *testing.T) {
	h := NewHub(60000, nil)
	ch := h.Subscribe()
	h.Unsubscribe(ch)

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected closed channel after Unsubscribe")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed")
	}
}

func TestHub_Snapshot(t *testing.T) {
	h := NewHub(60000, func() int { return 1 })

	e := h.Snapshot()
	if e.Type != "snapshot" {
		t.Errorf("type = %q, want \"snapshot\"", e.Type)
	}
	if e.Devices != 1 {
		t.Errorf("devices = %d, want 1", e.Devices)
	}
	if e.Uptime == "" {
		t.Error("uptime should be set")
	}
}
