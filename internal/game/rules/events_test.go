package rules

import (
	"testing"
	"time"
)

func TestEventBusSubscribeTyped(t *testing.T) {
	bus := NewEventBus()

	var got []Event
	bus.SubscribeTyped(EventDragonSummoned, func(evt Event) {
		got = append(got, evt)
	})

	bus.Publish(NewTerrainEvent(EventDragonSummoned, "Alice", "Highland", "id-1"))
	bus.Publish(NewEvent(EventPoolChanged, "Alice"))

	if len(got) != 1 {
		t.Fatalf("expected 1 typed delivery, got %d", len(got))
	}
	if got[0].Terrain != "Highland" || got[0].TargetID != "id-1" {
		t.Errorf("unexpected event fields: %+v", got[0])
	}
}

func TestEventBusSubscribeAll(t *testing.T) {
	bus := NewEventBus()

	count := 0
	bus.Subscribe(func(Event) { count++ })

	bus.Publish(NewEvent(EventPoolChanged, "Alice"))
	bus.Publish(NewEvent(EventTurnChanged, ""))

	if count != 2 {
		t.Errorf("expected 2 deliveries, got %d", count)
	}
}

func TestEventBusUnsubscribe(t *testing.T) {
	bus := NewEventBus()

	allCount := 0
	typedCount := 0
	allHandle := bus.Subscribe(func(Event) { allCount++ })
	typedHandle := bus.SubscribeTyped(EventPoolChanged, func(Event) { typedCount++ })

	bus.Publish(NewEvent(EventPoolChanged, "Alice"))
	bus.Unsubscribe(allHandle)
	bus.Unsubscribe(typedHandle)
	bus.Publish(NewEvent(EventPoolChanged, "Alice"))

	if allCount != 1 {
		t.Errorf("expected 1 delivery after unsubscribe, got %d", allCount)
	}
	if typedCount != 1 {
		t.Errorf("expected 1 typed delivery after unsubscribe, got %d", typedCount)
	}
}

func TestEventBusNilListener(t *testing.T) {
	bus := NewEventBus()
	if handle := bus.Subscribe(nil); handle != -1 {
		t.Errorf("expected -1 handle for nil listener, got %d", handle)
	}
	if handle := bus.SubscribeTyped(EventPoolChanged, nil); handle != -1 {
		t.Errorf("expected -1 handle for nil typed listener, got %d", handle)
	}
}

func TestEventBusTimestampAssigned(t *testing.T) {
	bus := NewEventBus()

	var got Event
	bus.Subscribe(func(evt Event) { got = evt })

	bus.Publish(Event{Type: EventStateUpdated})
	if got.Timestamp.IsZero() {
		t.Error("expected publish to assign a timestamp")
	}

	stamp := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	bus.Publish(Event{Type: EventStateUpdated, Timestamp: stamp})
	if !got.Timestamp.Equal(stamp) {
		t.Error("expected explicit timestamp to be preserved")
	}
}

func TestEventBusPublishBatchOrder(t *testing.T) {
	bus := NewEventBus()

	var order []EventType
	bus.Subscribe(func(evt Event) { order = append(order, evt.Type) })

	bus.PublishBatch([]Event{
		NewEvent(EventPoolChanged, "Alice"),
		NewEvent(EventStateUpdated, ""),
	})

	if len(order) != 2 || order[0] != EventPoolChanged || order[1] != EventStateUpdated {
		t.Errorf("unexpected delivery order: %v", order)
	}
}
