package rules

import (
	"sync"
	"time"
)

// EventType indicates the category of a game state change.
type EventType string

const (
	// Pool events, scoped to a player.
	EventPoolChanged        EventType = "POOL_CHANGED"
	EventTerrainPoolChanged EventType = "TERRAIN_POOL_CHANGED"

	// Dragon placement events.
	EventDragonSummoned EventType = "DRAGON_SUMMONED"
	EventDragonReturned EventType = "DRAGON_RETURNED"
	EventDragonKilled   EventType = "DRAGON_KILLED"

	// Minor terrain events.
	EventMinorTerrainPlaced    EventType = "MINOR_TERRAIN_PLACED"
	EventMinorTerrainBuried    EventType = "MINOR_TERRAIN_BURIED"
	EventMinorTerrainStored    EventType = "MINOR_TERRAIN_STORED"
	EventMinorTerrainRetrieved EventType = "MINOR_TERRAIN_RETRIEVED"
	EventMinorTerrainFaceSet   EventType = "MINOR_TERRAIN_FACE_SET"

	// Turn/phase events, scoped to a field.
	EventTurnChanged      EventType = "TURN_CHANGED"
	EventPlayerChanged    EventType = "PLAYER_CHANGED"
	EventPhaseChanged     EventType = "PHASE_CHANGED"
	EventMarchStepChanged EventType = "MARCH_STEP_CHANGED"

	// Coarse refresh signal for consumers that redraw everything.
	EventStateUpdated EventType = "STATE_UPDATED"

	// Persistence events.
	EventGameSaved  EventType = "GAME_SAVED"
	EventGameLoaded EventType = "GAME_LOADED"
)

// Event represents a state change that other subsystems may react to.
type Event struct {
	Type      EventType
	Player    string // Player the event is scoped to, if any
	Terrain   string // Terrain the event is scoped to, if any
	TargetID  string // ID of the piece involved, if any
	Amount    int    // Numeric value (turn number, face index, damage)
	Data      string // Additional string data
	Timestamp time.Time
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

// TypedListener defines a callback that reacts to a specific event type.
type TypedListener struct {
	Handle    int
	EventType EventType
	Callback  func(Event)
}

// EventBus provides a synchronous publish/subscribe implementation with type
// filtering. Delivery happens on the publishing goroutine; a listener that
// re-enters a manager must not do so while holding that manager's lock.
type EventBus struct {
	mu             sync.RWMutex
	listeners      map[int]Listener
	typedListeners map[EventType][]TypedListener
	nextHandle     int
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus() *EventBus {
	return &EventBus{
		listeners:      make(map[int]Listener),
		typedListeners: make(map[EventType][]TypedListener),
	}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners[handle] = listener
	return handle
}

// SubscribeTyped registers a listener for a specific event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, callback func(Event)) int {
	if callback == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.typedListeners[eventType] = append(bus.typedListeners[eventType], TypedListener{
		Handle:    handle,
		EventType: eventType,
		Callback:  callback,
	})
	return handle
}

// Unsubscribe removes the listener identified by the provided handle,
// whether it was registered for all events or for a single type.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	delete(bus.listeners, handle)
	for eventType, listeners := range bus.typedListeners {
		for i := len(listeners) - 1; i >= 0; i-- {
			if listeners[i].Handle == handle {
				bus.typedListeners[eventType] = append(listeners[:i], listeners[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers the event to all registered listeners synchronously.
func (bus *EventBus) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	bus.mu.RLock()
	defer bus.mu.RUnlock()

	for _, listener := range bus.listeners {
		listener(event)
	}
	if typedListeners, ok := bus.typedListeners[event.Type]; ok {
		for _, listener := range typedListeners {
			listener.Callback(event)
		}
	}
}

// PublishBatch publishes multiple events in order.
func (bus *EventBus) PublishBatch(events []Event) {
	for _, event := range events {
		bus.Publish(event)
	}
}

// NewEvent creates a new event with common fields populated.
func NewEvent(eventType EventType, player string) Event {
	return Event{
		Type:      eventType,
		Player:    player,
		Timestamp: time.Now(),
	}
}

// NewTerrainEvent creates a new event scoped to a terrain and piece.
func NewTerrainEvent(eventType EventType, player, terrain, targetID string) Event {
	evt := NewEvent(eventType, player)
	evt.Terrain = terrain
	evt.TargetID = targetID
	return evt
}

// NewAmountEvent creates a new event carrying a numeric value.
func NewAmountEvent(eventType EventType, player string, amount int) Event {
	evt := NewEvent(eventType, player)
	evt.Amount = amount
	return evt
}
