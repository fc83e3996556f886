package ecs

type EventType string

const (
	// EventTargetHit carries the damage dealt as a float32.
	EventTargetHit    EventType = "target_hit"
	EventTargetKilled EventType = "target_killed"
	// EventPlatformLeft carries the platform velocity as an mgl32.Vec3.
	EventPlatformLeft EventType = "platform_left"
	EventRespawned    EventType = "respawned"
	// EventPickupCollected carries the component.PickupEffect applied.
	EventPickupCollected EventType = "pickup_collected"
)

// Event is a world event. Entity is the subject, Data an optional payload.
type Event struct {
	Type   EventType
	Entity Entity
	Data   any
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
