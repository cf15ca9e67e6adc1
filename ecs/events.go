package ecs

// EventType names an event payload.
type EventType string

const (
	// EventCollisionStarted carries a CollisionStarted payload.
	EventCollisionStarted EventType = "collision_started"
)

// Event is a generic ECS event payload.
type Event struct {
	Type EventType
	Data any
}

// CollisionStarted is published once when two shapes begin touching.
// X and Y are the contact point in simulation meters; Impulse is the solver's
// total normal impulse for the first contact step, zero when the pair was
// reported before solving (sensors and most static pairs).
type CollisionStarted struct {
	A       Entity
	B       Entity
	X       float64
	Y       float64
	Impulse float64
}

// Other returns the participant that is not e.
func (c CollisionStarted) Other(e Entity) Entity {
	if c.A == e {
		return c.B
	}
	return c.A
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

// Len reports the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
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

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
