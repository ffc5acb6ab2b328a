package notify

import "time"

type EventKind string

const (
	EventNewOrder       EventKind = "new_order"
	EventEmergencyAlert EventKind = "emergency_alert"
	EventOrderUpdate    EventKind = "order_update"
	EventHealthAlert    EventKind = "health_alert"
)

// Event is a best-effort real-time notification. Events are not persisted:
// if nobody is listening, the event is lost.
type Event struct {
	Kind        EventKind `json:"kind"`
	OrderID     string    `json:"order_id,omitempty"`
	Status      string    `json:"status,omitempty"`
	IsEmergency bool      `json:"is_emergency,omitempty"`
	Message     string    `json:"message,omitempty"`
	At          time.Time `json:"at"`
}

// Gateway fans events out to connected listeners, either to everyone or to a
// single actor's channel. Implementations must never block the caller.
type Gateway interface {
	Broadcast(event Event)
	SendTo(actorID string, event Event)
}
