package kafka

import "time"

// EventType identifies a back-office event.
type EventType string

const (
	EventTypeOrderPlaced EventType = "order.placed"
)

// Kafka topics.
const (
	TopicOrderEvents = "agil.order.events"
)

// OrderEvent is the wire form of an order announcement.
type OrderEvent struct {
	EventType EventType `json:"event_type"`
	OrderID   string    `json:"order_id"`
	Reference string    `json:"reference"`
	UserID    string    `json:"user_id"`
	Amount    int64     `json:"amount"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// NewOrderEvent builds an OrderEvent stamped with the current time.
func NewOrderEvent(eventType EventType, orderID, reference, userID string, amount int64, status string) *OrderEvent {
	return &OrderEvent{
		EventType: eventType,
		OrderID:   orderID,
		Reference: reference,
		UserID:    userID,
		Amount:    amount,
		Status:    status,
		Timestamp: time.Now(),
	}
}
