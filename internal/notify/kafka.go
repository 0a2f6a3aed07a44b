package notify

import (
	"context"

	"github.com/mbarhoumi/agil-backoffice/internal/domain"
	"github.com/mbarhoumi/agil-backoffice/internal/messaging/kafka"
)

// KafkaNotifier publishes order announcements to the order events topic.
type KafkaNotifier struct {
	producer *kafka.Producer
}

// NewKafkaNotifier wraps an existing producer.
func NewKafkaNotifier(producer *kafka.Producer) *KafkaNotifier {
	return &KafkaNotifier{producer: producer}
}

func (n *KafkaNotifier) OrderPlaced(_ context.Context, event domain.OrderPlacedEvent) error {
	ev := kafka.NewOrderEvent(
		kafka.EventTypeOrderPlaced,
		event.OrderID,
		event.Reference,
		event.UserID,
		event.Amount,
		string(event.Status),
	)
	return n.producer.PublishEvent(kafka.TopicOrderEvents, event.OrderID, ev)
}

var _ domain.OrderNotifier = (*KafkaNotifier)(nil)
