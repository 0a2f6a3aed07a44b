package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/mbarhoumi/agil-backoffice/internal/domain"
)

// orderChannel is the Redis pub/sub channel carrying new order announcements
// between instances.
const orderChannel = "agil:orders:new"

// RedisNotifier publishes order events to the shared pub/sub channel so
// stream subscribers connected to other instances see them too.
type RedisNotifier struct {
	client *redis.Client
}

// NewRedisNotifier wraps an existing client.
func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client}
}

func (n *RedisNotifier) OrderPlaced(ctx context.Context, event domain.OrderPlacedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}
	if err := n.client.Publish(ctx, orderChannel, payload).Err(); err != nil {
		return fmt.Errorf("publish order event: %w", err)
	}
	return nil
}

// RunBridge relays events from the Redis channel into the local hub until
// ctx is done. Malformed payloads are logged and skipped.
func RunBridge(ctx context.Context, client *redis.Client, hub *Hub, logger *log.Entry) {
	if logger == nil {
		logger = log.WithField("component", "notify-redis-bridge")
	}

	sub := client.Subscribe(ctx, orderChannel)
	defer func() { _ = sub.Close() }()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event domain.OrderPlacedEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				logger.WithError(err).Warn("malformed order event on redis channel")
				continue
			}
			_ = hub.OrderPlaced(ctx, event)
		}
	}
}

var _ domain.OrderNotifier = (*RedisNotifier)(nil)
