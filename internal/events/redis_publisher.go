package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisPublisher fans events out to a Redis channel so live dashboards can
// subscribe without polling. Delivery is best effort.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger
}

// NewRedisPublisher constructs the publisher.
func NewRedisPublisher(client *redis.Client, channel string, logger *zap.Logger) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel, logger: logger}
}

// RegisterAll subscribes the publisher to every ticket and alert event type.
func (p *RedisPublisher) RegisterAll(dispatcher Dispatcher) {
	if p == nil || dispatcher == nil {
		return
	}
	for _, eventType := range []EventType{
		EventTicketCreated,
		EventTicketAssigned,
		EventTicketStarted,
		EventTicketCompleted,
		EventTicketClosed,
		EventTicketDeleted,
		EventAlertFired,
	} {
		dispatcher.Subscribe(eventType, p.publish)
	}
}

func (p *RedisPublisher) publish(ctx context.Context, event Event) error {
	if p.client == nil {
		return nil
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := p.client.Publish(ctx, p.channel, body).Err(); err != nil {
		p.logger.Warn("redis event publish failed",
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
	return nil
}
