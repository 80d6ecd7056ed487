package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/592Darkness/ride-dispatch/pkg/redis"
)

// RedisDispatcher publishes notifications to a per-user redis channel that
// client-facing gateways subscribe to
type RedisDispatcher struct {
	client *redis.Client
}

// NewRedisDispatcher creates a redis-backed dispatcher
func NewRedisDispatcher(client *redis.Client) *RedisDispatcher {
	return &RedisDispatcher{client: client}
}

// Dispatch publishes the notification payload
func (d *RedisDispatcher) Dispatch(ctx context.Context, notification *Notification) error {
	body, err := json.Marshal(notification)
	if err != nil {
		return err
	}
	channel := fmt.Sprintf("user:%s:events", notification.UserID)
	return d.client.Publish(ctx, channel, body).Err()
}
