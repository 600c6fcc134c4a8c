package payments

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	eventKeyPrefix  = "stripe:event:" // Processed webhook events: stripe:event:{event_id}
	defaultEventTTL = 72 * time.Hour  // Longer than the provider's retry window
)

// EventDedupe remembers processed webhook event ids so re-deliveries can be
// acknowledged without reprocessing. A nil dedupe is valid and never
// deduplicates; the paid transition itself is a no-op on repeat, so Redis is
// an optimization, not a correctness requirement.
type EventDedupe struct {
	client *redis.Client
	ttl    time.Duration
}

func NewEventDedupe(client *redis.Client) *EventDedupe {
	return &EventDedupe{client: client, ttl: defaultEventTTL}
}

// Seen marks the event id as processed and reports whether it had been
// processed before. Errors degrade to "not seen" so a Redis outage never
// blocks reconciliation.
func (d *EventDedupe) Seen(ctx context.Context, eventID string) bool {
	if d == nil || d.client == nil || eventID == "" {
		return false
	}

	ok, err := d.client.SetNX(ctx, eventKeyPrefix+eventID, 1, d.ttl).Result()
	if err != nil {
		return false
	}
	return !ok
}
