package payments_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelify-app/modelify-backend/internal/payments"
)

func TestEventDedupe_Seen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	dedupe := payments.NewEventDedupe(client)
	ctx := context.Background()

	t.Run("first delivery is not seen", func(t *testing.T) {
		assert.False(t, dedupe.Seen(ctx, "evt_1"))
	})

	t.Run("re-delivery is seen", func(t *testing.T) {
		assert.True(t, dedupe.Seen(ctx, "evt_1"))
	})

	t.Run("distinct events do not collide", func(t *testing.T) {
		assert.False(t, dedupe.Seen(ctx, "evt_2"))
	})

	t.Run("marker expires after the retry window", func(t *testing.T) {
		require.False(t, dedupe.Seen(ctx, "evt_3"))
		mr.FastForward(73 * time.Hour)
		assert.False(t, dedupe.Seen(ctx, "evt_3"))
	})

	t.Run("empty event id is never deduplicated", func(t *testing.T) {
		assert.False(t, dedupe.Seen(ctx, ""))
		assert.False(t, dedupe.Seen(ctx, ""))
	})
}

func TestEventDedupe_Nil(t *testing.T) {
	t.Run("a nil dedupe never reports seen", func(t *testing.T) {
		var dedupe *payments.EventDedupe
		assert.False(t, dedupe.Seen(context.Background(), "evt_1"))
		assert.False(t, dedupe.Seen(context.Background(), "evt_1"))
	})

	t.Run("a redis outage degrades to not seen", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		dedupe := payments.NewEventDedupe(client)
		mr.Close()

		assert.False(t, dedupe.Seen(context.Background(), "evt_1"))
	})
}
