package redisbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mcules/gpu-scheduler/internal/events"
)

const channelPrefix = "gpusched:events:"

// Bus mirrors scheduler events across processes over Redis pub/sub. Local
// subscribers are dispatched synchronously on publish; the Run loop feeds
// them events published by other schedulers, skipping our own echoes.
type Bus struct {
	rdb    *redis.Client
	local  *events.InProcBus
	origin string
}

// envelope tags each wire event with the publishing process so the
// subscription loop can drop its own messages.
type envelope struct {
	Origin string       `json:"origin"`
	Event  events.Event `json:"event"`
}

func New(rdb *redis.Client) *Bus {
	return &Bus{
		rdb:    rdb,
		local:  events.NewInProcBus(),
		origin: uuid.NewString(),
	}
}

func (b *Bus) Subscribe(t events.Type, h events.Handler) {
	b.local.Subscribe(t, h)
}

func (b *Bus) Publish(ctx context.Context, ev events.Event) error {
	if err := b.local.Publish(ctx, ev); err != nil {
		return err
	}

	data, err := json.Marshal(envelope{Origin: b.origin, Event: ev})
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", ev.Type, err)
	}
	if err := b.rdb.Publish(ctx, channelPrefix+string(ev.Type), data).Err(); err != nil {
		return fmt.Errorf("publish event %s: %w", ev.Type, err)
	}
	return nil
}

// Run consumes events from other schedulers until the context is cancelled.
func (b *Bus) Run(ctx context.Context) error {
	sub := b.rdb.PSubscribe(ctx, channelPrefix+"*")
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			b.dispatch(ctx, m.Payload)
		}
	}
}

func (b *Bus) dispatch(ctx context.Context, payload string) {
	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		log.Printf("redisbus: drop malformed event: %v", err)
		return
	}
	if env.Origin == b.origin {
		return
	}
	if err := b.local.Publish(ctx, env.Event); err != nil {
		log.Printf("redisbus: dispatch %s err=%v", env.Event.Type, err)
	}
}
