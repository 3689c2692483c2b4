package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInProcBusDispatchesToSubscribers(t *testing.T) {
	ctx := context.Background()
	bus := NewInProcBus()

	var first, second []string
	bus.Subscribe(TypeModelLoaded, func(ctx context.Context, ev Event) {
		first = append(first, ev.ModelLoaded.ModelID)
	})
	bus.Subscribe(TypeModelLoaded, func(ctx context.Context, ev Event) {
		second = append(second, ev.ModelLoaded.ModelID)
	})

	err := bus.Publish(ctx, Event{
		Type:        TypeModelLoaded,
		At:          time.Now(),
		ModelLoaded: &ModelLoaded{ModelID: "m"},
	})
	require.NoError(t, err)

	// Dispatch is synchronous; both handlers ran before Publish returned.
	require.Equal(t, []string{"m"}, first)
	require.Equal(t, []string{"m"}, second)
}

func TestInProcBusIgnoresUnsubscribedTypes(t *testing.T) {
	ctx := context.Background()
	bus := NewInProcBus()

	var calls int
	bus.Subscribe(TypeModelLoaded, func(ctx context.Context, ev Event) { calls++ })

	err := bus.Publish(ctx, Event{Type: TypeModelUnloaded, ModelUnloaded: &ModelUnloaded{ModelID: "m"}})
	require.NoError(t, err)
	require.Zero(t, calls)
}
