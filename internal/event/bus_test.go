package event

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusDeliversToAllSubscribers(t *testing.T) {
	bus := NewBus()

	first, unsubFirst := bus.Subscribe("first")
	defer unsubFirst()
	second, unsubSecond := bus.Subscribe("second")
	defer unsubSecond()

	e := New(TypeDisbursementRetried, "disbursements", "42", "7").
		Invalidate("disbursements", "list").
		Invalidate("disbursements", "detail", "42").
		RequirePermission("disbursements:read")
	bus.Publish(e)

	for _, ch := range []<-chan Event{first, second} {
		select {
		case got := <-ch:
			assert.Equal(t, e.ID, got.ID)
			assert.Equal(t, [][]string{{"disbursements", "list"}, {"disbursements", "detail", "42"}}, got.Keys)
			assert.Equal(t, "disbursements:read", got.Permission)
		case <-time.After(time.Second):
			t.Fatal("event not delivered")
		}
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus()
	ch, unsubscribe := bus.Subscribe("test")

	require.Equal(t, 1, bus.Subscribers())
	unsubscribe()
	unsubscribe()

	_, open := <-ch
	require.False(t, open)
	require.Zero(t, bus.Subscribers())

	bus.Publish(New(TypeUserCreated, "users", "1", "1"))
}

func TestPublishDropsWhenSubscriberIsFull(t *testing.T) {
	bus := NewBus()
	ch, unsubscribe := bus.Subscribe("test")
	defer unsubscribe()

	for i := 0; i < 150; i++ {
		bus.Publish(New(TypeGatewayUpdated, "payment-gateways", "1", "1"))
	}

	require.Len(t, ch, 100)
}

func TestBusWithBufferBoundsEachSubscriber(t *testing.T) {
	bus := NewBusWithBuffer(3)
	ch, unsubscribe := bus.Subscribe("small")
	defer unsubscribe()

	for i := 0; i < 5; i++ {
		bus.Publish(New(TypeChannelUpdated, "payment-gateways", "g-1", "1"))
	}

	require.Len(t, ch, 3)
}

func TestLogActivityStopsOnCancel(t *testing.T) {
	bus := NewBus()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		LogActivity(ctx, bus)
		close(done)
	}()

	bus.Publish(New(TypeMerchantCreated, "merchants", "m-1", "9"))
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("activity logger did not stop")
	}
}

func TestConcurrentPublishCountsDrops(t *testing.T) {
	bus := NewBusWithBuffer(1)
	ch, unsubscribe := bus.Subscribe("slow")
	defer unsubscribe()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				bus.Publish(New(TypeDisbursementRetried, "disbursements", "55", "1"))
			}
		}()
	}
	wg.Wait()

	require.Len(t, ch, 1)
	require.Equal(t, int64(8*200-1), bus.Dropped("slow"))
}
