package queue

import (
	"context"
	"testing"
	"time"

	"dev-event-hub/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, deliveries <-chan Delivery) Delivery {
	t.Helper()
	select {
	case d, ok := <-deliveries:
		require.True(t, ok, "delivery channel closed")
		return d
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for delivery")
		return Delivery{}
	}
}

func expectNoDelivery(t *testing.T, deliveries <-chan Delivery, wait time.Duration) {
	t.Helper()
	select {
	case d := <-deliveries:
		t.Fatalf("unexpected delivery: attempt %d", d.Attempt)
	case <-time.After(wait):
	}
}

func TestBookingQueue_PublishSubscribe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewBookingQueue(10, nil)
	deliveries, err := q.SubscribeBookings(ctx)
	require.NoError(t, err)

	n := &model.BookingNotification{BookingID: uuid.New(), Email: "user@example.com"}
	require.NoError(t, q.PublishBooking(ctx, n))

	d := receive(t, deliveries)
	assert.Equal(t, n, d.Data)
	assert.Equal(t, 1, d.Attempt)
	d.Ack()
}

func TestBookingQueue_NackRequeue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewBookingQueue(10, &MemoryBookingQueueConfig{RetryBackoff: 10 * time.Millisecond})
	deliveries, err := q.SubscribeBookings(ctx)
	require.NoError(t, err)

	n := &model.BookingNotification{BookingID: uuid.New()}
	require.NoError(t, q.PublishBooking(ctx, n))

	first := receive(t, deliveries)
	first.Nack(true)

	// 延遲後再次收到同一筆，投遞次數加一
	second := receive(t, deliveries)
	assert.Equal(t, n.BookingID, second.Data.BookingID)
	assert.Equal(t, 2, second.Attempt)
	second.Nack(false)

	expectNoDelivery(t, deliveries, 100*time.Millisecond)
}

func TestBookingQueue_RequeueIsDelayed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewBookingQueue(10, &MemoryBookingQueueConfig{RetryBackoff: 200 * time.Millisecond})
	deliveries, err := q.SubscribeBookings(ctx)
	require.NoError(t, err)
	require.NoError(t, q.PublishBooking(ctx, &model.BookingNotification{BookingID: uuid.New()}))

	receive(t, deliveries).Nack(true)

	expectNoDelivery(t, deliveries, 50*time.Millisecond)
	assert.Equal(t, 2, receive(t, deliveries).Attempt)
}

func TestBookingQueue_RetriesExhausted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewBookingQueue(10, &MemoryBookingQueueConfig{MaxRetryCount: 3, RetryBackoff: time.Millisecond})
	deliveries, err := q.SubscribeBookings(ctx)
	require.NoError(t, err)
	require.NoError(t, q.PublishBooking(ctx, &model.BookingNotification{BookingID: uuid.New()}))

	for attempt := 1; attempt <= 3; attempt++ {
		d := receive(t, deliveries)
		assert.Equal(t, attempt, d.Attempt)
		d.Nack(true)
	}

	expectNoDelivery(t, deliveries, 100*time.Millisecond)
}

func TestBookingQueue_PublishHonoursContext(t *testing.T) {
	q := NewBookingQueue(0, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := q.PublishBooking(ctx, &model.BookingNotification{})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestBookingQueue_SubscribeClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	q := NewBookingQueue(1, nil)
	deliveries, err := q.SubscribeBookings(ctx)
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-deliveries:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("delivery channel was not closed")
	}
}
