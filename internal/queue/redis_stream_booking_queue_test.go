package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"dev-event-hub/internal/model"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStreamQueue(t *testing.T) (*RedisStreamBookingQueueImpl, redismock.ClientMock) {
	t.Helper()
	db, mock := redismock.NewClientMock()
	mock.ExpectXGroupCreateMkStream(StreamKey, ConsumerGroupName, "0").
		SetErr(errors.New("BUSYGROUP Consumer Group name already exists"))

	q, err := NewRedisStreamBookingQueue(context.Background(), db, "test", &RedisStreamBookingQueueConfig{MaxRetryCount: 3})
	require.NoError(t, err)
	return q.(*RedisStreamBookingQueueImpl), mock
}

func TestNewRedisStreamBookingQueue(t *testing.T) {
	t.Run("Existing group is reused", func(t *testing.T) {
		q, mock := newTestStreamQueue(t)

		assert.Equal(t, "worker:test", q.consumer)
		assert.Equal(t, 3, q.cfg.MaxRetryCount)
		assert.Equal(t, 5*time.Second, q.cfg.ClaimMinIdleTime)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failed", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		mock.ExpectXGroupCreateMkStream(StreamKey, ConsumerGroupName, "0").SetErr(errors.New("connection refused"))

		_, err := NewRedisStreamBookingQueue(context.Background(), db, "test", nil)

		assert.ErrorContains(t, err, "connection refused")
	})
}

func TestRedisStreamBookingQueue_PublishBooking(t *testing.T) {
	q, mock := newTestStreamQueue(t)
	n := &model.BookingNotification{BookingID: uuid.New(), EventSlug: "go-meetup", Email: "user@example.com"}
	payload, err := json.Marshal(n)
	require.NoError(t, err)

	mock.ExpectXAdd(&redis.XAddArgs{
		Stream: StreamKey,
		ID:     "*",
		Values: map[string]interface{}{payloadField: string(payload)},
	}).SetVal("1-0")

	assert.NoError(t, q.PublishBooking(context.Background(), n))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStreamBookingQueue_SubscribeBookings(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q, mock := newTestStreamQueue(t)
	n := model.BookingNotification{BookingID: uuid.New(), Email: "user@example.com"}
	payload, err := json.Marshal(n)
	require.NoError(t, err)

	mock.ExpectXReadGroup(&redis.XReadGroupArgs{
		Group:    ConsumerGroupName,
		Consumer: "worker:test",
		Streams:  []string{StreamKey, ">"},
		Count:    batchSize,
		Block:    2 * time.Second,
	}).SetVal([]redis.XStream{{
		Stream:   StreamKey,
		Messages: []redis.XMessage{{ID: "1-0", Values: map[string]interface{}{payloadField: string(payload)}}},
	}})

	deliveries, err := q.SubscribeBookings(ctx)
	require.NoError(t, err)

	select {
	case d := <-deliveries:
		assert.Equal(t, n, *d.Data)
		assert.Equal(t, 1, d.Attempt)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for delivery")
	}
}

func TestRedisStreamBookingQueue_Decode(t *testing.T) {
	ctx := context.Background()

	t.Run("Ack", func(t *testing.T) {
		q, mock := newTestStreamQueue(t)
		n := model.BookingNotification{BookingID: uuid.New(), Email: "user@example.com"}
		payload, err := json.Marshal(n)
		require.NoError(t, err)

		d, ok := q.decode(ctx, redis.XMessage{ID: "1-0", Values: map[string]interface{}{payloadField: string(payload)}}, 2)

		require.True(t, ok)
		assert.Equal(t, n, *d.Data)
		assert.Equal(t, 2, d.Attempt)

		mock.ExpectXAck(StreamKey, ConsumerGroupName, "1-0").SetVal(1)
		d.Ack()
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Nack with requeue keeps the message pending", func(t *testing.T) {
		q, mock := newTestStreamQueue(t)
		payload, _ := json.Marshal(model.BookingNotification{})

		d, ok := q.decode(ctx, redis.XMessage{ID: "1-0", Values: map[string]interface{}{payloadField: string(payload)}}, 1)
		require.True(t, ok)
		d.Nack(true)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Malformed message is acked and dropped", func(t *testing.T) {
		q, mock := newTestStreamQueue(t)
		mock.ExpectXAck(StreamKey, ConsumerGroupName, "2-0").SetVal(1)

		_, ok := q.decode(ctx, redis.XMessage{ID: "2-0", Values: map[string]interface{}{payloadField: "{broken"}}, 1)

		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Nack without requeue acks", func(t *testing.T) {
		q, mock := newTestStreamQueue(t)
		payload, _ := json.Marshal(model.BookingNotification{})
		mock.ExpectXAck(StreamKey, ConsumerGroupName, "3-0").SetVal(1)

		d, ok := q.decode(ctx, redis.XMessage{ID: "3-0", Values: map[string]interface{}{payloadField: string(payload)}}, 1)
		require.True(t, ok)
		d.Nack(false)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisStreamBookingQueue_ClaimedAttempt(t *testing.T) {
	ctx := context.Background()
	pendingArgs := &redis.XPendingExtArgs{
		Stream: StreamKey,
		Group:  ConsumerGroupName,
		Start:  "1-0",
		End:    "1-0",
		Count:  1,
	}

	t.Run("Last allowed attempt", func(t *testing.T) {
		q, mock := newTestStreamQueue(t)
		mock.ExpectXPendingExt(pendingArgs).SetVal([]redis.XPendingExt{{ID: "1-0", RetryCount: 3}})

		attempt, ok := q.claimedAttempt(ctx, "1-0")

		assert.True(t, ok)
		assert.Equal(t, 3, attempt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Retries exhausted", func(t *testing.T) {
		q, mock := newTestStreamQueue(t)
		mock.ExpectXPendingExt(pendingArgs).SetVal([]redis.XPendingExt{{ID: "1-0", RetryCount: 4}})
		mock.ExpectXAck(StreamKey, ConsumerGroupName, "1-0").SetVal(1)

		_, ok := q.claimedAttempt(ctx, "1-0")

		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Pending lookup failure still delivers", func(t *testing.T) {
		q, mock := newTestStreamQueue(t)
		mock.ExpectXPendingExt(pendingArgs).SetErr(errors.New("timeout"))

		attempt, ok := q.claimedAttempt(ctx, "1-0")

		assert.True(t, ok)
		assert.Equal(t, 1, attempt)
	})
}
