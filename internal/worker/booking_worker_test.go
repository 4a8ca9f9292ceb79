package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"dev-event-hub/internal/mocks"
	"dev-event-hub/internal/model"
	"dev-event-hub/internal/queue"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBookingWorker_SendsConfirmation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	q := queue.NewBookingQueue(10, nil)
	svc := mocks.NewBookingServiceMock()

	called := make(chan *model.BookingNotification, 1)
	svc.On("SendConfirmation", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { called <- args.Get(1).(*model.BookingNotification) }).
		Return(nil).Once()

	require.NoError(t, NewBookingWorker(svc, q).Start(ctx))

	n := &model.BookingNotification{BookingID: uuid.New(), Email: "user@example.com"}
	require.NoError(t, q.PublishBooking(ctx, n))

	select {
	case got := <-called:
		assert.Equal(t, n.BookingID, got.BookingID)
	case <-time.After(time.Second):
		t.Fatal("worker did not process the booking in time")
	}
}

func TestBookingWorker_RetriesOnFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	q := queue.NewBookingQueue(10, &queue.MemoryBookingQueueConfig{RetryBackoff: 10 * time.Millisecond})
	svc := mocks.NewBookingServiceMock()

	done := make(chan struct{})
	svc.On("SendConfirmation", mock.Anything, mock.Anything).Return(errors.New("throttled")).Once()
	svc.On("SendConfirmation", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { close(done) }).
		Return(nil).Once()

	require.NoError(t, NewBookingWorker(svc, q).Start(ctx))
	require.NoError(t, q.PublishBooking(ctx, &model.BookingNotification{BookingID: uuid.New()}))

	select {
	case <-done:
		svc.AssertNumberOfCalls(t, "SendConfirmation", 2)
	case <-time.After(time.Second):
		t.Fatal("failed booking notification was not retried")
	}
}

func TestBookingWorker_StopsRetryingAtLimit(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	q := queue.NewBookingQueue(10, &queue.MemoryBookingQueueConfig{
		MaxRetryCount: 3,
		RetryBackoff:  time.Millisecond,
	})
	svc := mocks.NewBookingServiceMock()
	svc.On("SendConfirmation", mock.Anything, mock.Anything).Return(errors.New("mailbox unavailable"))

	require.NoError(t, NewBookingWorker(svc, q).Start(ctx))
	require.NoError(t, q.PublishBooking(ctx, &model.BookingNotification{BookingID: uuid.New()}))

	// 退避 1ms、2ms 之後就該放棄
	time.Sleep(200 * time.Millisecond)

	svc.AssertNumberOfCalls(t, "SendConfirmation", 3)
}

func TestBookingWorker_SubscribeError(t *testing.T) {
	q := mocks.NewBookingQueueMock()
	q.On("SubscribeBookings", mock.Anything).Return(nil, errors.New("redis down")).Once()

	err := NewBookingWorker(mocks.NewBookingServiceMock(), q).Start(context.Background())

	assert.EqualError(t, err, "redis down")
}
