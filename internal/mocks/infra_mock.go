package mocks

import (
	"context"
	"io"

	"dev-event-hub/internal/model"
	"dev-event-hub/internal/notify"
	"dev-event-hub/internal/queue"

	"github.com/stretchr/testify/mock"
)

type EventCacheMock struct {
	mock.Mock
}

func NewEventCacheMock() *EventCacheMock {
	return &EventCacheMock{}
}

func (m *EventCacheMock) Get(ctx context.Context, slug string) (*model.Event, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *EventCacheMock) Set(ctx context.Context, event *model.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *EventCacheMock) Invalidate(ctx context.Context, slugs ...string) error {
	args := m.Called(ctx, slugs)
	return args.Error(0)
}

type ImageUploaderMock struct {
	mock.Mock
}

func NewImageUploaderMock() *ImageUploaderMock {
	return &ImageUploaderMock{}
}

func (m *ImageUploaderMock) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	args := m.Called(ctx, filename, r)
	return args.String(0), args.Error(1)
}

type BookingQueueMock struct {
	mock.Mock
}

func NewBookingQueueMock() *BookingQueueMock {
	return &BookingQueueMock{}
}

func (m *BookingQueueMock) PublishBooking(ctx context.Context, notification *model.BookingNotification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *BookingQueueMock) SubscribeBookings(ctx context.Context) (<-chan queue.Delivery, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan queue.Delivery), args.Error(1)
}

type MailerMock struct {
	mock.Mock
}

func NewMailerMock() *MailerMock {
	return &MailerMock{}
}

func (m *MailerMock) Send(ctx context.Context, msg notify.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
