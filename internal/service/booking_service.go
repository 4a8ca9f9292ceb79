package service

import (
	"context"
	"errors"
	"fmt"

	"dev-event-hub/internal/model"
	"dev-event-hub/internal/notify"
	"dev-event-hub/internal/queue"
	"dev-event-hub/internal/repository"
	apperrors "dev-event-hub/pkg/app_errors"
	"dev-event-hub/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventLookup 報名時用來確認活動存在；由 EventRepository 實作
type EventLookup interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error)
	FindBySlug(ctx context.Context, slug string) (*model.Event, error)
}

type BookingService interface {
	// 建立報名：檢查 email 與活動存在後寫入，並發送通知到隊列
	Create(ctx context.Context, req model.CreateBookingRequest) (*model.Booking, error)
	CountByEventSlug(ctx context.Context, slug string) (int, error)
	// 寄送報名確認信（由 worker 呼叫）
	SendConfirmation(ctx context.Context, notification *model.BookingNotification) error
}

type BookingServiceImpl struct {
	repo   repository.BookingRepository
	events EventLookup
	queue  queue.BookingQueue
	mailer notify.Mailer
}

func NewBookingService(
	repo repository.BookingRepository,
	events EventLookup,
	bookingQueue queue.BookingQueue,
	mailer notify.Mailer,
) BookingService {
	return &BookingServiceImpl{
		repo:   repo,
		events: events,
		queue:  bookingQueue,
		mailer: mailer,
	}
}

func (s *BookingServiceImpl) Create(ctx context.Context, req model.CreateBookingRequest) (*model.Booking, error) {
	booking := &model.Booking{Email: req.Email}
	if err := booking.Normalize(); err != nil {
		return nil, err
	}

	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed event id %q", apperrors.ErrDanglingReference, req.EventID)
	}

	// 寫入前確認活動存在；不存在則什麼都不寫
	exists, err := s.events.Exists(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrDanglingReference
	}

	booking.ID = uuid.New()
	booking.EventID = eventID

	created, err := s.repo.Create(ctx, booking)
	if err != nil {
		return nil, err
	}

	notification := &model.BookingNotification{
		BookingID: created.ID,
		EventID:   created.EventID,
		EventSlug: req.Slug,
		Email:     created.Email,
	}
	// 通知失敗不影響報名結果
	if err := s.queue.PublishBooking(ctx, notification); err != nil {
		logger.WithComponent("service").Error("Failed to publish booking notification",
			zap.String("booking_id", created.ID.String()),
			zap.Error(err),
		)
	}

	return created, nil
}

func (s *BookingServiceImpl) CountByEventSlug(ctx context.Context, slug string) (int, error) {
	event, err := s.events.FindBySlug(ctx, slug)
	if err != nil {
		return 0, err
	}
	return s.repo.CountByEventID(ctx, event.ID)
}

func (s *BookingServiceImpl) SendConfirmation(ctx context.Context, notification *model.BookingNotification) error {
	event, err := s.events.FindByID(ctx, notification.EventID)
	if errors.Is(err, apperrors.ErrEventNotFound) {
		// 活動已不存在，重試也沒用
		logger.WithComponent("service").Warn("Skip confirmation for missing event",
			zap.String("booking_id", notification.BookingID.String()),
			zap.String("event_id", notification.EventID.String()),
		)
		return nil
	}
	if err != nil {
		return err
	}

	notification.EventSlug = event.Slug
	notification.EventTitle = event.Title
	notification.EventDate = event.Date
	notification.EventTime = event.Time

	return s.mailer.Send(ctx, notify.BookingConfirmation(notification))
}
