package worker

import (
	"context"

	"dev-event-hub/internal/queue"
	"dev-event-hub/internal/service"
	"dev-event-hub/pkg/logger"

	"go.uber.org/zap"
)

type BookingWorker interface {
	// 訂閱報名通知隊列
	Start(ctx context.Context) error
}

type BookingWorkerImpl struct {
	service service.BookingService
	queue   queue.BookingQueue
}

func NewBookingWorker(service service.BookingService, queue queue.BookingQueue) BookingWorker {
	return &BookingWorkerImpl{
		service: service,
		queue:   queue,
	}
}

func (w *BookingWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.SubscribeBookings(ctx)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgs {
			// 把「報名通知」變成一封確認信
			err := w.service.SendConfirmation(ctx, msg.Data)
			if err != nil {
				logger.WithComponent("worker").Warn("Send confirmation failed, requeue",
					zap.String("booking_id", msg.Data.BookingID.String()),
					zap.Int("attempt", msg.Attempt),
					zap.Error(err),
				)
				msg.Nack(true)
				continue
			}
			msg.Ack()
		}
	}()
	return nil
}
