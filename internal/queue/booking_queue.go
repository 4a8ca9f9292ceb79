package queue

import (
	"context"
	"time"

	"dev-event-hub/internal/model"
	"dev-event-hub/pkg/logger"

	"go.uber.org/zap"
)

type Delivery struct {
	Data *model.BookingNotification
	// Attempt 第幾次投遞，從 1 開始
	Attempt int
	Ack     func()
	Nack    func(requeue bool)
}

type BookingQueue interface {
	// 發送報名通知到隊列
	PublishBooking(ctx context.Context, notification *model.BookingNotification) error
	// 訂閱報名通知隊列
	SubscribeBookings(ctx context.Context) (<-chan Delivery, error)
}

// MemoryBookingQueueConfig 記憶體隊列的重試設定；nil 或零值時使用預設。
type MemoryBookingQueueConfig struct {
	MaxRetryCount int           // 投遞次數上限，達到後丟棄
	RetryBackoff  time.Duration // 第一次重試的延遲，之後每次加倍
}

func defaultMemoryQueueConfig() MemoryBookingQueueConfig {
	return MemoryBookingQueueConfig{
		MaxRetryCount: 5,
		RetryBackoff:  time.Second,
	}
}

type envelope struct {
	notification *model.BookingNotification
	attempt      int
}

type BookingQueueImpl struct {
	// 使用 Go channel 來模擬 MQ 隊列
	ch  chan envelope
	cfg MemoryBookingQueueConfig
}

func NewBookingQueue(bufferSize int, config *MemoryBookingQueueConfig) BookingQueue {
	cfg := defaultMemoryQueueConfig()
	if config != nil {
		if config.MaxRetryCount > 0 {
			cfg.MaxRetryCount = config.MaxRetryCount
		}
		if config.RetryBackoff > 0 {
			cfg.RetryBackoff = config.RetryBackoff
		}
	}
	return &BookingQueueImpl{
		ch:  make(chan envelope, bufferSize),
		cfg: cfg,
	}
}

func (q *BookingQueueImpl) PublishBooking(ctx context.Context, notification *model.BookingNotification) error {
	select {
	case q.ch <- envelope{notification: notification, attempt: 1}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *BookingQueueImpl) SubscribeBookings(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case env, ok := <-q.ch:
				if !ok {
					return
				}

				d := Delivery{
					Data:    env.notification,
					Attempt: env.attempt,
					Ack:     func() {},
					Nack: func(requeue bool) {
						if requeue {
							q.retry(ctx, env)
						}
					},
				}

				select {
				case out <- d:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// retry 延遲後重回隊列；超過次數上限或隊列已滿時丟棄
func (q *BookingQueueImpl) retry(ctx context.Context, env envelope) {
	log := logger.WithComponent("mq").With(
		zap.String("booking_id", env.notification.BookingID.String()),
		zap.Int("attempt", env.attempt),
	)
	if env.attempt >= q.cfg.MaxRetryCount {
		log.Warn("discard booking notification, retries exhausted", zap.Int("max_retries", q.cfg.MaxRetryCount))
		return
	}

	delay := q.cfg.RetryBackoff << (env.attempt - 1)
	next := envelope{notification: env.notification, attempt: env.attempt + 1}
	time.AfterFunc(delay, func() {
		if ctx.Err() != nil {
			return
		}
		select {
		case q.ch <- next:
		default:
			log.Warn("discard booking notification, queue full")
		}
	})
}
