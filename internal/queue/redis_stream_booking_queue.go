package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"dev-event-hub/internal/model"
	"dev-event-hub/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	StreamKey          = "bookings:stream"
	ConsumerGroupName  = "booking-notifiers"
	ConsumerNamePrefix = "worker"

	payloadField = "booking"
	batchSize    = 10
	// 讀取失敗後的等待
	readErrorPause = time.Second
)

// RedisStreamBookingQueueConfig 可注入的逾時與重試設定；nil 或零值時使用預設。
type RedisStreamBookingQueueConfig struct {
	ClaimMinIdleTime   time.Duration // Nack 後留在 PEL 的時間，也是重試延遲
	MaxRetryCount      int           // 投遞次數上限，超過後 ack 丟棄
	ReadGroupBlockTime time.Duration
}

func (c *RedisStreamBookingQueueConfig) withDefaults() RedisStreamBookingQueueConfig {
	cfg := RedisStreamBookingQueueConfig{
		ClaimMinIdleTime:   5 * time.Second,
		MaxRetryCount:      5,
		ReadGroupBlockTime: 2 * time.Second,
	}
	if c == nil {
		return cfg
	}
	if c.ClaimMinIdleTime > 0 {
		cfg.ClaimMinIdleTime = c.ClaimMinIdleTime
	}
	if c.MaxRetryCount > 0 {
		cfg.MaxRetryCount = c.MaxRetryCount
	}
	if c.ReadGroupBlockTime > 0 {
		cfg.ReadGroupBlockTime = c.ReadGroupBlockTime
	}
	return cfg
}

// RedisStreamBookingQueueImpl 以 consumer group 消費報名通知。
// 新訊息走 XREADGROUP；Nack(true) 的訊息留在 PEL，閒置超過 ClaimMinIdleTime 後由 XAUTOCLAIM 重新領取。
type RedisStreamBookingQueueImpl struct {
	client   *redis.Client
	consumer string
	cfg      RedisStreamBookingQueueConfig
	log      *zap.Logger

	// XAUTOCLAIM 游標，只在消費 goroutine 內使用
	claimCursor string
}

func NewRedisStreamBookingQueue(ctx context.Context, client *redis.Client, consumerID string, config *RedisStreamBookingQueueConfig) (BookingQueue, error) {
	if consumerID == "" {
		consumerID = uuid.New().String()
	}
	q := &RedisStreamBookingQueueImpl{
		client:      client,
		consumer:    ConsumerNamePrefix + ":" + consumerID,
		cfg:         config.withDefaults(),
		log:         logger.WithComponent("mq"),
		claimCursor: "0-0",
	}

	err := client.XGroupCreateMkStream(ctx, StreamKey, ConsumerGroupName, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return nil, fmt.Errorf("create consumer group: %w", err)
	}
	return q, nil
}

func (q *RedisStreamBookingQueueImpl) PublishBooking(ctx context.Context, notification *model.BookingNotification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("marshal booking notification: %w", err)
	}
	err = q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamKey,
		ID:     "*",
		Values: map[string]interface{}{payloadField: string(payload)},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd: %w", err)
	}
	return nil
}

func (q *RedisStreamBookingQueueImpl) SubscribeBookings(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)
	go func() {
		defer close(out)
		q.consume(ctx, out)
	}()
	return out, nil
}

// consume 單一 goroutine 交替讀新訊息與領回逾時訊息
func (q *RedisStreamBookingQueueImpl) consume(ctx context.Context, out chan<- Delivery) {
	ticker := time.NewTicker(q.cfg.ClaimMinIdleTime)
	defer ticker.Stop()

	for ctx.Err() == nil {
		var msgs []redis.XMessage
		var err error
		claimed := false

		select {
		case <-ticker.C:
			msgs, err = q.claimStale(ctx)
			claimed = true
		default:
			msgs, err = q.readNew(ctx)
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			q.log.Error("read booking stream failed", zap.Bool("claim", claimed), zap.Error(err))
			select {
			case <-time.After(readErrorPause):
			case <-ctx.Done():
			}
			continue
		}

		for _, msg := range msgs {
			attempt := 1
			if claimed {
				var ok bool
				if attempt, ok = q.claimedAttempt(ctx, msg.ID); !ok {
					continue
				}
			}
			d, ok := q.decode(ctx, msg, attempt)
			if !ok {
				continue
			}
			select {
			case out <- d:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (q *RedisStreamBookingQueueImpl) readNew(ctx context.Context) ([]redis.XMessage, error) {
	streams, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    ConsumerGroupName,
		Consumer: q.consumer,
		Streams:  []string{StreamKey, ">"},
		Count:    batchSize,
		Block:    q.cfg.ReadGroupBlockTime,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var msgs []redis.XMessage
	for _, s := range streams {
		if s.Stream == StreamKey {
			msgs = append(msgs, s.Messages...)
		}
	}
	return msgs, nil
}

func (q *RedisStreamBookingQueueImpl) claimStale(ctx context.Context) ([]redis.XMessage, error) {
	msgs, next, err := q.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   StreamKey,
		Group:    ConsumerGroupName,
		Consumer: q.consumer,
		MinIdle:  q.cfg.ClaimMinIdleTime,
		Start:    q.claimCursor,
		Count:    batchSize,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	// 游標回到 0-0 代表 PEL 已掃完一輪
	if next == "" {
		next = "0-0"
	}
	q.claimCursor = next
	return msgs, nil
}

// claimedAttempt 從 PEL 取得投遞次數；XAUTOCLAIM 本身會加一，所以等於這次的 attempt。
// 超過上限的訊息 ack 掉並回傳 false。
func (q *RedisStreamBookingQueueImpl) claimedAttempt(ctx context.Context, id string) (int, bool) {
	pending, err := q.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: StreamKey,
		Group:  ConsumerGroupName,
		Start:  id,
		End:    id,
		Count:  1,
	}).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		q.log.Warn("read pending entry failed", zap.String("message_id", id), zap.Error(err))
		return 1, true
	}
	if len(pending) == 0 {
		return 1, true
	}

	attempt := int(pending[0].RetryCount)
	if attempt > q.cfg.MaxRetryCount {
		q.log.Warn("discard booking notification, retries exhausted",
			zap.String("message_id", id),
			zap.Int("attempt", attempt),
			zap.Int("max_retries", q.cfg.MaxRetryCount),
		)
		q.ack(ctx, id)
		return attempt, false
	}
	return attempt, true
}

// decode 把 stream 訊息轉成 Delivery；內容壞掉的訊息不會重試，直接 ack
func (q *RedisStreamBookingQueueImpl) decode(ctx context.Context, msg redis.XMessage, attempt int) (Delivery, bool) {
	var notification model.BookingNotification
	payload, ok := msg.Values[payloadField].(string)
	if !ok {
		q.log.Warn("drop booking message without payload", zap.String("message_id", msg.ID))
		q.ack(ctx, msg.ID)
		return Delivery{}, false
	}
	if err := json.Unmarshal([]byte(payload), &notification); err != nil {
		q.log.Warn("drop undecodable booking message", zap.String("message_id", msg.ID), zap.Error(err))
		q.ack(ctx, msg.ID)
		return Delivery{}, false
	}

	id := msg.ID
	return Delivery{
		Data:    &notification,
		Attempt: attempt,
		Ack:     func() { q.ack(ctx, id) },
		Nack: func(requeue bool) {
			if !requeue {
				q.ack(ctx, id)
			}
			// requeue: 不 ack，留在 PEL 等 XAUTOCLAIM
		},
	}, true
}

func (q *RedisStreamBookingQueueImpl) ack(ctx context.Context, id string) {
	if err := q.client.XAck(ctx, StreamKey, ConsumerGroupName, id).Err(); err != nil {
		q.log.Error("XAck failed", zap.String("message_id", id), zap.Error(err))
	}
}
