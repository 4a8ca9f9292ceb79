package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"dev-event-hub/internal/cache"
	"dev-event-hub/internal/model"
	"dev-event-hub/internal/repository"
	"dev-event-hub/internal/storage"
	apperrors "dev-event-hub/pkg/app_errors"
	"dev-event-hub/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SimilarEventsLimit 相似活動最多回傳幾筆
const SimilarEventsLimit = 3

// ImageFile 上傳的活動圖片
type ImageFile struct {
	Filename string
	Content  io.Reader
}

type EventService interface {
	List(ctx context.Context) ([]*model.Event, error)
	// GetBySlug 先讀快取，未命中再查資料庫並回寫
	GetBySlug(ctx context.Context, slug string) (*model.Event, error)
	Create(ctx context.Context, req model.CreateEventRequest, image *ImageFile) (*model.Event, error)
	UpdateBySlug(ctx context.Context, slug string, params model.UpdateEventParams) (*model.Event, error)
	ListSimilar(ctx context.Context, slug string) ([]*model.Event, error)
}

type EventServiceImpl struct {
	repo     repository.EventRepository
	cache    cache.EventCache
	uploader storage.ImageUploader
}

func NewEventService(repo repository.EventRepository, eventCache cache.EventCache, uploader storage.ImageUploader) EventService {
	return &EventServiceImpl{repo: repo, cache: eventCache, uploader: uploader}
}

func (s *EventServiceImpl) List(ctx context.Context) ([]*model.Event, error) {
	return s.repo.List(ctx)
}

func (s *EventServiceImpl) GetBySlug(ctx context.Context, slug string) (*model.Event, error) {
	event, err := s.cache.Get(ctx, slug)
	if err == nil {
		return event, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		// 快取壞掉不影響讀取，直接查資料庫
		logger.WithComponent("service").Warn("Event cache read failed", zap.String("slug", slug), zap.Error(err))
	}

	event, err = s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	s.warmCache(ctx, event)
	return event, nil
}

func (s *EventServiceImpl) Create(ctx context.Context, req model.CreateEventRequest, image *ImageFile) (*model.Event, error) {
	if image == nil || image.Content == nil {
		return nil, fmt.Errorf("%w: image file is required", apperrors.ErrInvalidImage)
	}

	event := req.ToEvent()

	// 先做一次不含圖片的檢查，避免上傳後才發現欄位錯誤
	event.Image = image.Filename
	if _, err := event.Prepare(model.AllEventFields); err != nil {
		return nil, err
	}

	url, err := s.uploader.Upload(ctx, image.Filename, image.Content)
	if err != nil {
		return nil, err
	}
	event.Image = url
	event.ID = uuid.New()

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return nil, err
	}

	s.warmCache(ctx, created)
	return created, nil
}

func (s *EventServiceImpl) UpdateBySlug(ctx context.Context, slug string, params model.UpdateEventParams) (*model.Event, error) {
	if params.IsEmpty() {
		return nil, fmt.Errorf("%w: no fields to update", apperrors.ErrInvalidInput)
	}

	event, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	oldSlug := event.Slug

	changed := params.Apply(event)
	if changed == 0 {
		return event, nil
	}

	changed, err = event.Prepare(changed)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, event, changed)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(ctx, oldSlug, updated.Slug); err != nil {
		logger.WithComponent("service").Warn("Event cache invalidate failed",
			zap.String("old_slug", oldSlug),
			zap.String("slug", updated.Slug),
			zap.Error(err),
		)
	}
	return updated, nil
}

func (s *EventServiceImpl) ListSimilar(ctx context.Context, slug string) ([]*model.Event, error) {
	event, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.repo.ListSimilar(ctx, event, SimilarEventsLimit)
}

func (s *EventServiceImpl) warmCache(ctx context.Context, event *model.Event) {
	if err := s.cache.Set(ctx, event); err != nil {
		logger.WithComponent("service").Warn("Event cache write failed", zap.String("slug", event.Slug), zap.Error(err))
	}
}
