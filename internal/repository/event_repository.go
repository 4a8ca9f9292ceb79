package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dev-event-hub/internal/model"
	apperrors "dev-event-hub/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	List(ctx context.Context) ([]*model.Event, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error)
	FindBySlug(ctx context.Context, slug string) (*model.Event, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	// Update 只寫入 changed 標記的欄位與 updated_at
	Update(ctx context.Context, event *model.Event, changed model.EventField) (*model.Event, error)
	// ListSimilar 找出至少有一個相同 tag 的其他活動
	ListSimilar(ctx context.Context, event *model.Event, limit int) ([]*model.Event, error)
}

type EventRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &EventRepositoryImpl{
		pool: pool,
	}
}

const eventColumns = `id, title, slug, description, overview, image, venue, location,
		date, time, mode, audience, agenda, organizer, tags, created_at, updated_at`

// updatableEventColumns maps each changeable field to its column and value.
var updatableEventColumns = []struct {
	field  model.EventField
	column string
	value  func(e *model.Event) any
}{
	{model.FieldTitle, "title", func(e *model.Event) any { return e.Title }},
	{model.FieldSlug, "slug", func(e *model.Event) any { return e.Slug }},
	{model.FieldDescription, "description", func(e *model.Event) any { return e.Description }},
	{model.FieldOverview, "overview", func(e *model.Event) any { return e.Overview }},
	{model.FieldImage, "image", func(e *model.Event) any { return e.Image }},
	{model.FieldVenue, "venue", func(e *model.Event) any { return e.Venue }},
	{model.FieldLocation, "location", func(e *model.Event) any { return e.Location }},
	{model.FieldDate, "date", func(e *model.Event) any { return e.Date }},
	{model.FieldTime, "time", func(e *model.Event) any { return e.Time }},
	{model.FieldMode, "mode", func(e *model.Event) any { return string(e.Mode) }},
	{model.FieldAudience, "audience", func(e *model.Event) any { return e.Audience }},
	{model.FieldAgenda, "agenda", func(e *model.Event) any { return e.Agenda }},
	{model.FieldOrganizer, "organizer", func(e *model.Event) any { return e.Organizer }},
	{model.FieldTags, "tags", func(e *model.Event) any { return e.Tags }},
}

func scanEvent(row pgx.Row) (*model.Event, error) {
	var event model.Event
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Slug,
		&event.Description,
		&event.Overview,
		&event.Image,
		&event.Venue,
		&event.Location,
		&event.Date,
		&event.Time,
		&event.Mode,
		&event.Audience,
		&event.Agenda,
		&event.Organizer,
		&event.Tags,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *EventRepositoryImpl) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	query := `
		INSERT INTO events (
			id, title, slug, description, overview, image, venue, location,
			date, time, mode, audience, agenda, organizer, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + eventColumns

	created, err := scanEvent(r.pool.QueryRow(ctx, query,
		event.ID, event.Title, event.Slug, event.Description, event.Overview,
		event.Image, event.Venue, event.Location, event.Date, event.Time,
		string(event.Mode), event.Audience, event.Agenda, event.Organizer, event.Tags,
	))
	if err != nil {
		return nil, translateError(err, nil)
	}

	return created, nil
}

func (r *EventRepositoryImpl) List(ctx context.Context) ([]*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		ORDER BY created_at DESC
	`
	return r.queryEvents(ctx, query)
}

func (r *EventRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1
	`

	event, err := scanEvent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translateError(err, apperrors.ErrEventNotFound)
	}

	return event, nil
}

func (r *EventRepositoryImpl) FindBySlug(ctx context.Context, slug string) (*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE slug = $1
	`

	event, err := scanEvent(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		return nil, translateError(err, apperrors.ErrEventNotFound)
	}

	return event, nil
}

func (r *EventRepositoryImpl) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, translateError(err, nil)
	}
	return exists, nil
}

func (r *EventRepositoryImpl) Update(ctx context.Context, event *model.Event, changed model.EventField) (*model.Event, error) {
	sets := []string{}
	args := []interface{}{}
	argPos := 1

	for _, col := range updatableEventColumns {
		if !changed.Has(col.field) {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", col.column, argPos))
		args = append(args, col.value(event))
		argPos++
	}

	if len(sets) == 0 {
		return nil, apperrors.ErrInvalidInput
	}

	// add updated_at
	sets = append(sets, fmt.Sprintf("updated_at = $%d", argPos))
	args = append(args, time.Now().UTC())
	argPos++

	// add id
	args = append(args, event.ID)

	query := fmt.Sprintf(`
		UPDATE events
		SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(sets, ", "), argPos, eventColumns)

	updated, err := scanEvent(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translateError(err, apperrors.ErrEventNotFound)
	}

	return updated, nil
}

func (r *EventRepositoryImpl) ListSimilar(ctx context.Context, event *model.Event, limit int) ([]*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id <> $1 AND tags && $2
		ORDER BY created_at DESC
		LIMIT $3
	`
	return r.queryEvents(ctx, query, event.ID, event.Tags, limit)
}

func (r *EventRepositoryImpl) queryEvents(ctx context.Context, query string, args ...any) ([]*model.Event, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, nil)
	}
	defer rows.Close()

	events := make([]*model.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, translateError(err, nil)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, translateError(err, nil)
	}

	return events, nil
}
