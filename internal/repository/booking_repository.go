package repository

import (
	"context"

	"dev-event-hub/internal/model"
	apperrors "dev-event-hub/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) (*model.Booking, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	ListByEventID(ctx context.Context, eventID uuid.UUID) ([]*model.Booking, error)
	CountByEventID(ctx context.Context, eventID uuid.UUID) (int, error)
}

type BookingRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &BookingRepositoryImpl{
		pool: pool,
	}
}

func (r *BookingRepositoryImpl) Create(ctx context.Context, booking *model.Booking) (*model.Booking, error) {
	query := `
		INSERT INTO bookings (id, event_id, email)
		VALUES ($1, $2, $3)
		RETURNING id, event_id, email, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		booking.ID, booking.EventID, booking.Email,
	).Scan(
		&booking.ID,
		&booking.EventID,
		&booking.Email,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err, nil)
	}

	return booking, nil
}

func (r *BookingRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `
		SELECT id, event_id, email, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`

	var booking model.Booking
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.EventID,
		&booking.Email,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err, apperrors.ErrBookingNotFound)
	}

	return &booking, nil
}

func (r *BookingRepositoryImpl) ListByEventID(ctx context.Context, eventID uuid.UUID) ([]*model.Booking, error) {
	query := `
		SELECT id, event_id, email, created_at, updated_at
		FROM bookings
		WHERE event_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, translateError(err, nil)
	}
	defer rows.Close()

	bookings := make([]*model.Booking, 0)
	for rows.Next() {
		var booking model.Booking
		err := rows.Scan(
			&booking.ID,
			&booking.EventID,
			&booking.Email,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		)
		if err != nil {
			return nil, translateError(err, nil)
		}
		bookings = append(bookings, &booking)
	}

	if err := rows.Err(); err != nil {
		return nil, translateError(err, nil)
	}

	return bookings, nil
}

func (r *BookingRepositoryImpl) CountByEventID(ctx context.Context, eventID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE event_id = $1`, eventID).Scan(&count)
	if err != nil {
		return 0, translateError(err, nil)
	}
	return count, nil
}
