package model

import (
	"time"

	"dev-event-hub/internal/normalize"

	"github.com/google/uuid"
)

// Booking 報名紀錄
type Booking struct {
	ID        uuid.UUID `json:"id" db:"id"`
	EventID   uuid.UUID `json:"eventId" db:"event_id"`
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Normalize lowercases and trims the email and checks its format.
func (b *Booking) Normalize() error {
	email, err := normalize.Email(b.Email)
	if err != nil {
		return err
	}
	b.Email = email
	return nil
}

// CreateBookingRequest 建立報名請求；slug 只用於回傳與通知，不會寫入資料庫
type CreateBookingRequest struct {
	EventID string `json:"eventId" form:"eventId"`
	Slug    string `json:"slug" form:"slug"`
	Email   string `json:"email" form:"email"`
}

// BookingResponse 報名響應
type BookingResponse struct {
	Success   bool   `json:"success"`
	BookingID string `json:"bookingId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// BookingNotification is the message handed to the notification queue
// after a booking is stored.
type BookingNotification struct {
	BookingID  uuid.UUID `json:"bookingId"`
	EventID    uuid.UUID `json:"eventId"`
	EventSlug  string    `json:"eventSlug"`
	EventTitle string    `json:"eventTitle"`
	EventDate  string    `json:"eventDate"`
	EventTime  string    `json:"eventTime"`
	Email      string    `json:"email"`
}
