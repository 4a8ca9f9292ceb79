package apperrors

import "errors"

var (
	ErrEventNotFound   = errors.New("event not found")
	ErrBookingNotFound = errors.New("booking not found")

	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidTitle       = errors.New("invalid title: no characters left to build a slug")
	ErrInvalidMode        = errors.New("invalid mode: must be one of online, offline, hybrid")
	ErrInvalidDateFormat  = errors.New("invalid date format. Please provide a valid date")
	ErrInvalidTimeFormat  = errors.New("invalid time format. Please use HH:MM or HH:MM AM/PM format")
	ErrInvalidEmailFormat = errors.New("please provide a valid email address")
	ErrInvalidImage       = errors.New("invalid image")

	ErrDanglingReference  = errors.New("referenced event does not exist")
	ErrDuplicateSlug      = errors.New("an event with this slug already exists")
	ErrStorageUnavailable = errors.New("storage unavailable")

	ErrInternalServerError = errors.New("internal server error")
)
