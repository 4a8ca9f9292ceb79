package model

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"dev-event-hub/internal/normalize"
	apperrors "dev-event-hub/pkg/app_errors"

	"github.com/google/uuid"
)

// EventMode 活動形式
type EventMode string

const (
	EventModeOnline  EventMode = "online"
	EventModeOffline EventMode = "offline"
	EventModeHybrid  EventMode = "hybrid"
)

// IsValid 驗證活動形式是否有效
func (m EventMode) IsValid() bool {
	switch m {
	case EventModeOnline, EventModeOffline, EventModeHybrid:
		return true
	}
	return false
}

// Event 活動模型
type Event struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description" db:"description"`
	Overview    string    `json:"overview" db:"overview"`
	Image       string    `json:"image" db:"image"`
	Venue       string    `json:"venue" db:"venue"`
	Location    string    `json:"location" db:"location"`
	Date        string    `json:"date" db:"date"`
	Time        string    `json:"time" db:"time"`
	Mode        EventMode `json:"mode" db:"mode"`
	Audience    string    `json:"audience" db:"audience"`
	Agenda      []string  `json:"agenda" db:"agenda"`
	Organizer   string    `json:"organizer" db:"organizer"`
	Tags        []string  `json:"tags" db:"tags"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// CreateEventRequest 建立活動請求；Agenda 與 Tags 由 handler 從 JSON 字串解析
type CreateEventRequest struct {
	Title       string   `form:"title"`
	Description string   `form:"description"`
	Overview    string   `form:"overview"`
	Venue       string   `form:"venue"`
	Location    string   `form:"location"`
	Date        string   `form:"date"`
	Time        string   `form:"time"`
	Mode        string   `form:"mode"`
	Audience    string   `form:"audience"`
	Organizer   string   `form:"organizer"`
	Agenda      []string `form:"-"`
	Tags        []string `form:"-"`
}

func (r CreateEventRequest) ToEvent() *Event {
	return &Event{
		Title:       r.Title,
		Description: r.Description,
		Overview:    r.Overview,
		Venue:       r.Venue,
		Location:    r.Location,
		Date:        r.Date,
		Time:        r.Time,
		Mode:        EventMode(r.Mode),
		Audience:    r.Audience,
		Organizer:   r.Organizer,
		Agenda:      slices.Clone(r.Agenda),
		Tags:        slices.Clone(r.Tags),
	}
}

// UpdateEventParams 更新活動參數；nil 代表不更新
type UpdateEventParams struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Overview    *string  `json:"overview"`
	Venue       *string  `json:"venue"`
	Location    *string  `json:"location"`
	Date        *string  `json:"date"`
	Time        *string  `json:"time"`
	Mode        *string  `json:"mode"`
	Audience    *string  `json:"audience"`
	Agenda      []string `json:"agenda"`
	Organizer   *string  `json:"organizer"`
	Tags        []string `json:"tags"`
}

// IsEmpty reports whether no field is set.
func (p UpdateEventParams) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Overview == nil &&
		p.Venue == nil && p.Location == nil && p.Date == nil && p.Time == nil &&
		p.Mode == nil && p.Audience == nil && p.Agenda == nil &&
		p.Organizer == nil && p.Tags == nil
}

// Apply copies the set fields onto e and returns the fields whose value
// actually changed. Assigning an equal value does not count as a change.
func (p UpdateEventParams) Apply(e *Event) EventField {
	var changed EventField

	setString := func(field EventField, dst *string, src *string) {
		if src == nil {
			return
		}
		if v := strings.TrimSpace(*src); v != *dst {
			*dst = v
			changed |= field
		}
	}

	setString(FieldTitle, &e.Title, p.Title)
	setString(FieldDescription, &e.Description, p.Description)
	setString(FieldOverview, &e.Overview, p.Overview)
	setString(FieldVenue, &e.Venue, p.Venue)
	setString(FieldLocation, &e.Location, p.Location)
	setString(FieldDate, &e.Date, p.Date)
	setString(FieldTime, &e.Time, p.Time)
	setString(FieldAudience, &e.Audience, p.Audience)
	setString(FieldOrganizer, &e.Organizer, p.Organizer)

	if p.Mode != nil {
		if mode := EventMode(strings.ToLower(strings.TrimSpace(*p.Mode))); mode != e.Mode {
			e.Mode = mode
			changed |= FieldMode
		}
	}
	if p.Agenda != nil && !slices.Equal(p.Agenda, e.Agenda) {
		e.Agenda = slices.Clone(p.Agenda)
		changed |= FieldAgenda
	}
	if p.Tags != nil && !slices.Equal(p.Tags, e.Tags) {
		e.Tags = slices.Clone(p.Tags)
		changed |= FieldTags
	}

	return changed
}

// Prepare runs the save pipeline on e: trim and case-fold the input,
// check required fields, then re-derive slug, date and time for the
// fields listed in changed. It returns changed plus any derived field
// it rewrote, which is the set of columns a save has to write.
func (e *Event) Prepare(changed EventField) (EventField, error) {
	e.trim()

	if err := e.validate(); err != nil {
		return changed, err
	}

	if changed.Has(FieldTitle) {
		slug := normalize.Slug(e.Title)
		if slug == "" {
			return changed, apperrors.ErrInvalidTitle
		}
		if slug != e.Slug {
			e.Slug = slug
			changed |= FieldSlug
		}
	}

	if changed.Has(FieldDate) {
		date, err := normalize.Date(e.Date)
		if err != nil {
			return changed, err
		}
		e.Date = date
	}

	if changed.Has(FieldTime) {
		t, err := normalize.Time(e.Time)
		if err != nil {
			return changed, err
		}
		e.Time = t
	}

	return changed, nil
}

func (e *Event) trim() {
	for _, s := range []*string{
		&e.Title, &e.Description, &e.Overview, &e.Image, &e.Venue,
		&e.Location, &e.Date, &e.Time, &e.Audience, &e.Organizer,
	} {
		*s = strings.TrimSpace(*s)
	}
	e.Mode = EventMode(strings.ToLower(strings.TrimSpace(string(e.Mode))))
	e.Agenda = trimItems(e.Agenda)
	e.Tags = trimItems(e.Tags)
}

func (e *Event) validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"title", e.Title},
		{"description", e.Description},
		{"overview", e.Overview},
		{"image", e.Image},
		{"venue", e.Venue},
		{"location", e.Location},
		{"date", e.Date},
		{"time", e.Time},
		{"mode", string(e.Mode)},
		{"audience", e.Audience},
		{"organizer", e.Organizer},
	}
	for _, f := range required {
		if f.value == "" {
			return fmt.Errorf("%w: %s is required", apperrors.ErrInvalidInput, f.name)
		}
	}

	if !e.Mode.IsValid() {
		return apperrors.ErrInvalidMode
	}

	if err := validateItems("agenda", e.Agenda); err != nil {
		return err
	}
	return validateItems("tags", e.Tags)
}

func trimItems(items []string) []string {
	for i := range items {
		items[i] = strings.TrimSpace(items[i])
	}
	return items
}

func validateItems(name string, items []string) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: %s must contain at least one item", apperrors.ErrInvalidInput, name)
	}
	for i, item := range items {
		if item == "" {
			return fmt.Errorf("%w: %s[%d] must be non-empty", apperrors.ErrInvalidInput, name, i)
		}
	}
	return nil
}
