package normalize

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	apperrors "dev-event-hub/pkg/app_errors"
)

const isoDate = "2006-01-02"

var dateWord = regexp.MustCompile(`\p{L}+`)

// dateWords are the only letter runs a date may contain. dateparse skips
// words it does not understand, so anything else is trailing garbage.
var dateWords = map[string]bool{
	"jan": true, "january": true, "feb": true, "february": true,
	"mar": true, "march": true, "apr": true, "april": true,
	"may": true, "jun": true, "june": true, "jul": true, "july": true,
	"aug": true, "august": true, "sep": true, "sept": true, "september": true,
	"oct": true, "october": true, "nov": true, "november": true,
	"dec": true, "december": true,
	"mon": true, "monday": true, "tue": true, "tues": true, "tuesday": true,
	"wed": true, "wednesday": true, "thu": true, "thur": true, "thurs": true,
	"thursday": true, "fri": true, "friday": true, "sat": true, "saturday": true,
	"sun": true, "sunday": true,
	"st": true, "nd": true, "rd": true, "th": true,
	"t": true, "z": true, "utc": true, "gmt": true, "am": true, "pm": true,
}

// Date parses a free-text date ("March 15, 2026", "2026-03-15", "03/15/2026",
// RFC 3339, ...) and returns its calendar date in UTC as YYYY-MM-DD.
// Inputs without a zone are read as UTC, so a canonical date maps to itself.
// A date must carry a year; "12:30" or "1/" are rejected.
func Date(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", apperrors.ErrInvalidDateFormat
	}

	for _, w := range dateWord.FindAllString(s, -1) {
		if !dateWords[strings.ToLower(w)] {
			return "", apperrors.ErrInvalidDateFormat
		}
	}

	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return "", apperrors.ErrInvalidDateFormat
	}
	// dateparse leaves the year at 0 when the input has none
	if t.Year() == 0 {
		return "", apperrors.ErrInvalidDateFormat
	}

	return t.UTC().Format(isoDate), nil
}
