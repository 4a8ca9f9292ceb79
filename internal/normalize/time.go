package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	apperrors "dev-event-hub/pkg/app_errors"
)

// H:MM or HH:MM, optionally followed by one space and AM/PM in any case.
var timePattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?:\s?((?i:am|pm)))?$`)

// Time converts a 12- or 24-hour clock time into 24-hour HH:MM.
//
//	Time("9:00 AM")  // "09:00"
//	Time("12:00 AM") // "00:00"
//	Time("23:15")    // "23:15"
//	Time("13:00 PM") // ErrInvalidTimeFormat, 13+12 is out of range
//
// The hour bound is checked after the meridiem conversion.
func Time(input string) (string, error) {
	match := timePattern.FindStringSubmatch(strings.TrimSpace(input))
	if match == nil {
		return "", apperrors.ErrInvalidTimeFormat
	}

	hours, _ := strconv.Atoi(match[1])
	minutes := match[2]
	period := strings.ToUpper(match[3])

	switch {
	case period == "PM" && hours != 12:
		hours += 12
	case period == "AM" && hours == 12:
		hours = 0
	}

	m, _ := strconv.Atoi(minutes)
	if hours < 0 || hours > 23 || m < 0 || m > 59 {
		return "", apperrors.ErrInvalidTimeFormat
	}

	// minutes is always the two-digit capture, already zero padded
	return fmt.Sprintf("%02d:%s", hours, minutes), nil
}
