package normalize

import (
	"testing"

	apperrors "dev-event-hub/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTime(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"9:00 AM", "09:00"},
		{"09:00 AM", "09:00"},
		{"12:30 PM", "12:30"},
		{"12:00 AM", "00:00"},
		{"2:00 PM", "14:00"},
		{"11:59pm", "23:59"},
		{"08:30 am", "08:30"},
		{"10:15 Pm", "22:15"},
		{"23:15", "23:15"},
		{"0:05", "00:05"},
		{"  7:45  ", "07:45"},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := Time(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTime_Invalid(t *testing.T) {
	inputs := []string{
		"25:00",
		"13:00 PM",
		"10:60",
		"9:5",
		"9 AM",
		"09:00  AM",
		"09:00 XM",
		"noon",
		"",
		"123:00",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := Time(input)
			assert.ErrorIs(t, err, apperrors.ErrInvalidTimeFormat)
		})
	}
}

func TestTime_Idempotent(t *testing.T) {
	for _, input := range []string{"9:00 AM", "12:00 AM", "11:59 PM", "23:15"} {
		first, err := Time(input)
		require.NoError(t, err)

		second, err := Time(first)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}
