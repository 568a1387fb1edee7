// Package timeofday holds the helpers for wall-clock values without a date
// or zone. Values are stored as gorm datatypes.Time (postgres TIME).
package timeofday

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

var ErrInvalidFormat = errors.New("invalid time of day, expected HH:MM")

// Parse accepts "HH:MM" and "HH:MM:SS". Seconds are dropped: attendance is
// tracked at minute resolution.
func Parse(v string) (datatypes.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, v); err == nil {
			return datatypes.NewTime(t.Hour(), t.Minute(), 0, 0), nil
		}
	}
	return 0, ErrInvalidFormat
}

// ParsePtr parses an optional value; nil or blank yields nil.
func ParsePtr(v *string) (*datatypes.Time, error) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil, nil
	}
	t, err := Parse(*v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FromClock takes the hour and minute of t in t's location.
func FromClock(t time.Time) datatypes.Time {
	return datatypes.NewTime(t.Hour(), t.Minute(), 0, 0)
}

// Minutes returns minutes since midnight.
func Minutes(t datatypes.Time) int {
	return int(time.Duration(t) / time.Minute)
}

func Format(t datatypes.Time) string {
	m := Minutes(t)
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

func FormatPtr(t *datatypes.Time) *string {
	if t == nil {
		return nil
	}
	v := Format(*t)
	return &v
}
