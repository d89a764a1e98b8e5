package domain

import (
	"fmt"
	"time"
	_ "time/tzdata" // store timezones must resolve without system zoneinfo
)

// DefaultTimezone is the store timezone used when none is configured.
const DefaultTimezone = "America/New_York"

// DateUTC interprets a store-local timestamp in timezone and converts it to UTC.
func DateUTC(value, timezone string) (time.Time, error) {
	loc, err := loadLocation(timezone)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.ParseInLocation(time.DateTime, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return t.UTC(), nil
}

// DateLocal converts a UTC timestamp to the store timezone.
func DateLocal(value, timezone string) (time.Time, error) {
	loc, err := loadLocation(timezone)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.ParseInLocation(time.DateTime, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return t.In(loc), nil
}

func loadLocation(timezone string) (*time.Location, error) {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q", ErrInvalidInput, timezone)
	}
	return loc, nil
}
