package domain

import (
	"errors"
	"time"
)

// TimeLayout is the layout of transaction timestamps, e.g. 2019-02-13T10:00:00.000Z.
// ParseTime additionally requires at least one fractional second digit.
const TimeLayout = "2006-01-02T15:04:05.999999999Z"

// fractionOffset is the position of the fractional seconds separator.
const fractionOffset = len("2006-01-02T15:04:05")

var (
	// ErrMalformedInput indicates that an input line is not a JSON object.
	ErrMalformedInput = errors.New("malformed input")
	// ErrMissingTime indicates a transaction without a time field.
	ErrMissingTime = errors.New("transaction time is required")
	// ErrInvalidTime indicates a transaction time that does not match TimeLayout.
	ErrInvalidTime = errors.New("invalid transaction time")
)

// Transaction holds a card purchase attempt.
type Transaction struct {
	Merchant string
	Amount   int64
	Time     time.Time
}

// ParseTime parses a transaction timestamp in TimeLayout as UTC.
func ParseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, ErrMissingTime
	}

	t, err := time.Parse(TimeLayout, s)
	if err != nil || len(s) < fractionOffset+2 || s[fractionOffset] != '.' {
		return time.Time{}, ErrInvalidTime
	}

	return t.UTC(), nil
}
