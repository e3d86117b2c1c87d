package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/treasury_ledger/internal/apperrors"
)

// DateLayout is the wire format of calendar dates in requests and responses.
const DateLayout = "2006-01-02"

// ParseDate reads a YYYY-MM-DD date as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, expected %s", apperrors.ErrValidation, s, DateLayout)
	}
	return t, nil
}

// ParseOptionalDate is ParseDate with a fallback for an empty value.
func ParseOptionalDate(s string, fallback time.Time) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return fallback, nil
	}
	return ParseDate(s)
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CalendarDate returns the calendar day of t as seen in loc, as UTC midnight.
func CalendarDate(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
