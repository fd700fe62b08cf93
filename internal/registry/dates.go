package registry

import (
	"fmt"
	"time"

	apperrors "github.com/jwalitptl/clinic-registry/pkg/errors"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04"
)

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateTime joins a date and an HH:MM time into an appointment key.
func DateTime(date, hhmm string) string {
	return date + " " + hhmm
}

// Tomorrow returns the calendar day after date.
func Tomorrow(date string) (string, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", apperrors.NewInvalidDate(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", date), err)
	}
	return FormatDate(d.AddDate(0, 0, 1)), nil
}

// ValidateDate rejects malformed dates and dates strictly before now's calendar day.
func ValidateDate(date string, now time.Time) error {
	d, err := time.ParseInLocation(DateLayout, date, now.Location())
	if err != nil {
		return apperrors.NewInvalidDate(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", date), err)
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if d.Before(today) {
		return apperrors.NewInvalidDate("date must be today or in the future", nil)
	}
	return nil
}

// ValidateDateTime checks the "YYYY-MM-DD HH:MM" key format and the date part.
func ValidateDateTime(dateTime string, now time.Time) error {
	if _, err := time.Parse(DateTimeLayout, dateTime); err != nil {
		return apperrors.NewInvalidDate(fmt.Sprintf("invalid date time %q, expected YYYY-MM-DD HH:MM", dateTime), err)
	}
	return ValidateDate(dateTime[:len(DateLayout)], now)
}
