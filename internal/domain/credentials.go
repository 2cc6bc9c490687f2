package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// BirthdateLayout accepts day and month with one or two digits.
const BirthdateLayout = "2/1/2006"

// DateLayout is the ISO-8601 calendar date used in responses.
const DateLayout = "2006-01-02"

var (
	ErrInvalidBirthdate = errors.New("birthdate must be DD/MM/YYYY")
	ErrEmptyPhone       = errors.New("phone has no digits")

	nonDigits = regexp.MustCompile(`\D`)
)

// NormalizePhone strips every non-digit character.
func NormalizePhone(raw string) (string, error) {
	phone := nonDigits.ReplaceAllString(raw, "")
	if phone == "" {
		return "", ErrEmptyPhone
	}
	return phone, nil
}

// ParseBirthdate parses a DD/MM/YYYY date as a UTC calendar day.
func ParseBirthdate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrInvalidBirthdate
	}
	parsed, err := time.Parse(BirthdateLayout, raw)
	if err != nil {
		return time.Time{}, ErrInvalidBirthdate
	}
	return parsed, nil
}

// SameDay compares two dates ignoring time of day and location.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
