package domain

import "time"

// User is a registered participant. Phone is stored digits-only and, paired
// with Birthdate, is the login credential.
type User struct {
	ID           int64
	PublicID     string
	Level        int
	Name         string
	Email        *string
	Phone        string
	Birthdate    time.Time
	Neighborhood *string
	City         *string
	State        *string
	PostalCode   *string
	Street       *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
