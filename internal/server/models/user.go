// Package models contains the server-side domain entities.
package models

import "time"

// User is a registered account. HashedPassword holds the bcrypt digest;
// the plaintext secret is never stored.
type User struct {
	ID             int64
	Email          string
	FirstName      string
	LastName       string
	HashedPassword string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
