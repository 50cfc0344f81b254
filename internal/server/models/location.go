package models

import "time"

// Location is a venue an event takes place at.
type Location struct {
	ID        int64
	City      string
	Street    string
	House     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
