package models

import "time"

// Event is a scheduled happening at a location, organized by a user.
// Date holds the calendar day (time part zero, UTC); StartTime is the
// wall-clock start in "15:04:05" form, matching the TIME column.
//
// Location, Organizer and Categories are hydrated by the repository on reads;
// LocationID/OrganizerID are the raw foreign keys used on writes.
type Event struct {
	ID               int64
	Title            string
	ShortDescription string
	FullDescription  string
	Date             time.Time
	StartTime        string
	LocationID       int64
	OrganizerID      int64
	ImageKey         string
	LikesCount       int64
	ParticipantsCount int64
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Location   *Location
	Organizer  *User
	Categories []Category
}

// EventWithStatus pairs an event with the requesting user's relationship
// to it.
type EventWithStatus struct {
	Event        *Event
	IsLiked      bool
	IsRegistered bool
}

// EventStats aggregates a user's event activity.
type EventStats struct {
	CreatedEvents    int64
	LikedEvents      int64
	RegisteredEvents int64
}
