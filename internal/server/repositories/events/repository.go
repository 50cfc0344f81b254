package events

import (
	"context"

	"eventhub/internal/server/models"
)

// Filter narrows event listings. Zero values disable the corresponding
// condition.
type Filter struct {
	CategoryID     int64
	City           string
	Search         string
	SortByLikes    string // "asc" or "desc"; anything else sorts by recency
	FutureOnly     bool
	OrganizerID    int64
	LikedByID      int64
	RegisteredByID int64
}

type Repository interface {
	Create(ctx context.Context, event *models.Event) (*models.Event, error)
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f Filter, limit, offset int) ([]*models.Event, error)
	Count(ctx context.Context, f Filter) (int64, error)
	ReplaceCategories(ctx context.Context, eventID int64, categoryIDs []int64) error
	SetImageKey(ctx context.Context, eventID int64, key string) error
	IsLiked(ctx context.Context, eventID, userID int64) (bool, error)
	IsRegistered(ctx context.Context, eventID, userID int64) (bool, error)
	AddLike(ctx context.Context, eventID, userID int64) error
	RemoveLike(ctx context.Context, eventID, userID int64) error
	AddRegistration(ctx context.Context, eventID, userID int64) error
	RemoveRegistration(ctx context.Context, eventID, userID int64) error
	Stats(ctx context.Context, userID int64) (*models.EventStats, error)
}
