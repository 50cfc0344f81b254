package users

import (
	"context"

	"eventhub/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	UpdateProfile(ctx context.Context, id int64, firstName, lastName string) (*models.User, error)
	UpdatePassword(ctx context.Context, id int64, hashedPassword string) error
}
