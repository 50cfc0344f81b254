package locations

import (
	"context"

	"eventhub/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, location *models.Location) (*models.Location, error)
	GetByID(ctx context.Context, id int64) (*models.Location, error)
	List(ctx context.Context, city string, limit, offset int) ([]models.Location, error)
	Count(ctx context.Context, city string) (int64, error)
}
