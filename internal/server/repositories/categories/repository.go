package categories

import (
	"context"

	"eventhub/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, category *models.Category) (*models.Category, error)
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	GetByIDs(ctx context.Context, ids []int64) ([]models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
}
