package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventhub/internal/common"
	"eventhub/internal/server/models"
	"eventhub/internal/server/repositories/repomanager"
)

type CategoryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCategoryService(db *sql.DB, m repomanager.RepositoryManager) *CategoryService {
	return &CategoryService{db: db, repomanager: m}
}

// Create adds a category. A duplicate name surfaces as
// common.ErrorAlreadyExists.
func (s *CategoryService) Create(ctx context.Context, name string) (*models.Category, error) {
	cat, err := s.repomanager.Categories(s.db).Create(ctx, &models.Category{Name: name})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, fmt.Errorf("%w: category with this name already exists", common.ErrorAlreadyExists)
		}
		return nil, err
	}
	return cat, nil
}

// List returns all categories ordered by name.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.repomanager.Categories(s.db).List(ctx)
}
