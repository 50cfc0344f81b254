package services

import (
	"context"
	"database/sql"

	"eventhub/internal/server/models"
	"eventhub/internal/server/repositories/repomanager"
)

type LocationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewLocationService(db *sql.DB, m repomanager.RepositoryManager) *LocationService {
	return &LocationService{db: db, repomanager: m}
}

func (s *LocationService) Create(ctx context.Context, city, street, house string) (*models.Location, error) {
	return s.repomanager.Locations(s.db).Create(ctx, &models.Location{City: city, Street: street, House: house})
}

func (s *LocationService) GetByID(ctx context.Context, id int64) (*models.Location, error) {
	return s.repomanager.Locations(s.db).GetByID(ctx, id)
}

// List returns locations filtered by city substring, with the total count
// for pagination.
func (s *LocationService) List(ctx context.Context, city string, limit, offset int) ([]models.Location, int64, error) {
	repo := s.repomanager.Locations(s.db)

	items, err := repo.List(ctx, city, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := repo.Count(ctx, city)
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}
