package locations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventhub/internal/common"
	"eventhub/internal/dbx"
	"eventhub/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, location *models.Location) (*models.Location, error) {

	query :=
		`INSERT INTO locations (city, street, house)
         VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		location.City, location.Street, location.House).
		Scan(&location.ID, &location.CreatedAt, &location.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return location, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Location, error) {
	query :=
		`SELECT id, city, street, house, created_at, updated_at FROM locations
		 WHERE id = $1
		 `

	location := &models.Location{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&location.ID, &location.City, &location.Street, &location.House,
			&location.CreatedAt, &location.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return location, nil
}

// List returns locations ordered by city, street, house. An empty city
// disables the filter; a non-empty one matches as a case-insensitive
// substring.
func (r *PostgresRepository) List(ctx context.Context, city string, limit, offset int) ([]models.Location, error) {
	query :=
		`SELECT id, city, street, house, created_at, updated_at FROM locations
		 WHERE ($1 = '' OR city ILIKE '%' || $1 || '%')
		 ORDER BY city, street, house
		 LIMIT $2 OFFSET $3
		 `

	rows, err := r.db.QueryContext(ctx, query, city, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Location
	for rows.Next() {
		var l models.Location
		if err := rows.Scan(&l.ID, &l.City, &l.Street, &l.House, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Count(ctx context.Context, city string) (int64, error) {
	query :=
		`SELECT COUNT(*) FROM locations
		 WHERE ($1 = '' OR city ILIKE '%' || $1 || '%')
		 `

	var n int64
	if err := r.db.QueryRowContext(ctx, query, city).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return n, nil
}
