package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

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

// selectColumns is the joined projection shared by GetByID and List. The
// TIME column is cast to text so it scans into a plain string.
const selectColumns = `
	e.id, e.title, e.short_description, e.full_description,
	e.event_date, e.event_time::text,
	e.location_id, e.organizer_id, e.image_key,
	e.likes_count, e.participants_count, e.created_at, e.updated_at,
	l.id, l.city, l.street, l.house, l.created_at, l.updated_at,
	u.id, u.email, u.first_name, u.last_name, u.created_at, u.updated_at`

func scanEvent(row interface{ Scan(dest ...any) error }) (*models.Event, error) {
	e := &models.Event{Location: &models.Location{}, Organizer: &models.User{}}
	err := row.Scan(
		&e.ID, &e.Title, &e.ShortDescription, &e.FullDescription,
		&e.Date, &e.StartTime,
		&e.LocationID, &e.OrganizerID, &e.ImageKey,
		&e.LikesCount, &e.ParticipantsCount, &e.CreatedAt, &e.UpdatedAt,
		&e.Location.ID, &e.Location.City, &e.Location.Street, &e.Location.House,
		&e.Location.CreatedAt, &e.Location.UpdatedAt,
		&e.Organizer.ID, &e.Organizer.Email, &e.Organizer.FirstName, &e.Organizer.LastName,
		&e.Organizer.CreatedAt, &e.Organizer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *PostgresRepository) Create(ctx context.Context, event *models.Event) (*models.Event, error) {

	query :=
		`INSERT INTO events (title, short_description, full_description, event_date, event_time, location_id, organizer_id)
         VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		event.Title, event.ShortDescription, event.FullDescription,
		event.Date, event.StartTime, event.LocationID, event.OrganizerID).
		Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return event, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	query := `SELECT` + selectColumns + `
		 FROM events e
		 JOIN locations l ON l.id = e.location_id
		 JOIN users u ON u.id = e.organizer_id
		 WHERE e.id = $1
		 `

	event, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := r.loadCategories(ctx, []*models.Event{event}); err != nil {
		return nil, err
	}

	return event, nil
}

func (r *PostgresRepository) Update(ctx context.Context, event *models.Event) error {
	query :=
		`UPDATE events
		 SET title = $2, short_description = $3, full_description = $4,
		     event_date = $5, event_time = $6, location_id = $7, updated_at = now()
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query,
		event.ID, event.Title, event.ShortDescription, event.FullDescription,
		event.Date, event.StartTime, event.LocationID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

// buildConditions translates a Filter into WHERE clauses and their args.
// Argument numbering starts at $1.
func buildConditions(f Filter) (string, []any) {
	var conds []string
	var args []any

	add := func(cond string, vals ...any) {
		for _, v := range vals {
			args = append(args, v)
			cond = strings.Replace(cond, "?", fmt.Sprintf("$%d", len(args)), 1)
		}
		conds = append(conds, cond)
	}

	if f.CategoryID != 0 {
		add(`EXISTS (SELECT 1 FROM event_categories ec WHERE ec.event_id = e.id AND ec.category_id = ?)`, f.CategoryID)
	}
	if f.City != "" {
		add(`l.city ILIKE '%' || ? || '%'`, f.City)
	}
	if f.Search != "" {
		add(`(e.title ILIKE '%' || ? || '%' OR e.short_description ILIKE '%' || ? || '%' OR e.full_description ILIKE '%' || ? || '%')`,
			f.Search, f.Search, f.Search)
	}
	if f.FutureOnly {
		conds = append(conds, `e.event_date >= CURRENT_DATE`)
	}
	if f.OrganizerID != 0 {
		add(`e.organizer_id = ?`, f.OrganizerID)
	}
	if f.LikedByID != 0 {
		add(`EXISTS (SELECT 1 FROM event_likes el WHERE el.event_id = e.id AND el.user_id = ?)`, f.LikedByID)
	}
	if f.RegisteredByID != 0 {
		add(`EXISTS (SELECT 1 FROM event_registrations er WHERE er.event_id = e.id AND er.user_id = ?)`, f.RegisteredByID)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func orderClause(sortByLikes string) string {
	switch sortByLikes {
	case "desc":
		return ` ORDER BY e.likes_count DESC, e.created_at DESC`
	case "asc":
		return ` ORDER BY e.likes_count ASC, e.created_at DESC`
	default:
		return ` ORDER BY e.created_at DESC`
	}
}

func (r *PostgresRepository) List(ctx context.Context, f Filter, limit, offset int) ([]*models.Event, error) {
	where, args := buildConditions(f)

	query := `SELECT` + selectColumns + `
		 FROM events e
		 JOIN locations l ON l.id = e.location_id
		 JOIN users u ON u.id = e.organizer_id` +
		where + orderClause(f.SortByLikes) +
		fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)

	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := r.loadCategories(ctx, result); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PostgresRepository) Count(ctx context.Context, f Filter) (int64, error) {
	where, args := buildConditions(f)

	query := `SELECT COUNT(*)
		 FROM events e
		 JOIN locations l ON l.id = e.location_id` +
		where

	var n int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return n, nil
}

// loadCategories hydrates Categories for the given events in one query.
func (r *PostgresRepository) loadCategories(ctx context.Context, events []*models.Event) error {
	if len(events) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(events))
	byID := make(map[int64]*models.Event, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
		byID[e.ID] = e
	}

	query :=
		`SELECT ec.event_id, c.id, c.name
		 FROM event_categories ec
		 JOIN categories c ON c.id = ec.category_id
		 WHERE ec.event_id = ANY($1)
		 ORDER BY c.name
		 `

	rows, err := r.db.QueryContext(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var eventID int64
		var c models.Category
		if err := rows.Scan(&eventID, &c.ID, &c.Name); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if e, ok := byID[eventID]; ok {
			e.Categories = append(e.Categories, c)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// ReplaceCategories rewrites the category set of an event. Run inside a
// transaction together with the event write it belongs to.
func (r *PostgresRepository) ReplaceCategories(ctx context.Context, eventID int64, categoryIDs []int64) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM event_categories WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	if len(categoryIDs) == 0 {
		return nil
	}

	query :=
		`INSERT INTO event_categories (event_id, category_id)
		 SELECT $1, unnest($2::bigint[])
		 `

	if _, err := r.db.ExecContext(ctx, query, eventID, categoryIDs); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) SetImageKey(ctx context.Context, eventID int64, key string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE events SET image_key = $2, updated_at = now() WHERE id = $1`, eventID, key)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) IsLiked(ctx context.Context, eventID, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM event_likes WHERE event_id = $1 AND user_id = $2)`,
		eventID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) IsRegistered(ctx context.Context, eventID, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM event_registrations WHERE event_id = $1 AND user_id = $2)`,
		eventID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) AddLike(ctx context.Context, eventID, userID int64) error {
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO event_likes (user_id, event_id) VALUES ($1, $2)`, userID, eventID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if _, err := r.db.ExecContext(ctx,
		`UPDATE events SET likes_count = likes_count + 1, updated_at = now() WHERE id = $1`, eventID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) RemoveLike(ctx context.Context, eventID, userID int64) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM event_likes WHERE user_id = $1 AND event_id = $2`, userID, eventID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if _, err := r.db.ExecContext(ctx,
		`UPDATE events SET likes_count = GREATEST(likes_count - 1, 0), updated_at = now() WHERE id = $1`, eventID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) AddRegistration(ctx context.Context, eventID, userID int64) error {
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO event_registrations (user_id, event_id) VALUES ($1, $2)`, userID, eventID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if _, err := r.db.ExecContext(ctx,
		`UPDATE events SET participants_count = participants_count + 1, updated_at = now() WHERE id = $1`, eventID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) RemoveRegistration(ctx context.Context, eventID, userID int64) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM event_registrations WHERE user_id = $1 AND event_id = $2`, userID, eventID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if _, err := r.db.ExecContext(ctx,
		`UPDATE events SET participants_count = GREATEST(participants_count - 1, 0), updated_at = now() WHERE id = $1`, eventID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Stats(ctx context.Context, userID int64) (*models.EventStats, error) {
	query :=
		`SELECT
		   (SELECT COUNT(*) FROM events WHERE organizer_id = $1),
		   (SELECT COUNT(*) FROM event_likes WHERE user_id = $1),
		   (SELECT COUNT(*) FROM event_registrations WHERE user_id = $1)
		 `

	stats := &models.EventStats{}
	err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&stats.CreatedEvents, &stats.LikedEvents, &stats.RegisteredEvents)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return stats, nil
}
