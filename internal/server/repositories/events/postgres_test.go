package events

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"eventhub/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestBuildConditions_Empty(t *testing.T) {
	where, args := buildConditions(Filter{})
	if where != "" {
		t.Fatalf("expected empty clause, got %q", where)
	}
	if len(args) != 0 {
		t.Fatalf("expected no args, got %v", args)
	}
}

func TestBuildConditions_PlaceholderNumbering(t *testing.T) {
	f := Filter{CategoryID: 3, City: "Riga", Search: "jazz", FutureOnly: true, OrganizerID: 7}
	where, args := buildConditions(f)

	want := []string{"$1", "$2", "$3", "$4", "$5", "$6"}
	for _, p := range want {
		if !strings.Contains(where, p) {
			t.Fatalf("clause missing placeholder %s: %q", p, where)
		}
	}
	if strings.Contains(where, "?") {
		t.Fatalf("clause still has raw placeholder: %q", where)
	}
	// category, city, search x3, organizer
	if len(args) != 6 {
		t.Fatalf("expected 6 args, got %v", args)
	}
	if args[0] != int64(3) || args[1] != "Riga" || args[5] != int64(7) {
		t.Fatalf("unexpected args: %v", args)
	}
	if !strings.Contains(where, "e.event_date >= CURRENT_DATE") {
		t.Fatalf("missing future-only condition: %q", where)
	}
}

func TestBuildConditions_MembershipFilters(t *testing.T) {
	where, args := buildConditions(Filter{LikedByID: 5, RegisteredByID: 6})
	if !strings.Contains(where, "event_likes") || !strings.Contains(where, "event_registrations") {
		t.Fatalf("missing membership subqueries: %q", where)
	}
	if len(args) != 2 || args[0] != int64(5) || args[1] != int64(6) {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestOrderClause(t *testing.T) {
	if got := orderClause("desc"); !strings.Contains(got, "likes_count DESC") {
		t.Fatalf("unexpected clause: %q", got)
	}
	if got := orderClause("asc"); !strings.Contains(got, "likes_count ASC") {
		t.Fatalf("unexpected clause: %q", got)
	}
	if got := orderClause(""); !strings.Contains(got, "created_at DESC") || strings.Contains(got, "likes_count") {
		t.Fatalf("unexpected clause: %q", got)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+events\s+WHERE\s+id\s*=\s*\$1$`).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 99)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestAddLike_IncrementsCounter(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+event_likes\s*\(user_id,\s*event_id\)\s*VALUES\s*\(\$1,\s*\$2\)$`).
		WithArgs(int64(5), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`(?s)^UPDATE\s+events\s+SET\s+likes_count\s*=\s*likes_count\s*\+\s*1`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.AddLike(context.Background(), 1, 5); err != nil {
		t.Fatalf("AddLike error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRemoveLike_FloorsCounterAtZero(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+event_likes\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+event_id\s*=\s*\$2$`).
		WithArgs(int64(5), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`(?s)^UPDATE\s+events\s+SET\s+likes_count\s*=\s*GREATEST\(likes_count\s*-\s*1,\s*0\)`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.RemoveLike(context.Background(), 1, 5); err != nil {
		t.Fatalf("RemoveLike error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStats_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"created", "liked", "registered"}).AddRow(int64(2), int64(5), int64(3))
	mock.ExpectQuery(`(?s)^SELECT\s+\(SELECT\s+COUNT\(\*\)\s+FROM\s+events\s+WHERE\s+organizer_id\s*=\s*\$1\)`).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	got, err := repo.Stats(context.Background(), 7)
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if got.CreatedEvents != 2 || got.LikedEvents != 5 || got.RegisteredEvents != 3 {
		t.Fatalf("unexpected stats: %+v", got)
	}
}
