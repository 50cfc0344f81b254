package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"eventhub/internal/common"
	"eventhub/internal/dbx"
	"eventhub/internal/server/auth"
	sc "eventhub/internal/server/config"
	"eventhub/internal/server/models"
	categoriesrepo "eventhub/internal/server/repositories/categories"
	eventsrepo "eventhub/internal/server/repositories/events"
	locationsrepo "eventhub/internal/server/repositories/locations"
	usersrepo "eventhub/internal/server/repositories/users"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func newTestHasher() *auth.PasswordHasher {
	// MinCost keeps the tests fast
	return auth.NewPasswordHasher(4)
}

func newTestCodec(t *testing.T) *auth.TokenCodec {
	t.Helper()
	return auth.NewTokenCodec([]byte("k"), "HS256", "iss", "aud", time.Hour)
}

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	getOut *models.User
	getErr error

	updProfileOut *models.User
	updProfileErr error

	updPasswordErr error
	lastPassword   string
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	u.ID = 1
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) UpdateProfile(ctx context.Context, id int64, firstName, lastName string) (*models.User, error) {
	if f.updProfileErr != nil {
		return nil, f.updProfileErr
	}
	if f.updProfileOut != nil {
		return f.updProfileOut, nil
	}
	return &models.User{ID: id, FirstName: firstName, LastName: lastName}, nil
}

func (f *fakeUsersRepo) UpdatePassword(ctx context.Context, id int64, hashedPassword string) error {
	f.lastPassword = hashedPassword
	return f.updPasswordErr
}

type fakeEventsRepo struct {
	getOut *models.Event
	getErr error

	createErr error
	updateErr error
	deleteErr error

	liked      bool
	registered bool
	statusErr  error

	addLikeCalls, removeLikeCalls int
	addRegCalls, removeRegCalls   int

	listOut  []*models.Event
	listErr  error
	countOut int64

	statsOut *models.EventStats

	imageKey string
}

func (f *fakeEventsRepo) Create(ctx context.Context, e *models.Event) (*models.Event, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	e.ID = 1
	return e, nil
}

func (f *fakeEventsRepo) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeEventsRepo) Update(ctx context.Context, e *models.Event) error { return f.updateErr }
func (f *fakeEventsRepo) Delete(ctx context.Context, id int64) error        { return f.deleteErr }

func (f *fakeEventsRepo) List(ctx context.Context, filter eventsrepo.Filter, limit, offset int) ([]*models.Event, error) {
	return f.listOut, f.listErr
}

func (f *fakeEventsRepo) Count(ctx context.Context, filter eventsrepo.Filter) (int64, error) {
	return f.countOut, nil
}

func (f *fakeEventsRepo) ReplaceCategories(ctx context.Context, eventID int64, categoryIDs []int64) error {
	return nil
}

func (f *fakeEventsRepo) SetImageKey(ctx context.Context, eventID int64, key string) error {
	f.imageKey = key
	return nil
}

func (f *fakeEventsRepo) IsLiked(ctx context.Context, eventID, userID int64) (bool, error) {
	return f.liked, f.statusErr
}

func (f *fakeEventsRepo) IsRegistered(ctx context.Context, eventID, userID int64) (bool, error) {
	return f.registered, f.statusErr
}

func (f *fakeEventsRepo) AddLike(ctx context.Context, eventID, userID int64) error {
	f.addLikeCalls++
	return nil
}

func (f *fakeEventsRepo) RemoveLike(ctx context.Context, eventID, userID int64) error {
	f.removeLikeCalls++
	return nil
}

func (f *fakeEventsRepo) AddRegistration(ctx context.Context, eventID, userID int64) error {
	f.addRegCalls++
	return nil
}

func (f *fakeEventsRepo) RemoveRegistration(ctx context.Context, eventID, userID int64) error {
	f.removeRegCalls++
	return nil
}

func (f *fakeEventsRepo) Stats(ctx context.Context, userID int64) (*models.EventStats, error) {
	return f.statsOut, nil
}

type fakeCategoriesRepo struct {
	createOut *models.Category
	createErr error

	byIDsOut []models.Category
	listOut  []models.Category
}

func (f *fakeCategoriesRepo) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	c.ID = 1
	return c, nil
}

func (f *fakeCategoriesRepo) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	for _, c := range f.byIDsOut {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeCategoriesRepo) GetByIDs(ctx context.Context, ids []int64) ([]models.Category, error) {
	return f.byIDsOut, nil
}

func (f *fakeCategoriesRepo) List(ctx context.Context) ([]models.Category, error) {
	return f.listOut, nil
}

type fakeLocationsRepo struct {
	getOut *models.Location
	getErr error

	listOut  []models.Location
	countOut int64
}

func (f *fakeLocationsRepo) Create(ctx context.Context, l *models.Location) (*models.Location, error) {
	l.ID = 1
	return l, nil
}

func (f *fakeLocationsRepo) GetByID(ctx context.Context, id int64) (*models.Location, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeLocationsRepo) List(ctx context.Context, city string, limit, offset int) ([]models.Location, error) {
	return f.listOut, nil
}

func (f *fakeLocationsRepo) Count(ctx context.Context, city string) (int64, error) {
	return f.countOut, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	e *fakeEventsRepo
	c *fakeCategoriesRepo
	l *fakeLocationsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error     { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository           { return m.u }
func (m *fakeRepoManager) Events(db dbx.DBTX) eventsrepo.Repository         { return m.e }
func (m *fakeRepoManager) Categories(db dbx.DBTX) categoriesrepo.Repository { return m.c }
func (m *fakeRepoManager) Locations(db dbx.DBTX) locationsrepo.Repository   { return m.l }

func testConfig() *sc.Config {
	return &sc.Config{
		S3RootUser:     "minio",
		S3RootPassword: "minio123",
		S3Bucket:       "posters",
		S3Region:       "us-east-1",
		S3BaseEndpoint: "http://localhost:9000",
	}
}
