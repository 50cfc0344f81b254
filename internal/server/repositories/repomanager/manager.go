package repomanager

import (
	"context"
	"database/sql"

	"eventhub/internal/dbx"
	"eventhub/internal/server/repositories/categories"
	"eventhub/internal/server/repositories/events"
	"eventhub/internal/server/repositories/locations"
	"eventhub/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to a concrete
// database handle (either *sql.DB or an open transaction).
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Events(db dbx.DBTX) events.Repository
	Categories(db dbx.DBTX) categories.Repository
	Locations(db dbx.DBTX) locations.Repository
}
