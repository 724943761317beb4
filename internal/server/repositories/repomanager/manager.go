package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/snoozer/internal/dbx"
	"github.com/dmitrijs2005/snoozer/internal/server/repositories/favorites"
	"github.com/dmitrijs2005/snoozer/internal/server/repositories/stories"
	"github.com/dmitrijs2005/snoozer/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Stories(db dbx.DBTX) stories.Repository
	Favorites(db dbx.DBTX) favorites.Repository
}
