package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/mysterycard/internal/dbx"
	"github.com/dmitrijs2005/mysterycard/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/mysterycard/internal/server/repositories/adminconfig"
	"github.com/dmitrijs2005/mysterycard/internal/server/repositories/cards"
)

// RepositoryManager builds repositories bound to a connection or transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Cards(db dbx.DBTX) cards.Repository
	AdminConfig(db dbx.DBTX) adminconfig.Repository
}
