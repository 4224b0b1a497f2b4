package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/deckexc/internal/dbx"
	"github.com/dmitrijs2005/deckexc/internal/server/repositories/paymentdetails"
	"github.com/dmitrijs2005/deckexc/internal/server/repositories/tokens"
	"github.com/dmitrijs2005/deckexc/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to either the pool or a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Tokens(db dbx.DBTX) tokens.Repository
	PaymentDetails(db dbx.DBTX) paymentdetails.Repository
}
