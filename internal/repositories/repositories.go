package repositories

import (
	"database/sql"
)

// Querier is the subset of database operations shared by *sql.DB and *sql.Tx.
//
// Repositories are constructed over a Querier rather than a concrete
// connection so that reconciliation can run every repository call inside one
// transaction.
type Querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)
