// Package repositories provides persistence layer implementations for all model types.
//
// Each repository implements models.Repository[T] for a specific entity type
// (plus domain-specific operations such as Ensure and Unlink), and operates
// over a Querier so the same code runs against *sql.DB or *sql.Tx. The
// reconciler relies on this to apply a full favorites update inside a single
// transaction.
package repositories
