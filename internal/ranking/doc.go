// Package ranking implements the favorites reconciliation engine and the
// ranking read side.
//
// Reconciler takes a user's full desired favorite sets for the four
// categories, diffs them against the stored state, and applies the net
// effect (entity upserts, link inserts/deletes, atomic count mutations,
// zero-count pruning) inside a single transaction. Aggregate materializes
// the top-N views over the counts the reconciler maintains.
package ranking
