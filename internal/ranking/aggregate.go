package ranking

import (
	"github.com/jihohub/track-list-now/internal/models"
	"github.com/jihohub/track-list-now/internal/repositories"
	"github.com/jihohub/track-list-now/internal/shared"
)

const (
	defaultTopLimit = 10
	maxTopLimit     = 100
)

// Aggregate materializes top-N ranking views over the counts the reconciler
// maintains. Reads are non-transactional: eventually consistent with the
// latest committed reconciliation, no write side effects.
type Aggregate struct {
	rankings     *repositories.RankingRepository
	defaultLimit int
	maxLimit     int
}

// NewAggregate creates an Aggregate over the given Querier with limits from
// the ranking config. Zero config values fall back to the built-in limits.
func NewAggregate(q repositories.Querier, cfg shared.RankingConfig) *Aggregate {
	defaultLimit := cfg.DefaultLimit
	if defaultLimit <= 0 {
		defaultLimit = defaultTopLimit
	}

	maxLimit := cfg.MaxLimit
	if maxLimit <= 0 {
		maxLimit = maxTopLimit
	}

	return &Aggregate{
		rankings:     repositories.NewRankingRepository(q),
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// TopN returns at most n ranked entries for the category, ordered by count
// descending, tiebreak metric descending, then entity ID ascending. A
// non-positive n uses the configured default; n is clamped to the maximum.
func (a *Aggregate) TopN(category models.Category, n int) ([]models.RankedEntry, error) {
	if n <= 0 {
		n = a.defaultLimit
	}
	if n > a.maxLimit {
		n = a.maxLimit
	}

	return a.rankings.TopN(category, n)
}
