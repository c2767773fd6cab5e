package main

import (
	"context"
	"fmt"

	"github.com/jihohub/track-list-now/internal/shared"
	"github.com/jihohub/track-list-now/internal/tasks"
	"github.com/urfave/cli/v3"
)

func refreshCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "refresh",
		Usage:  "Refresh cached catalog metadata from Spotify",
		Action: r.Refresh,
	}
}

// Refresh re-fetches metadata for every cached artist and track.
func (r *Runner) Refresh(ctx context.Context, cmd *cli.Command) error {
	if r.catalog == nil {
		return fmt.Errorf("%w: spotify credentials not configured", shared.ErrMissingCredentials)
	}

	if err := r.catalog.Authenticate(ctx); err != nil {
		return fmt.Errorf("failed to authenticate with %s: %w", r.catalog.Name(), err)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	engine := tasks.NewRefreshEngine(db, r.catalog)

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase.String())
		}
		close(done)
	}()

	result, err := engine.Refresh(ctx, progress)
	close(progress)
	<-done

	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	r.writePlain("✓ Refreshed %d artists and %d tracks\n", result.ArtistsUpdated, result.TracksUpdated)
	if len(result.Missing) > 0 {
		r.writePlain("⚠ %d IDs no longer resolve: %v\n", len(result.Missing), result.Missing)
	}

	return nil
}
