package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jihohub/track-list-now/internal/models"
	"github.com/jihohub/track-list-now/internal/ranking"
	"github.com/jihohub/track-list-now/internal/shared"
	"github.com/urfave/cli/v3"
)

func favoritesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "favorites",
		Usage: "Read or submit a user's favorites",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Print a user's current favorites",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "user",
						Aliases:  []string{"u"},
						Usage:    "User ID",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output as JSON",
					},
				},
				Action: r.FavoritesGet,
			},
			{
				Name:  "set",
				Usage: "Submit a user's full desired favorites from a JSON file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to a submission JSON file",
						Required: true,
					},
				},
				Action: r.FavoritesSet,
			},
		},
	}
}

// FavoritesGet prints one user's favorites across all four categories.
func (r *Runner) FavoritesGet(ctx context.Context, cmd *cli.Command) error {
	userID := cmd.String("user")

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	view, err := ranking.NewFavoritesReader(db).Get(userID)
	if err != nil {
		return fmt.Errorf("failed to load favorites: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(view, true)
	}

	r.writePlain("Favorites for %s\n", view.UserID)
	for _, category := range models.Categories() {
		items := view.Category(category)
		r.writePlainln("%s (%d)", category, len(items))
		for i, item := range items {
			if item.Artists != "" {
				r.writePlain("  %d. %s - %s\n", i+1, item.Artists, item.Name)
			} else {
				r.writePlain("  %d. %s\n", i+1, item.Name)
			}
		}
	}

	return nil
}

// FavoritesSet reads a submission file and reconciles it transactionally.
func (r *Runner) FavoritesSet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("file")

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read submission file: %w", err)
	}

	var sub ranking.Submission
	if err := json.Unmarshal(data, &sub); err != nil {
		return fmt.Errorf("%w: malformed submission file: %v", shared.ErrInvalidInput, err)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := ranking.NewReconciler(db, r.logger).Reconcile(ctx, sub)
	if err != nil {
		return fmt.Errorf("failed to reconcile favorites: %w", err)
	}

	r.writePlain("✓ Reconciled favorites for %s (%d changes)\n", result.UserID, result.Changed())
	for _, delta := range result.Deltas {
		if len(delta.Added) == 0 && len(delta.Removed) == 0 {
			continue
		}
		r.writePlain("  %s: +%d -%d\n", delta.Category, len(delta.Added), len(delta.Removed))
	}

	return nil
}
