package main

import (
	"context"
	"fmt"

	"github.com/jihohub/track-list-now/internal/formatter"
	"github.com/jihohub/track-list-now/internal/models"
	"github.com/jihohub/track-list-now/internal/ranking"
	"github.com/jihohub/track-list-now/internal/shared"
	"github.com/urfave/cli/v3"
)

func rankingCommand(r *Runner) *cli.Command {
	categoryFlag := &cli.StringFlag{
		Name:     "category",
		Aliases:  []string{"c"},
		Usage:    "Ranking category (ALL_TIME_ARTIST, ALL_TIME_TRACK, CURRENT_ARTIST, CURRENT_TRACK)",
		Required: true,
	}

	return &cli.Command{
		Name:  "ranking",
		Usage: "Inspect and export ranking views",
		Commands: []*cli.Command{
			{
				Name:  "top",
				Usage: "Print the top-N entries for a category",
				Flags: []cli.Flag{
					categoryFlag,
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Number of entries (0 uses the configured default)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output as JSON",
					},
				},
				Action: r.RankingTop,
			},
			{
				Name:  "export",
				Usage: "Export a category's ranking to a file",
				Flags: []cli.Flag{
					categoryFlag,
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Number of entries (0 uses the configured default)",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Export format: csv, md, or txt",
						Value: "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Base output path (extension is appended)",
					},
				},
				Action: r.RankingExport,
			},
		},
	}
}

func (r *Runner) topEntries(cmd *cli.Command) (*formatter.RankingExport, error) {
	category, err := models.ParseCategory(cmd.String("category"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidCategory, err)
	}

	db, err := r.openDatabase()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	aggregate := ranking.NewAggregate(db, r.config.Ranking)
	entries, err := aggregate.TopN(category, int(cmd.Int("limit")))
	if err != nil {
		return nil, fmt.Errorf("failed to load ranking: %w", err)
	}

	return &formatter.RankingExport{Category: category, Entries: entries}, nil
}

// RankingTop prints the top-N ranking for one category.
func (r *Runner) RankingTop(ctx context.Context, cmd *cli.Command) error {
	export, err := r.topEntries(cmd)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(export, true)
	}

	text, err := formatter.ExportToText(export)
	if err != nil {
		return fmt.Errorf("failed to format ranking: %w", err)
	}

	return r.writePlain("%s", text)
}

// RankingExport writes the top-N ranking for one category to a file.
func (r *Runner) RankingExport(ctx context.Context, cmd *cli.Command) error {
	export, err := r.topEntries(cmd)
	if err != nil {
		return err
	}

	base := cmd.String("output")

	var path string
	switch format := cmd.String("format"); format {
	case "csv":
		path, err = formatter.WriteCSVExport(export, base)
	case "md":
		path, err = formatter.WriteMarkdownExport(export, base)
	case "txt":
		path, err = formatter.WriteTextExport(export, base)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
	if err != nil {
		return fmt.Errorf("failed to export ranking: %w", err)
	}

	r.writePlain("✓ Exported %s ranking to %s\n", export.Category, path)
	return nil
}
