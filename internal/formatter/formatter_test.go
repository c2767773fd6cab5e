package formatter

import (
	"encoding/csv"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jihohub/track-list-now/internal/models"
	internaltesting "github.com/jihohub/track-list-now/internal/testing"
)

func sampleExport() *RankingExport {
	return &RankingExport{
		Category: models.AllTimeTrack,
		Entries: []models.RankedEntry{
			{EntityID: "t1", Name: "First Song", Artists: "Band One", Count: 12, Metric: 88},
			{EntityID: "t2", Name: "Second Song", Artists: "Band Two", Count: 7, Metric: 91},
		},
	}
}

func TestExportToCSV(t *testing.T) {
	t.Run("Writes header and ranked rows", func(t *testing.T) {
		data, err := ExportToCSV(sampleExport())
		if err != nil {
			t.Fatalf("failed to export CSV: %v", err)
		}

		records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("failed to parse CSV: %v", err)
		}

		if len(records) != 3 {
			t.Fatalf("expected header + 2 rows, got %d", len(records))
		}
		if records[0][5] != "popularity" {
			t.Errorf("expected metric column 'popularity', got %s", records[0][5])
		}
		if records[1][0] != "1" || records[1][2] != "First Song" {
			t.Errorf("unexpected first row: %v", records[1])
		}
		if records[2][4] != "7" {
			t.Errorf("expected count 7 in second row, got %s", records[2][4])
		}
	})

	t.Run("Artist category uses followers column", func(t *testing.T) {
		export := &RankingExport{Category: models.CurrentArtist}

		data, err := ExportToCSV(export)
		if err != nil {
			t.Fatalf("failed to export CSV: %v", err)
		}
		if !strings.Contains(string(data), "followers") {
			t.Errorf("expected followers column, got %s", data)
		}
	})
}

func TestExportToMarkdown(t *testing.T) {
	data, err := ExportToMarkdown(sampleExport())
	if err != nil {
		t.Fatalf("failed to export Markdown: %v", err)
	}

	md := string(data)
	if !strings.Contains(md, "# All Time Track Ranking") {
		t.Errorf("expected title, got %s", md)
	}
	if !strings.Contains(md, "| 1 | First Song — Band One | 12 | 88 |") {
		t.Errorf("expected first table row, got %s", md)
	}
}

func TestExportToText(t *testing.T) {
	data, err := ExportToText(sampleExport())
	if err != nil {
		t.Fatalf("failed to export text: %v", err)
	}

	text := string(data)
	if !strings.Contains(text, "1. Band One - First Song (12 favorites)") {
		t.Errorf("expected first line, got %s", text)
	}
	if !strings.Contains(text, "Entries: 2") {
		t.Errorf("expected entry count, got %s", text)
	}
}

func TestWriteExports(t *testing.T) {
	t.Run("CSV file", func(t *testing.T) {
		dir := t.TempDir()
		base := filepath.Join(dir, "alltime")

		path, err := WriteCSVExport(sampleExport(), base)
		if err != nil {
			t.Fatalf("failed to write CSV export: %v", err)
		}
		if path != base+".csv" {
			t.Errorf("unexpected path: %s", path)
		}
		internaltesting.AssertFileExists(t, path)
	})

	t.Run("Markdown file", func(t *testing.T) {
		dir := t.TempDir()
		base := filepath.Join(dir, "alltime")

		path, err := WriteMarkdownExport(sampleExport(), base)
		if err != nil {
			t.Fatalf("failed to write Markdown export: %v", err)
		}

		content := internaltesting.MustReadFile(t, path)
		if !strings.Contains(content, "Ranking") {
			t.Errorf("expected ranking content, got %s", content)
		}
	})

	t.Run("Text file defaults to category name", func(t *testing.T) {
		original := internaltesting.MustGetwd(t)
		internaltesting.MustChdir(t, t.TempDir())
		defer internaltesting.MustChdir(t, original)

		path, err := WriteTextExport(sampleExport(), "")
		if err != nil {
			t.Fatalf("failed to write text export: %v", err)
		}
		if path != "all_time_track.txt" {
			t.Errorf("unexpected default path: %s", path)
		}
	})
}
