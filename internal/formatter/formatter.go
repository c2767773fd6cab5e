// package formatter provides functions to export ranking data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jihohub/track-list-now/internal/models"
	"github.com/jihohub/track-list-now/internal/shared"
)

// RankingExport bundles one category's top-N entries for export.
type RankingExport struct {
	Category models.Category      `json:"category"`
	Entries  []models.RankedEntry `json:"entries"`
}

// ExportToCSV converts a RankingExport to CSV format with columns: Rank, ID, Name, Artists, Count, and the category's metric
func ExportToCSV(export *RankingExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Rank", "ID", "Name", "Artists", "Count", export.Category.MetricName()}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, entry := range export.Entries {
		record := []string{
			strconv.Itoa(i + 1),
			entry.EntityID,
			entry.Name,
			entry.Artists,
			strconv.Itoa(entry.Count),
			strconv.Itoa(entry.Metric),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a RankingExport to a Markdown table
func ExportToMarkdown(export *RankingExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s Ranking\n\n", categoryTitle(export.Category)))
	buf.WriteString(fmt.Sprintf("**Entries**: %d\n\n", len(export.Entries)))

	buf.WriteString(fmt.Sprintf("| Rank | Name | Favorites | %s |\n", capitalize(export.Category.MetricName())))
	buf.WriteString("|------|------|-----------|------------|\n")

	for i, entry := range export.Entries {
		name := entry.Name
		if entry.Artists != "" {
			name = fmt.Sprintf("%s — %s", entry.Name, entry.Artists)
		}
		buf.WriteString(fmt.Sprintf("| %d | %s | %d | %d |\n", i+1, name, entry.Count, entry.Metric))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a RankingExport to plain text format
func ExportToText(export *RankingExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Ranking: %s\n", export.Category))
	buf.WriteString(fmt.Sprintf("Entries: %d\n\n", len(export.Entries)))

	for i, entry := range export.Entries {
		if entry.Artists != "" {
			buf.WriteString(fmt.Sprintf("%d. %s - %s (%d favorites)\n", i+1, entry.Artists, entry.Name, entry.Count))
		} else {
			buf.WriteString(fmt.Sprintf("%d. %s (%d favorites)\n", i+1, entry.Name, entry.Count))
		}
	}

	return buf.Bytes(), nil
}

// ToJSON generates an indented JSON representation of the export
func ToJSON(export *RankingExport) ([]byte, error) {
	return shared.MarshalJSON(export, true)
}

// WriteCSVExport writes a ranking to {base}.csv, defaulting base to the category name.
func WriteCSVExport(export *RankingExport, baseFilepath string) (string, error) {
	if baseFilepath == "" {
		baseFilepath = strings.ToLower(string(export.Category))
	}

	csvData, err := ExportToCSV(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	path := baseFilepath + ".csv"
	if err := os.WriteFile(path, csvData, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return path, nil
}

// WriteMarkdownExport writes a ranking to {base}.md, defaulting base to the category name.
func WriteMarkdownExport(export *RankingExport, baseFilepath string) (string, error) {
	if baseFilepath == "" {
		baseFilepath = strings.ToLower(string(export.Category))
	}

	mdData, err := ExportToMarkdown(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	path := baseFilepath + ".md"
	if err := os.WriteFile(path, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return path, nil
}

// WriteTextExport writes a ranking to {base}.txt, defaulting base to the category name.
func WriteTextExport(export *RankingExport, baseFilepath string) (string, error) {
	if baseFilepath == "" {
		baseFilepath = strings.ToLower(string(export.Category))
	}

	textData, err := ExportToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	path := baseFilepath + ".txt"
	if err := os.WriteFile(path, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return path, nil
}

// categoryTitle renders a category constant as a human-readable title.
func categoryTitle(category models.Category) string {
	words := strings.Split(strings.ToLower(string(category)), "_")
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
