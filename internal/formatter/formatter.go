// package formatter provides functions to export migration reports to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/desertthunder/mmt/internal/migrate"
	"github.com/desertthunder/mmt/internal/shared"
)

// ExportToCSV converts a run's conflict entries to CSV with columns:
// Kind, RemoteID, RemoteLabel, LocalID, LocalLabel, Reason
func ExportToCSV(reports []*migrate.Report) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Kind", "RemoteID", "RemoteLabel", "LocalID", "LocalLabel", "Reason"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, report := range reports {
		for _, conflict := range report.Conflicts {
			record := []string{
				string(conflict.Kind),
				strconv.FormatInt(conflict.RemoteID, 10),
				conflict.RemoteLabel,
				strconv.FormatInt(conflict.LocalID, 10),
				conflict.LocalLabel,
				string(conflict.Reason),
			}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts migration reports to Markdown, one section per
// entity kind with a counts table and any conflicts listed underneath.
func ExportToMarkdown(reports []*migrate.Report) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Migration Report\n\n")

	for _, report := range reports {
		buf.WriteString(fmt.Sprintf("## %s\n\n", report.Kind))
		buf.WriteString("| Created | Referenced | Skipped | Conflicted | Failed |\n")
		buf.WriteString("|---------|------------|---------|------------|--------|\n")
		buf.WriteString(fmt.Sprintf("| %d | %d | %d | %d | %d |\n\n",
			report.Created, report.Referenced, report.Skipped, report.Conflicted, report.Failed))

		if len(report.Terms) > 0 {
			buf.WriteString("### Created Terms\n\n")
			for _, term := range report.Terms {
				buf.WriteString(fmt.Sprintf("- %s (`%s`)\n", term.Name, term.Slug))
			}
			buf.WriteString("\n")
		}

		if len(report.Conflicts) > 0 {
			buf.WriteString("### Conflicts\n\n")
			for _, conflict := range report.Conflicts {
				buf.WriteString(fmt.Sprintf("- %s `%s` (remote id %d): %s\n",
					conflict.Kind, conflict.RemoteLabel, conflict.RemoteID, conflict.Reason))
			}
			buf.WriteString("\n")
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts migration reports to plain text format
func ExportToText(reports []*migrate.Report) ([]byte, error) {
	var buf bytes.Buffer

	for _, report := range reports {
		buf.WriteString(fmt.Sprintf("%s: %d created, %d referenced, %d skipped, %d conflicted, %d failed (%d pages)\n",
			report.Kind, report.Created, report.Referenced, report.Skipped,
			report.Conflicted, report.Failed, report.Pages))

		for _, conflict := range report.Conflicts {
			buf.WriteString(fmt.Sprintf("  conflict: %s (%s)\n", conflict.RemoteLabel, conflict.Reason))
		}
	}

	return buf.Bytes(), nil
}

// ToJSON generates an indented JSON representation of the reports.
func ToJSON(reports []*migrate.Report) ([]byte, error) {
	return shared.MarshalJSON(reports, true)
}

// WriteCSVExport writes the conflict CSV alongside a JSON copy of the full
// reports. Defaults to "migration" as the base filename & creates
// {base}_conflicts.csv and {base}_report.json
func WriteCSVExport(reports []*migrate.Report, baseFilepath string) (string, string, error) {
	if baseFilepath == "" {
		baseFilepath = "migration"
	}

	csvData, err := ExportToCSV(reports)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	conflictsFile := baseFilepath + "_conflicts.csv"
	if err := os.WriteFile(conflictsFile, csvData, 0644); err != nil {
		return "", "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	reportJSON, err := ToJSON(reports)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate report JSON: %w", err)
	}

	reportFile := baseFilepath + "_report.json"
	if err := os.WriteFile(reportFile, reportJSON, 0644); err != nil {
		return "", "", fmt.Errorf("failed to write report file: %w", err)
	}

	return conflictsFile, reportFile, nil
}

// WriteMarkdownExport writes the Markdown report.
//
// Defaults to "migration_report.md" as the filename.
func WriteMarkdownExport(reports []*migrate.Report, filepath string) (string, error) {
	if filepath == "" {
		filepath = "migration_report.md"
	}

	mdData, err := ExportToMarkdown(reports)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	if err := os.WriteFile(filepath, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return filepath, nil
}
