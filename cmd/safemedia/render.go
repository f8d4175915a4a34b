package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"safemedia/internal/analysis"
)

func renderTable(headers []string, rows [][]string, styled bool) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	if styled {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleDefault)
	}

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:           i + 1,
			Align:            text.AlignLeft,
			AlignHeader:      text.AlignLeft,
			WidthMax:         60,
			WidthMaxEnforcer: text.WrapSoft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// renderReport prints a full content-safety report: header, ratings table,
// warnings table, then controversies and the overall assessment as prose.
func renderReport(out io.Writer, report *analysis.MediaAnalysis) {
	styled := isTerminal(out)

	fmt.Fprintf(out, "%s (%s)\n\n", report.Title, report.MediaType)

	ratingRows := [][]string{
		{"Origin country", report.Ratings.OriginCountry},
		{"Origin rating", report.Ratings.OriginRating},
		{"US MPA rating", report.Ratings.USMPARating},
		{"Suggested age", report.Ratings.SuggestedAge},
	}
	fmt.Fprintln(out, renderTable([]string{"Rating", "Value"}, ratingRows, styled))
	if explanation := strings.TrimSpace(report.Ratings.Explanation); explanation != "" {
		fmt.Fprintf(out, "\n%s\n", explanation)
	}

	if len(report.ContentWarnings) > 0 {
		rows := make([][]string, 0, len(report.ContentWarnings))
		for _, warning := range report.ContentWarnings {
			rows = append(rows, []string{
				warning.Category,
				string(warning.Severity),
				warning.Details,
				strings.Join(warning.SpecificScenes, "; "),
			})
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderTable([]string{"Category", "Severity", "Details", "Scenes"}, rows, styled))
	}

	if len(report.Controversies) > 0 {
		fmt.Fprintln(out, "\nControversies:")
		for _, item := range report.Controversies {
			fmt.Fprintf(out, "  - %s\n", item)
		}
	}

	if assessment := strings.TrimSpace(report.OverallAssessment); assessment != "" {
		fmt.Fprintf(out, "\n%s\n", assessment)
	}
}
