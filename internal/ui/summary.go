// Package ui renders command results for the terminal.
package ui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/vvka-141/surveyetl/pkg/surveyetl"
)

// LoadSummary renders the one-line summary of a finished load.
func LoadSummary(r surveyetl.LoadResult) string {
	return fmt.Sprintf("%s survey %s: %s rows in %s batches, %s purged %s",
		successStyle.Render(symbolCheck),
		valueStyle.Render(strconv.Itoa(r.SurveyNumber)),
		valueStyle.Render(strconv.Itoa(r.Rows)),
		valueStyle.Render(strconv.Itoa(r.Batches)),
		strconv.FormatInt(r.Purged, 10),
		mutedStyle.Render("("+r.Duration().Round(time.Millisecond).String()+")"),
	)
}

// LoadFailure renders the line reported for a survey whose load failed.
func LoadFailure(surveyNumber int, err error) string {
	return fmt.Sprintf("%s survey %s: %v",
		errorStyle.Render(symbolCross),
		valueStyle.Render(strconv.Itoa(surveyNumber)),
		err,
	)
}

// SurveyStatus describes one registered survey and its source file.
type SurveyStatus struct {
	Number int
	Year   int
	Fields int
	Source string
	Found  bool
}

// SurveyTable renders registered surveys with the state of their CSV files.
func SurveyTable(surveys []SurveyStatus) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers("SURVEY", "YEAR", "FIELDS", "SOURCE", "FILE").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, s := range surveys {
		year := "-"
		if s.Year != 0 {
			year = strconv.Itoa(s.Year)
		}
		status := successStyle.Render(symbolCheck + " found")
		if !s.Found {
			status = warningStyle.Render(symbolWarn + " missing")
		}
		t.Row(strconv.Itoa(s.Number), year, strconv.Itoa(s.Fields), s.Source, status)
	}
	return t.String()
}
