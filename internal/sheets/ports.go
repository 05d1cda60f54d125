// Package sheets defines the spreadsheet ports used to export reports and
// the activity log.
package sheets

import (
	"context"

	"condo/internal/notify"
)

// Table is a named grid written to its own sheet. Header is the first row.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

type (
	// ReportWriter replaces the contents of the sheet named after the table.
	ReportWriter interface {
		WriteTable(ctx context.Context, t Table) (ref string, err error)
	}

	// ActivityAppender adds one row per store change to the activity log.
	ActivityAppender interface {
		AppendActivity(ctx context.Context, e notify.Event) (ref string, err error)
	}
)
