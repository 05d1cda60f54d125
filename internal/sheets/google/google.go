package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	applog "condo/internal/log"
	"condo/internal/notify"
	ports "condo/internal/sheets"
)

var (
	_ ports.ReportWriter     = (*Client)(nil)
	_ ports.ActivityAppender = (*Client)(nil)
)

var errNoCredentials = errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")

// Config selects the spreadsheet and how to authenticate against it.
type Config struct {
	SpreadsheetID   string
	ActivitySheet   string
	CredentialsJSON string
	CredentialsFile string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	activityBase  string
	logger        *applog.Logger

	mu    sync.Mutex
	known map[string]bool
}

// New authenticates with a service account and returns a client for one
// spreadsheet.
func New(ctx context.Context, cfg Config, logger *applog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	creds, err := loadCredentials(cfg)
	if err != nil {
		return nil, err
	}
	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return NewWithService(svc, cfg.SpreadsheetID, cfg.ActivitySheet, logger), nil
}

// NewWithService wraps an already configured service.
func NewWithService(svc *gsheet.Service, spreadsheetID, activitySheet string, logger *applog.Logger) *Client {
	if logger == nil {
		logger = applog.Discard()
	}
	if strings.TrimSpace(activitySheet) == "" {
		activitySheet = "Actividad"
	}
	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		activityBase:  activitySheet,
		logger:        logger.WithComponent(applog.ComponentSheets),
		known:         make(map[string]bool),
	}
}

func loadCredentials(cfg Config) ([]byte, error) {
	if js := strings.TrimSpace(cfg.CredentialsJSON); js != "" {
		return []byte(js), nil
	}
	path := strings.TrimSpace(cfg.CredentialsFile)
	if path == "" {
		path = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if path == "" {
		return nil, errNoCredentials
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	return b, nil
}

// WriteTable clears the sheet named t.Name, creating it when missing, and
// writes the header and rows from A1.
func (c *Client) WriteTable(ctx context.Context, t ports.Table) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	if err := c.ensureSheet(ctx, t.Name); err != nil {
		return "", err
	}

	values := tableValues(t)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, quoteSheet(t.Name), &gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("clear sheet %s: %w", t.Name, err)
	}

	width := len(t.Header)
	for _, r := range t.Rows {
		width = max(width, len(r))
	}
	rng := a1Range(t.Name, 1, max(width, 1), len(values))
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, &gsheet.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("write %s: %w", rng, err)
	}

	c.logger.InfoContext(ctx, "Report written", applog.FieldReport, t.Name, applog.FieldSheetsRef, rng)
	return rng, nil
}

// AppendActivity writes the event after the last used row of the activity
// sheet of the event's year.
func (c *Client) AppendActivity(ctx context.Context, e notify.Event) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	at := e.At
	if at.IsZero() {
		at = time.Now()
	}
	sheet := yearPrefixedName(c.activityBase, at.Year())
	if err := c.ensureSheet(ctx, sheet); err != nil {
		return "", err
	}

	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, quoteSheet(sheet)+"!A:A").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to get sheet dimensions for %s: %w", sheet, err)
	}
	nextRow := len(resp.Values) + 1

	rng := a1Range(sheet, nextRow, 4, 1)
	row := []any{at.Format("2006-01-02 15:04:05"), e.Collection, e.RecordID, e.Message}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, &gsheet.ValueRange{Values: [][]any{row}}).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to append activity to %s: %w", sheet, err)
	}
	return rng, nil
}

func (c *Client) ensureSheet(ctx context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.known[name] {
		return nil
	}

	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read spreadsheet: %w", err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil {
			c.known[sh.Properties.Title] = true
		}
	}
	if c.known[name] {
		return nil
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{Requests: []*gsheet.Request{{
		AddSheet: &gsheet.AddSheetRequest{Properties: &gsheet.SheetProperties{Title: name}},
	}}}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add sheet %s: %w", name, err)
	}
	c.known[name] = true
	c.logger.InfoContext(ctx, "Sheet created", "sheet", name)
	return nil
}
