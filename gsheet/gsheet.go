// Package gsheet downloads the monthly tables from a Google spreadsheet.
//
// Teams keep actuals, budget, fx and cash in a shared spreadsheet long before
// anyone scripts an export. This client reads each tab as csv so the books can
// be pulled straight from the source.
package gsheet

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Client reads tabs from a single Google spreadsheet.
type Client struct {
	svc           *sheets.Service
	spreadsheetID string
}

// NewFromEnv creates a client for the spreadsheet named by the
// CFO_SPREADSHEET_ID environment variable, authenticated with a service
// account.
//
// Credentials are read from GOOGLE_SERVICE_ACCOUNT_JSON (inline json),
// GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_APPLICATION_CREDENTIALS (a file path).
func NewFromEnv(ctx context.Context) (*Client, error) {
	id := strings.TrimSpace(os.Getenv("CFO_SPREADSHEET_ID"))
	if id == "" {
		return nil, errors.New("missing CFO_SPREADSHEET_ID")
	}
	credentialsJSON, err := credentialsFromEnv()
	if err != nil {
		return nil, err
	}
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: id}, nil
}

func credentialsFromEnv() ([]byte, error) {
	if inline := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")); inline != "" {
		return []byte(inline), nil
	}
	file := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if file == "" {
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	return content, nil
}

// CSV reads a whole tab and renders it as csv, cells as displayed in the
// spreadsheet.
func (c *Client) CSV(ctx context.Context, sheet string) ([]byte, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, sheet).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", sheet, err)
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(toRecords(resp.Values)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// toRecords converts sheet values to csv records. The API trims trailing
// empty cells, so short rows are padded back to the header width.
func toRecords(values [][]any) [][]string {
	if len(values) == 0 {
		return nil
	}
	width := len(values[0])
	records := make([][]string, 0, len(values))
	for _, row := range values {
		record := make([]string, max(len(row), width))
		for i, cell := range row {
			record[i] = strings.TrimSpace(fmt.Sprint(cell))
		}
		records = append(records, record)
	}
	return records
}
