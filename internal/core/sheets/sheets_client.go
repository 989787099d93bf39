package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Client reads the course catalogue spreadsheet.
type Client struct {
	svc     *sheets.Service
	sheetID string
}

func NewClient(ctx context.Context, sheetID string, opts ...option.ClientOption) (*Client, error) {
	if sheetID == "" {
		return nil, fmt.Errorf("GOOGLE_SHEETS_ID not set")
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Client{svc: svc, sheetID: sheetID}, nil
}

// Rows returns the formatted cell values of rng, one slice per row.
func (c *Client) Rows(ctx context.Context, rng string) ([][]string, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.sheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read sheet range %s: %w", rng, err)
	}
	rows := make([][]string, 0, len(resp.Values))
	for _, r := range resp.Values {
		cells := make([]string, len(r))
		for i, v := range r {
			cells[i] = fmt.Sprint(v)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}
