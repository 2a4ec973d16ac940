// Package googleapi adapts Google's REST services to the narrow interfaces
// the core depends on. All shape-assumptions about the external objects stay
// behind these adapters.
package googleapi

import (
	"context"
	"errors"
	"net/http"

	"ct-assessment/internal/domain"

	"golang.org/x/oauth2"
	gapi "google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// sheetRange addresses the default sheet for append calls.
const sheetRange = "Sheet1!A1"

// SheetsClient implements domain.SpreadsheetClient against the Google Sheets
// API. Each call carries its own bearer token; the client holds no state.
type SheetsClient struct{}

// NewSheetsClient creates a SheetsClient.
func NewSheetsClient() *SheetsClient {
	return &SheetsClient{}
}

func sheetsService(ctx context.Context, token string) (*sheets.Service, error) {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return sheets.NewService(ctx, option.WithTokenSource(src))
}

// Create makes a new spreadsheet and returns its opaque identifier.
func (c *SheetsClient) Create(ctx context.Context, token, title string) (string, error) {
	svc, err := sheetsService(ctx, token)
	if err != nil {
		return "", domain.NewError(domain.CodeRemoteError, "failed to build sheets client", err)
	}
	resp, err := svc.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: title},
	}).Context(ctx).Do()
	if err != nil {
		return "", translateError(err)
	}
	return resp.SpreadsheetId, nil
}

// AppendRow appends one fixed-width row to the spreadsheet.
func (c *SheetsClient) AppendRow(ctx context.Context, token, spreadsheetID string, row []interface{}) error {
	svc, err := sheetsService(ctx, token)
	if err != nil {
		return domain.NewError(domain.CodeRemoteError, "failed to build sheets client", err)
	}
	_, err = svc.Spreadsheets.Values.Append(spreadsheetID, sheetRange, &sheets.ValueRange{
		Values: [][]interface{}{row},
	}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return translateError(err)
	}
	return nil
}

// translateError maps Google API failures onto the domain's failure
// taxonomy: not-found invalidates the cached resource, 401/403 invalidate
// the token, everything else is a plain remote error.
func translateError(err error) error {
	var apiErr *gapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusNotFound:
			return domain.ErrSpreadsheetNotFound
		case http.StatusUnauthorized, http.StatusForbidden:
			return domain.ErrRemoteUnauthorized
		}
	}
	return domain.NewError(domain.CodeRemoteError, "google api call failed", err)
}
