package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

var googleScopes = []string{
	sheets.SpreadsheetsScope,
	drive.DriveReadonlyScope,
}

type GoogleOptions struct {
	// service account json key
	CredentialsFile string
	Spreadsheet     string
	Worksheet       string
	// appended after the credentials, used to point the clients elsewhere in tests
	ClientOptions []option.ClientOption
}

// GoogleWorksheet writes cells through the Sheets API.
type GoogleWorksheet struct {
	values        *sheets.SpreadsheetsValuesService
	spreadsheetId string
	worksheet     string
}

// OpenGoogle looks the spreadsheet up by name on Drive and checks the
// worksheet exists on it.
func OpenGoogle(ctx context.Context, opts GoogleOptions) (*GoogleWorksheet, error) {
	var clientOpts []option.ClientOption
	if opts.CredentialsFile != "" {
		clientOpts = append(
			clientOpts,
			option.WithCredentialsFile(opts.CredentialsFile),
			option.WithScopes(googleScopes...),
		)
	}
	clientOpts = append(clientOpts, opts.ClientOptions...)

	driveService, err := drive.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create drive client: %w", err)
	}
	sheetsService, err := sheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}

	spreadsheetId, err := findSpreadsheet(ctx, driveService, opts.Spreadsheet)
	if err != nil {
		return nil, err
	}

	spreadsheet, err := sheetsService.Spreadsheets.Get(spreadsheetId).
		Fields("spreadsheetId", "sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet %q: %w", opts.Spreadsheet, err)
	}
	found := false
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == opts.Worksheet {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%q in %q: %w", opts.Worksheet, opts.Spreadsheet, ErrWorksheetNotFound)
	}

	slog.Debug("opened google worksheet", "spreadsheet", opts.Spreadsheet, "id", spreadsheetId, "worksheet", opts.Worksheet)
	return &GoogleWorksheet{
		values:        sheetsService.Spreadsheets.Values,
		spreadsheetId: spreadsheetId,
		worksheet:     opts.Worksheet,
	}, nil
}

func findSpreadsheet(ctx context.Context, service *drive.Service, name string) (string, error) {
	query := fmt.Sprintf(
		"name = '%s' and mimeType = '%s' and trashed = false",
		strings.ReplaceAll(name, "'", `\'`),
		spreadsheetMimeType,
	)
	res, err := service.Files.List().
		Q(query).
		Fields("files(id, name)").
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		PageSize(10).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("find spreadsheet %q: %w", name, err)
	}
	if len(res.Files) == 0 {
		return "", fmt.Errorf("%q: %w", name, ErrSpreadsheetNotFound)
	}
	if len(res.Files) > 1 {
		slog.Warn("multiple spreadsheets share the name, using the first", "name", name, "count", len(res.Files))
	}
	return res.Files[0].Id, nil
}

func (w *GoogleWorksheet) UpdateCell(ctx context.Context, row, col int, value float64) error {
	rng, err := A1Range(w.worksheet, row, col)
	if err != nil {
		return err
	}
	_, err = w.values.Update(w.spreadsheetId, rng, &sheets.ValueRange{
		Values: [][]interface{}{{value}},
	}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}
	return nil
}

func (w *GoogleWorksheet) Close() error {
	return nil
}
