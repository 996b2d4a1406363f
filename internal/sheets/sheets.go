// Package sheets writes fares into a spreadsheet, either a Google Sheets
// document or a local xlsx workbook.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	BackendGoogle = "google"
	BackendXlsx   = "xlsx"
)

var (
	ErrSpreadsheetNotFound = errors.New("spreadsheet not found")
	ErrWorksheetNotFound   = errors.New("worksheet not found")
)

// Worksheet is a single tab of a spreadsheet, rows and columns are 1-based.
type Worksheet interface {
	UpdateCell(ctx context.Context, row, col int, value float64) error
	Close() error
}

type Config struct {
	// "google" (default) or "xlsx"
	Backend string `json:"backend"`
	// Name of the spreadsheet document (google backend).
	Name string `json:"name"`
	// Worksheet is the tab the fares are written to.
	Worksheet string `json:"worksheet"`
	// Path of the workbook (xlsx backend).
	Path string `json:"path"`
}

func (c Config) Validate() error {
	var errs []error
	if c.Worksheet == "" {
		errs = append(errs, fmt.Errorf("spreadsheet.worksheet is required"))
	}
	switch c.Backend {
	case "", BackendGoogle:
		if c.Name == "" {
			errs = append(errs, fmt.Errorf("spreadsheet.name is required"))
		}
	case BackendXlsx:
		if c.Path == "" {
			errs = append(errs, fmt.Errorf("spreadsheet.path is required for the xlsx backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown spreadsheet.backend %q", c.Backend))
	}
	return errors.Join(errs...)
}

// Open opens the worksheet on the configured backend. credentialsFile is
// only used by the google backend.
func Open(ctx context.Context, cfg Config, credentialsFile string) (Worksheet, error) {
	switch cfg.Backend {
	case "", BackendGoogle:
		return OpenGoogle(ctx, GoogleOptions{
			CredentialsFile: credentialsFile,
			Spreadsheet:     cfg.Name,
			Worksheet:       cfg.Worksheet,
		})
	case BackendXlsx:
		return OpenXlsx(cfg.Path, cfg.Worksheet)
	}
	return nil, fmt.Errorf("unknown spreadsheet backend %q", cfg.Backend)
}

// CellName converts 1-based coordinates to an A1 style cell name.
func CellName(row, col int) (string, error) {
	return excelize.CoordinatesToCellName(col, row)
}

// A1Range is a single cell range on a named tab, `'Prices'!B2`.
func A1Range(worksheet string, row, col int) (string, error) {
	cell, err := CellName(row, col)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("'%s'!%s", strings.ReplaceAll(worksheet, "'", "''"), cell), nil
}
