package sheets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

const defaultXlsxSheet = "Sheet1"

// XlsxWorksheet writes cells into a local workbook, the workbook is saved
// after every write.
type XlsxWorksheet struct {
	file      *excelize.File
	path      string
	worksheet string
}

// OpenXlsx opens the workbook at path, creating the workbook and the
// worksheet when they don't exist yet.
func OpenXlsx(path, worksheet string) (*XlsxWorksheet, error) {
	if worksheet == "" {
		return nil, fmt.Errorf("worksheet name is required")
	}

	f, err := excelize.OpenFile(path)
	created := false
	if errors.Is(err, fs.ErrNotExist) {
		f = excelize.NewFile()
		created = true
	} else if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}

	idx, err := f.GetSheetIndex(worksheet)
	if err != nil {
		f.Close()
		return nil, err
	}
	if idx == -1 {
		_, err = f.NewSheet(worksheet)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("create worksheet %q: %w", worksheet, err)
		}
		if created && worksheet != defaultXlsxSheet {
			err = f.DeleteSheet(defaultXlsxSheet)
			if err != nil {
				f.Close()
				return nil, err
			}
		}
	}

	if created {
		err = os.MkdirAll(filepath.Dir(path), 0o755)
		if err != nil {
			f.Close()
			return nil, err
		}
	}

	return &XlsxWorksheet{file: f, path: path, worksheet: worksheet}, nil
}

func (w *XlsxWorksheet) UpdateCell(_ context.Context, row, col int, value float64) error {
	cell, err := CellName(row, col)
	if err != nil {
		return err
	}
	err = w.file.SetCellValue(w.worksheet, cell, value)
	if err != nil {
		return fmt.Errorf("set %s: %w", cell, err)
	}
	return w.file.SaveAs(w.path)
}

func (w *XlsxWorksheet) Close() error {
	return w.file.Close()
}
