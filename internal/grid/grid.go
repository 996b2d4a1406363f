// Package grid holds the session grid handed from the session generator to
// the price poller and its flat file format.
package grid

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const Delimiter = ','

var ErrRaggedGrid = errors.New("grid rows have different lengths")

// Grid is indexed [arrival][departure], each cell holds a session identifier.
type Grid [][]string

// New makes an empty grid with the given dimensions.
func New(rows, columns int) Grid {
	g := make(Grid, rows)
	for i := range g {
		g[i] = make([]string, columns)
	}
	return g
}

func (g Grid) Rows() int {
	return len(g)
}

func (g Grid) Columns() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// emptyCell is how a row holding a single empty cell is written, a bare
// blank line is reserved for rows with no cells.
const emptyCell = `""`

// Write writes the grid row-major, one line per arrival, with no header.
func Write(w io.Writer, g Grid) error {
	writer := csv.NewWriter(w)
	writer.Comma = Delimiter
	for i, row := range g {
		var err error
		switch {
		case len(row) == 0:
			writer.Flush()
			_, err = io.WriteString(w, "\n")
		case len(row) == 1 && row[0] == "":
			writer.Flush()
			_, err = io.WriteString(w, emptyCell+"\n")
		default:
			err = writer.Write(row)
		}
		if err != nil {
			return fmt.Errorf("write grid row %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("write grid: %w", err)
	}
	return nil
}

// Read parses a grid written by Write. A file made of blank lines only is a
// grid with that many rows and no columns.
func Read(r io.Reader) (Grid, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read grid: %w", err)
	}
	if strings.Trim(string(data), "\r\n") == "" {
		normalized := strings.ReplaceAll(string(data), "\r\n", "\n")
		return New(strings.Count(normalized, "\n"), 0), nil
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = Delimiter
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read grid: %w", err)
	}

	g := Grid(records)
	for i, row := range g {
		if len(row) != g.Columns() {
			return nil, fmt.Errorf("row %d has %d cells, expected %d: %w", i, len(row), g.Columns(), ErrRaggedGrid)
		}
	}
	return g, nil
}

// WriteFile writes the grid to path, creating its parent directory.
func WriteFile(path string, g Grid) error {
	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = Write(f, g)
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func ReadFile(path string) (Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// DefaultPath is the well-known location of the session grid,
// ~/Documents/sessions.csv.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "Documents", "sessions.csv"), nil
}
