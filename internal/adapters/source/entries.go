package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/clparker78/straight-razor-draft/internal/domain/model"
)

// EntriesOption configures FileEntries.
type EntriesOption func(*FileEntries)

// WithSheet selects the worksheet of an .xlsx file.
func WithSheet(name string) EntriesOption {
	return func(f *FileEntries) { f.sheet = name }
}

// WithColumns sets the zero-based participant column and first pick column.
func WithColumns(name, firstPick int) EntriesOption {
	return func(f *FileEntries) {
		if name >= 0 && firstPick >= 0 {
			f.nameCol = name
			f.firstPickCol = firstPick
		}
	}
}

// FileEntries reads contest entries from an .xlsx or .csv file. The first
// row is a header.
type FileEntries struct {
	path         string
	sheet        string
	nameCol      int
	firstPickCol int
}

// NewFileEntries creates an entries loader. By default the name sits in
// column C and the 32 guesses start at column D.
func NewFileEntries(path string, opts ...EntriesOption) *FileEntries {
	f := &FileEntries{path: path, nameCol: 2, firstPickCol: 3}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Load reads the file.
func (f *FileEntries) Load(ctx context.Context) ([]model.Entry, error) {
	if f.path == "" {
		return nil, fmt.Errorf("%w: entries path", ErrNotConfigured)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(f.path)) {
	case ".xlsx", ".xlsm":
		rows, err = f.readXLSX()
	case ".csv":
		rows, err = f.readCSV()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(f.path))
	}
	if err != nil {
		return nil, err
	}
	return f.toEntries(rows), nil
}

func (f *FileEntries) readXLSX() ([][]string, error) {
	book, err := excelize.OpenFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("open entries: %w", err)
	}
	defer func() { _ = book.Close() }()

	sheet := f.sheet
	if sheet == "" {
		sheets := book.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrEmptySheet
		}
		sheet = sheets[0]
	}
	rows, err := book.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read entries sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func (f *FileEntries) readCSV() ([][]string, error) {
	fh, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("open entries: %w", err)
	}
	defer func() { _ = fh.Close() }()

	r := csv.NewReader(fh)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read entries: %w", err)
	}
	return rows, nil
}

// toEntries skips the header row and rows without a participant name.
// Trailing blank guesses are dropped so short rows stay short.
func (f *FileEntries) toEntries(rows [][]string) []model.Entry {
	if len(rows) <= 1 {
		return []model.Entry{}
	}

	entries := make([]model.Entry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		name := strings.TrimSpace(cell(row, f.nameCol))
		if name == "" {
			continue
		}

		var preds []string
		if f.firstPickCol < len(row) {
			end := min(len(row), f.firstPickCol+model.FirstRound)
			preds = make([]string, 0, end-f.firstPickCol)
			for _, v := range row[f.firstPickCol:end] {
				preds = append(preds, strings.TrimSpace(v))
			}
		}
		for len(preds) > 0 && preds[len(preds)-1] == "" {
			preds = preds[:len(preds)-1]
		}
		entries = append(entries, model.Entry{Participant: name, Predictions: preds})
	}
	return entries
}
