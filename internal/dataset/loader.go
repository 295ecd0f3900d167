package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadOptions controls how a source is read.
type LoadOptions struct {
	// MaxRows caps the number of data rows kept; 0 or less means DefaultMaxRows.
	MaxRows int
	// Strict fails the whole load on the first malformed row instead of skipping it.
	Strict bool
	// Delimiter for delimited text. If 0, '\t' for .tsv files and ',' otherwise.
	Delimiter rune
	// Sheet selects the worksheet of an .xlsx source; empty means the first sheet.
	Sheet string
}

// DefaultMaxRows is the row cap applied when none is configured.
const DefaultMaxRows = 50000

// DefaultLoadOptions returns tolerant loading with the default row cap.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{MaxRows: DefaultMaxRows}
}

// Frame is a raw table as read from the source: a header and string cells.
type Frame struct {
	Name   string
	Header []string
	Rows   [][]string
	// Skipped counts malformed rows dropped in tolerant mode.
	Skipped int
	// Truncated is set when the row cap was reached before the end of the source.
	Truncated bool
}

// Len returns the number of data rows.
func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Rows)
}

// Source is a tabular reader. Next returns io.EOF after the last row and a
// *RowError for a row that could not be parsed; any other error is fatal.
type Source interface {
	Header() ([]string, error)
	Next() ([]string, error)
	Close() error
}

// RowError marks a single malformed row.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string { return fmt.Sprintf("row %d: %v", e.Line, e.Err) }

func (e *RowError) Unwrap() error { return e.Err }

// Open selects a Source implementation by file extension.
func Open(path string, opt LoadOptions) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound(path, err)
		}
		return nil, unreadable(path, err)
	}
	if info.IsDir() {
		return nil, unreadable(path, errors.New("is a directory"))
	}
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		src, err := openXLSX(path, opt.Sheet)
		if err != nil {
			return nil, err
		}
		return src, nil
	}
	src, err := openCSV(path, opt)
	if err != nil {
		return nil, err
	}
	return src, nil
}

// Load reads at most opt.MaxRows data rows from the start of the source at
// path. The header is validated against PaperSchema before any row is read.
func Load(path string, opt LoadOptions) (*Frame, error) {
	src, err := Open(path, opt)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	header, err := src.Header()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, unreadable(path, errors.New("no header row"))
		}
		return nil, unreadable(path, fmt.Errorf("read header: %w", err))
	}
	if _, err := PaperSchema.Resolve(header); err != nil {
		return nil, err
	}

	maxRows := opt.MaxRows
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	f := &Frame{Name: filepath.Base(path), Header: header}
	ncol := len(header)
	for {
		rec, err := src.Next()
		if err == nil && len(rec) > ncol {
			err = &RowError{Line: len(f.Rows) + f.Skipped + 2, Err: fmt.Errorf("expected %d fields, saw %d", ncol, len(rec))}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			var rowErr *RowError
			if errors.As(err, &rowErr) && !opt.Strict {
				f.Skipped++
				continue
			}
			return nil, unreadable(path, err)
		}
		if len(f.Rows) >= maxRows {
			f.Truncated = true
			break
		}
		row := make([]string, ncol)
		copy(row, rec)
		f.Rows = append(f.Rows, row)
	}
	return f, nil
}

type csvSource struct {
	file *os.File
	r    *csv.Reader
}

func openCSV(path string, opt LoadOptions) (*csvSource, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound(path, err)
		}
		return nil, unreadable(path, err)
	}
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	r := csv.NewReader(file)
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = !opt.Strict
	return &csvSource{file: file, r: r}, nil
}

func (s *csvSource) Header() ([]string, error) { return s.r.Read() }

func (s *csvSource) Next() ([]string, error) {
	rec, err := s.r.Read()
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return nil, &RowError{Line: pe.StartLine, Err: pe.Err}
		}
		return nil, err
	}
	return rec, nil
}

func (s *csvSource) Close() error { return s.file.Close() }

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

type xlsxSource struct {
	book *excelize.File
	rows *excelize.Rows
	line int
}

func openXLSX(path, sheet string) (*xlsxSource, error) {
	book, err := excelize.OpenFile(path)
	if err != nil {
		return nil, unreadable(path, fmt.Errorf("open xlsx: %w", err))
	}
	if sheet == "" {
		sheets := book.GetSheetList()
		if len(sheets) == 0 {
			book.Close()
			return nil, unreadable(path, errors.New("workbook has no sheets"))
		}
		sheet = sheets[0]
	}
	rows, err := book.Rows(sheet)
	if err != nil {
		book.Close()
		return nil, unreadable(path, fmt.Errorf("sheet %q: %w", sheet, err))
	}
	return &xlsxSource{book: book, rows: rows}, nil
}

func (s *xlsxSource) Header() ([]string, error) { return s.Next() }

func (s *xlsxSource) Next() ([]string, error) {
	if !s.rows.Next() {
		if err := s.rows.Error(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	s.line++
	cols, err := s.rows.Columns()
	if err != nil {
		return nil, &RowError{Line: s.line, Err: err}
	}
	return cols, nil
}

func (s *xlsxSource) Close() error {
	_ = s.rows.Close()
	return s.book.Close()
}
