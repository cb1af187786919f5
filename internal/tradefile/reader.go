// Package tradefile reads broker trade-export CSV files.
// Reading is deliberately lenient: the only hard failure is an unusable
// source (missing file, unreadable content, bad headers). Individual rows
// are passed through as raw strings and validated during aggregation.
package tradefile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/growwtrack/portfolio-tracker-backend/internal/apperrors"
	"github.com/growwtrack/portfolio-tracker-backend/internal/model"
)

// Required header columns. Column order is discovered from the header row,
// so exports with extra or reordered columns still parse.
const (
	columnTicker   = "ticker"
	columnType     = "type"
	columnQuantity = "quantity"
	columnAvgPrice = "avg_price"
)

// Reader loads trade rows from a CSV export on disk.
type Reader struct {
	path string
}

// NewReader creates a Reader for the export file at the given path.
func NewReader(path string) *Reader {
	return &Reader{path: path}
}

// Read loads all trade rows from the export file.
// Returns apperrors.ErrDataSource (wrapped) when the file is missing or
// unreadable, and apperrors.ErrInvalidCSVHeaders when a required column is
// absent. Rows with the wrong field count are skipped, not fatal.
func (r *Reader) Read() ([]model.TradeRow, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrDataSource, err)
	}
	defer f.Close()

	rows, err := Parse(f)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Parse reads trade rows from CSV content.
// Split from Read so tests and future upload endpoints can parse from any
// io.Reader.
func Parse(src io.Reader) ([]model.TradeRow, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1 // validated per row below
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrDataSource, err)
	}

	index, err := headerIndex(header)
	if err != nil {
		return nil, err
	}

	var rows []model.TradeRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// A structurally broken line loses that line only.
			continue
		}
		if len(record) <= index.maxColumn() {
			continue
		}

		rows = append(rows, model.TradeRow{
			Ticker:   record[index.ticker],
			Type:     record[index.typ],
			Quantity: record[index.quantity],
			AvgPrice: record[index.avgPrice],
		})
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no data rows", apperrors.ErrDataSource)
	}

	return rows, nil
}

// columnIndex maps the required columns to their position in the header.
type columnIndex struct {
	ticker   int
	typ      int
	quantity int
	avgPrice int
}

func (c columnIndex) maxColumn() int {
	m := c.ticker
	for _, v := range []int{c.typ, c.quantity, c.avgPrice} {
		if v > m {
			m = v
		}
	}
	return m
}

// headerIndex locates the required columns in the header row.
// Header names are matched case-insensitively after trimming whitespace.
func headerIndex(header []string) (columnIndex, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		positions[strings.ToLower(strings.TrimSpace(name))] = i
	}

	index := columnIndex{ticker: -1, typ: -1, quantity: -1, avgPrice: -1}
	var ok bool
	if index.ticker, ok = positions[columnTicker]; !ok {
		return index, fmt.Errorf("%w: missing %q", apperrors.ErrInvalidCSVHeaders, columnTicker)
	}
	if index.typ, ok = positions[columnType]; !ok {
		return index, fmt.Errorf("%w: missing %q", apperrors.ErrInvalidCSVHeaders, columnType)
	}
	if index.quantity, ok = positions[columnQuantity]; !ok {
		return index, fmt.Errorf("%w: missing %q", apperrors.ErrInvalidCSVHeaders, columnQuantity)
	}
	if index.avgPrice, ok = positions[columnAvgPrice]; !ok {
		return index, fmt.Errorf("%w: missing %q", apperrors.ErrInvalidCSVHeaders, columnAvgPrice)
	}

	return index, nil
}
