package importer

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/cleared-dev/spendwise/internal/model"
)

// CSVParser parses comma-separated transaction exports.
type CSVParser struct{}

// Format returns the parser name.
func (p *CSVParser) Format() string { return "csv" }

// Parse reads a CSV export and returns the transactions that survive
// date and amount parsing.
func (p *CSVParser) Parse(r io.Reader) ([]model.Transaction, Stats, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, Stats{}, fmt.Errorf("%w: reading CSV: %w", ErrInput, err)
	}
	return parseRows(records)
}
