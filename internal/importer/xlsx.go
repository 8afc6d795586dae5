package importer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/spendwise/internal/model"
)

// XLSXParser parses the first worksheet of an Excel workbook.
type XLSXParser struct{}

// Format returns the parser name.
func (p *XLSXParser) Format() string { return "xlsx" }

// Parse reads the first sheet of a workbook. Cell values are read as
// displayed, so date cells arrive in their display format or as serials.
func (p *XLSXParser) Parse(r io.Reader) ([]model.Transaction, Stats, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("%w: opening workbook: %w", ErrInput, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, Stats{}, fmt.Errorf("%w: workbook has no sheets", ErrInput)
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, Stats{}, fmt.Errorf("%w: reading sheet %q: %w", ErrInput, sheets[0], err)
	}
	return parseRows(records)
}
