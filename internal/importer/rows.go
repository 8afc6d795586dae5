package importer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/spendwise/internal/model"
)

// Exports are read by position, not by header name.
const (
	colDate   = 0
	colDesc   = 2
	colAmount = 4
	minFields = colAmount + 1
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"01-02-06",
	"02 Jan 2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"Jan 2, 2006",
}

// Excel serial day numbers accepted as dates (1900-01-01 .. 2173-10-14).
const (
	minExcelSerial = 1
	maxExcelSerial = 100000
)

var (
	errEmptyField     = errors.New("empty field")
	errNegativeAmount = errors.New("negative amount")
)

// parseRows converts raw rows (header first) into transactions. Rows with an
// unparseable date or amount are dropped and counted in Stats.
func parseRows(records [][]string) ([]model.Transaction, Stats, error) {
	var stats Stats
	if len(records) <= 1 {
		return nil, stats, fmt.Errorf("%w: no data rows", ErrInput)
	}

	var txns []model.Transaction
	for _, rec := range records[1:] {
		stats.Rows++
		if len(rec) < minFields {
			stats.ShortRows++
			continue
		}

		date, err := parseDate(rec[colDate])
		if err != nil {
			stats.BadDate++
			continue
		}

		amount, err := parseAmount(rec[colAmount])
		if err != nil {
			stats.BadAmount++
			continue
		}

		desc := strings.TrimSpace(rec[colDesc])
		txns = append(txns, model.Transaction{
			Date:            date,
			RawDescription:  desc,
			DebitedAmount:   amount,
			TransactionName: model.NameFromDescription(desc),
		})
	}
	stats.Imported = len(txns)

	if stats.ShortRows == stats.Rows {
		return nil, stats, fmt.Errorf("%w: expected at least %d columns (date, description, debit)", ErrInput, minFields)
	}
	if len(txns) == 0 {
		return nil, stats, fmt.Errorf("%w: no rows with a valid date and debit amount (%d rows read)", ErrInput, stats.Rows)
	}
	return txns, stats, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errEmptyField
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial >= minExcelSerial && serial <= maxExcelSerial {
		return excelize.ExcelDateToTime(serial, false)
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "$€£₹ ")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Decimal{}, errEmptyField
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return decimal.Decimal{}, errNegativeAmount
	}
	return d, nil
}
