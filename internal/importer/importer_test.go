package importer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const header = "Txn Date,Value Date,Description,Ref,Debit,Credit,Balance\n"

func TestCSVParser_Parse(t *testing.T) {
	f, err := os.Open("../../testdata/transactions.csv")
	require.NoError(t, err)
	defer f.Close()

	p := &CSVParser{}
	txns, stats, err := p.Parse(f)
	require.NoError(t, err)
	assert.Len(t, txns, 6)

	assert.Equal(t, "SWIGGY", txns[0].TransactionName)
	assert.Equal(t, "UPI/DR/501/SWIGGY/YESB", txns[0].RawDescription)
	assert.Equal(t, "10.00", txns[0].DebitedAmount.StringFixed(2))
	assert.Equal(t, time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), txns[0].Date)

	// Thousands separator stripped.
	assert.Equal(t, "LANDLORD", txns[1].TransactionName)
	assert.Equal(t, "1000.00", txns[1].DebitedAmount.StringFixed(2))

	assert.Empty(t, txns[0].Category, "tiers are assigned later")

	assert.Equal(t, 8, stats.Rows)
	assert.Equal(t, 6, stats.Imported)
	assert.Equal(t, 2, stats.Dropped())
}

func TestCSVParser_DropsBadRows(t *testing.T) {
	csv := header +
		"NOTADATE,,A/B/C,1,10.00,,\n" +
		"2025-01-05,,A/SHOP/C,2,abc,,\n" +
		"2025-01-06,,A/SHOP/C,3,-5.00,,\n" +
		"2025-01-07,,A/SHOP/C,4,,,\n" +
		"2025-01-08,,A/SHOP/C\n" +
		"2025-01-09,,A/KEEP/C,5,7.25,,\n"
	txns, stats, err := (&CSVParser{}).Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "KEEP", txns[0].TransactionName)

	assert.Equal(t, 6, stats.Rows)
	assert.Equal(t, 1, stats.BadDate)
	assert.Equal(t, 3, stats.BadAmount)
	assert.Equal(t, 1, stats.ShortRows)
}

func TestCSVParser_NoSurvivors(t *testing.T) {
	csv := header + "NOTADATE,,A/B/C,1,10.00,,\n"
	_, _, err := (&CSVParser{}).Parse(strings.NewReader(csv))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInput)
	assert.Contains(t, err.Error(), "no rows with a valid date")
}

func TestCSVParser_MissingColumns(t *testing.T) {
	csv := "Date,Description\n2025-01-01,coffee\n"
	_, _, err := (&CSVParser{}).Parse(strings.NewReader(csv))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInput)
	assert.Contains(t, err.Error(), "columns")
}

func TestCSVParser_HeaderOnly(t *testing.T) {
	_, _, err := (&CSVParser{}).Parse(strings.NewReader(header))
	assert.ErrorIs(t, err, ErrInput)
}

func TestParseDate(t *testing.T) {
	want := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)
	inputs := []string{
		"2025-03-07",
		"2025-03-07 00:00:00",
		"03/07/2025",
		"3/7/2025",
		"03-07-25",
		"07 Mar 2025",
		"Mar 7, 2025",
		"45723", // Excel serial
	}
	for _, in := range inputs {
		got, err := parseDate(in)
		require.NoError(t, err, "input: %s", in)
		assert.Equal(t, want, got.UTC().Truncate(24*time.Hour), "input: %s", in)
	}

	for _, bad := range []string{"", "yesterday", "0", "2025-13-45"} {
		_, err := parseDate(bad)
		assert.Error(t, err, "expected error for %q", bad)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10", "10.00"},
		{" 1,234.50 ", "1234.50"},
		{"$99.99", "99.99"},
		{"₹250", "250.00"},
		{"0", "0.00"},
	}
	for _, tt := range tests {
		got, err := parseAmount(tt.in)
		require.NoError(t, err, "input: %q", tt.in)
		assert.Equal(t, tt.want, got.StringFixed(2))
	}

	for _, bad := range []string{"", "abc", "-1.00"} {
		_, err := parseAmount(bad)
		assert.Error(t, err, "expected error for %q", bad)
	}
}

func TestXLSXParser_MatchesCSV(t *testing.T) {
	rows := [][]any{
		{"Txn Date", "Value Date", "Description", "Ref", "Debit", "Credit", "Balance"},
		{"2025-01-05", "", "UPI/DR/501/SWIGGY/YESB", "501", 10.0, "", 4990.0},
		{"2025-01-20", "", "NEFT/DR/502/LANDLORD/SBIN", "502", 1000.0, "", 3990.0},
		{"bad", "", "x/y/z", "503", 5.0, "", 0.0},
	}

	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, wb.SetSheetRow(sheet, cell, &row))
	}
	var buf bytes.Buffer
	_, err := wb.WriteTo(&buf)
	require.NoError(t, err)

	txns, stats, err := (&XLSXParser{}).Parse(&buf)
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, "SWIGGY", txns[0].TransactionName)
	assert.Equal(t, "1000.00", txns[1].DebitedAmount.StringFixed(2))
	assert.Equal(t, 1, stats.BadDate)
}

func TestXLSXParser_NotAWorkbook(t *testing.T) {
	_, _, err := (&XLSXParser{}).Parse(strings.NewReader("plain text"))
	assert.ErrorIs(t, err, ErrInput)
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get("nonexistent"))
}

func TestRegistry_CaseInsensitive(t *testing.T) {
	r := NewRegistry()
	r.Register(&CSVParser{})
	assert.NotNil(t, r.Get("CSV"))
	assert.NotNil(t, r.Get("Csv"))
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(&CSVParser{})
	assert.Panics(t, func() { r.Register(&CSVParser{}) })
}

func TestDefaultRegistry_ForPath(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, "csv", r.ForPath("export.CSV").Format())
	assert.Equal(t, "xlsx", r.ForPath("/tmp/statement.xlsx").Format())
	assert.Nil(t, r.ForPath("statement.pdf"))
}

func TestLoad(t *testing.T) {
	txns, stats, err := DefaultRegistry().Load("../../testdata/transactions.csv")
	require.NoError(t, err)
	assert.Len(t, txns, 6)
	assert.Equal(t, 6, stats.Imported)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := DefaultRegistry().Load(filepath.Join(dir, "missing.csv"))
	assert.ErrorIs(t, err, ErrInput)
	assert.ErrorIs(t, err, os.ErrNotExist)

	pdf := filepath.Join(dir, "statement.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF"), 0o644))
	_, _, err = DefaultRegistry().Load(pdf)
	assert.ErrorIs(t, err, ErrInput)
	assert.Contains(t, err.Error(), "unsupported file type")
}
