package importer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/spendwise/internal/model"
)

// ErrInput marks a file that cannot produce any usable transaction.
var ErrInput = errors.New("input error")

// Stats counts what happened to the data rows of an export.
type Stats struct {
	Rows      int // data rows seen (header excluded)
	BadDate   int
	BadAmount int
	ShortRows int // rows without the amount column
	Imported  int
}

// Dropped returns the number of rows that did not become transactions.
func (s Stats) Dropped() int {
	return s.Rows - s.Imported
}

// Parser converts a transaction export into Transactions.
type Parser interface {
	Parse(r io.Reader) ([]model.Transaction, Stats, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// ForPath returns the parser matching the file extension of path, or nil.
func (r *Registry) ForPath(path string) Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return r.Get("csv")
	case ".xlsx", ".xlsm":
		return r.Get("xlsx")
	}
	return nil
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&CSVParser{})
	r.Register(&XLSXParser{})
	return r
}

// Load reads the export at path with the parser chosen by its extension.
// Any failure is reported as ErrInput.
func (r *Registry) Load(path string) ([]model.Transaction, Stats, error) {
	p := r.ForPath(path)
	if p == nil {
		return nil, Stats{}, fmt.Errorf("%w: unsupported file type %q", ErrInput, filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("%w: opening %s: %w", ErrInput, filepath.Base(path), err)
	}
	defer f.Close()

	txns, stats, err := p.Parse(f)
	if err != nil {
		if errors.Is(err, ErrInput) {
			return nil, stats, err
		}
		return nil, stats, fmt.Errorf("%w: %w", ErrInput, err)
	}
	return txns, stats, nil
}
