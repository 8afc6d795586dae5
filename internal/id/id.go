package id

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Artifact kinds.
const (
	KindPieChart    = "pie_chart"
	KindScatterPlot = "scatter_plot"
)

// FormatArtifact returns a name like "pie_chart_<32 hex>.png".
func FormatArtifact(kind, ext string) string {
	return kind + "_" + Hex() + "." + ext
}

// Hex returns a random UUID as 32 lowercase hex digits without dashes.
func Hex() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// ParseArtifact splits "pie_chart_<hex>.png" into its kind and hex suffix.
func ParseArtifact(name string) (kind, hex string, err error) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	i := strings.LastIndexByte(base, '_')
	if i <= 0 {
		return "", "", fmt.Errorf("invalid artifact name: %q", name)
	}
	kind, hex = base[:i], base[i+1:]

	if _, err := uuid.Parse(hex); err != nil {
		return "", "", fmt.Errorf("invalid artifact id in %q: %w", name, err)
	}
	return kind, hex, nil
}
