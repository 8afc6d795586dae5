package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/spendwise/internal/importer"
)

func TestWriteError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteError(&buf, fmt.Errorf("loading: %w", errors.New(`bad "quote"`))))

	var env map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.Equal(t, map[string]string{"error": `loading: bad "quote"`}, env)
}

func TestParseTarget(t *testing.T) {
	got, err := parseTarget("50.25")
	require.NoError(t, err)
	assert.Equal(t, "50.25", got.String())

	for _, in := range []string{"", "x", "0", "-1"} {
		_, err := parseTarget(in)
		assert.ErrorIs(t, err, importer.ErrInput, in)
	}
}

func TestRootCommand_LogsAndPrintsResult(t *testing.T) {
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"../../testdata/transactions.csv", "50", "--output-dir", t.TempDir()})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, stderr.String(), "starting analysis")
	assert.Contains(t, stderr.String(), "component=cli")

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &doc))
	assert.Len(t, doc, 4)
}
