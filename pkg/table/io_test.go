package table_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haferml/hafer/pkg/errors"
	"github.com/haferml/hafer/pkg/table"
)

func TestCSVRoundTrip(t *testing.T) {
	src := "id,city\n1,berlin\n2,\n"
	tbl, err := table.ReadCSV(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "city"}, tbl.Columns())
	assert.Equal(t, []any{"2", nil}, tbl.Row(1))

	var buf bytes.Buffer
	require.NoError(t, tbl.WriteCSV(&buf))
	assert.Equal(t, src, buf.String())
}

func TestJSONLinesKeepKeyOrder(t *testing.T) {
	src := `{"zeta": 1, "alpha": "x"}` + "\n\n" + `{"alpha": "y", "extra": true}` + "\n"
	tbl, err := table.ReadJSONLines(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta", "alpha", "extra"}, tbl.Columns())
	assert.Equal(t, []any{1, "x", nil}, tbl.Row(0))

	var buf bytes.Buffer
	require.NoError(t, tbl.WriteJSONLines(&buf))
	assert.Equal(t,
		`{"zeta":1,"alpha":"x","extra":null}`+"\n"+`{"zeta":null,"alpha":"y","extra":true}`+"\n",
		buf.String())
}

func TestJSONLinesRejectsNonObjects(t *testing.T) {
	_, err := table.ReadJSONLines(strings.NewReader("[1,2]\n"))
	assert.Error(t, err)

	_, err = table.ReadJSONLines(strings.NewReader("{\"a\":1}\nkey: value\n"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrTableShape))
}

func TestXLSXRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rides.xlsx")
	tbl, err := table.FromRows([]string{"id", "city"}, [][]any{{1, "berlin"}, {2, nil}})
	require.NoError(t, err)

	require.NoError(t, tbl.WriteFile(path))

	got, err := table.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "city"}, got.Columns())
	assert.Equal(t, []any{"1", "berlin"}, got.Row(0))
	assert.Equal(t, []any{"2", nil}, got.Row(1))
}

func TestFileFormatByExtension(t *testing.T) {
	dir := t.TempDir()
	tbl, _ := table.FromRows([]string{"a"}, [][]any{{"x"}})

	require.NoError(t, tbl.WriteFile(filepath.Join(dir, "t.csv")))
	got, err := table.ReadFile(filepath.Join(dir, "t.csv"))
	require.NoError(t, err)
	assert.True(t, tbl.Equal(got))

	assert.Error(t, tbl.WriteFile(filepath.Join(dir, "t.parquet")))
	_, err = table.ReadFile(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	tbl, _ := table.FromRows([]string{"id", "city"}, [][]any{{1, "berlin"}, {2, "hamburg"}, {3, "bonn"}})

	var buf bytes.Buffer
	require.NoError(t, tbl.Render(&buf, 2))

	out := buf.String()
	assert.Contains(t, out, "city")
	assert.Contains(t, out, "hamburg")
	assert.NotContains(t, out, "bonn")
	assert.Contains(t, out, "2 of 3 rows")
}
