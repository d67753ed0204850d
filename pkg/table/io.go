package table

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ohler55/ojg/oj"
	"github.com/xuri/excelize/v2"

	"github.com/haferml/hafer/pkg/errors"
	"github.com/haferml/hafer/pkg/tree"
)

// ReadCSV reads a table whose first record is the header. Empty cells are
// stored as nil; every other cell stays a string.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrTableShape, "failed to parse csv")
	}
	return fromStringRows(rows)
}

func fromStringRows(rows [][]string) (*Table, error) {
	if len(rows) == 0 {
		return New(), nil
	}
	t := New(rows[0]...)
	if t.Width() != len(rows[0]) {
		return nil, errors.New(errors.ErrTableShape, "duplicate column names in header")
	}
	for n, rec := range rows[1:] {
		if len(rec) > t.Width() {
			return nil, errors.Newf(errors.ErrTableShape, "row %d has %d fields, header has %d",
				n+1, len(rec), t.Width())
		}
		row := make([]any, t.Width())
		for j, cell := range rec {
			if cell != "" {
				row[j] = cell
			}
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

// WriteCSV writes the header and every row. nil cells are empty.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.columns); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "failed to write csv header")
	}
	for _, r := range t.rows {
		rec := make([]string, len(r))
		for j, v := range r {
			rec[j] = FormatCell(v)
		}
		if err := cw.Write(rec); err != nil {
			return errors.Wrap(err, errors.ErrFileWrite, "failed to write csv row")
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadJSONLines reads one JSON object per line. Column order follows the
// keys as they first appear.
func ReadJSONLines(r io.Reader) (*Table, error) {
	t := New()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if err := oj.ValidateString(text); err != nil {
			return nil, errors.Wrapf(err, errors.ErrTableShape, "line %d is not valid json", line)
		}
		v, err := tree.Decode([]byte(text))
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrTableShape, "line %d is not valid json", line)
		}
		if v == nil || !v.IsMapping() {
			return nil, errors.Newf(errors.ErrTableShape, "line %d is not a json object", line)
		}
		for _, k := range v.Keys() {
			t.addColumn(k)
		}
		row := make([]any, t.Width())
		for _, k := range v.Keys() {
			field, _ := v.Field(k)
			row[t.index[k]] = field.Interface()
		}
		t.rows = append(t.rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrFileAccess, "failed to read json lines")
	}
	return t, nil
}

// WriteJSONLines writes each row as a JSON object with keys in column order.
func (t *Table) WriteJSONLines(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, r := range t.rows {
		obj := tree.NewMapping()
		for j, c := range t.columns {
			obj.SetField(c, tree.FromAny(r[j]))
		}
		b, err := obj.MarshalJSON()
		if err != nil {
			return errors.Wrap(err, errors.ErrFileWrite, "failed to encode row")
		}
		bw.Write(b)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// ReadXLSX reads a sheet of a workbook. An empty sheet name selects the
// first sheet. The first row is the header.
func ReadXLSX(path, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to open workbook %s", path)
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return New(), nil
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read sheet %q", sheet)
	}
	return fromStringRows(rows)
}

// WriteXLSX writes the table to a new workbook with a single sheet.
func (t *Table) WriteXLSX(path, sheet string) error {
	if sheet == "" {
		sheet = "Sheet1"
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if sheet != "Sheet1" {
		idx, err := f.NewSheet(sheet)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileWrite, "failed to create sheet %q", sheet)
		}
		f.SetActiveSheet(idx)
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return errors.Wrap(err, errors.ErrFileWrite, "failed to drop default sheet")
		}
	}

	header := make([]interface{}, len(t.columns))
	for j, c := range t.columns {
		header[j] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "failed to write header")
	}
	for i, r := range t.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, errors.ErrInternal, "bad cell coordinates")
		}
		row := make([]interface{}, len(r))
		copy(row, r)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrapf(err, errors.ErrFileWrite, "failed to write row %d", i)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to save workbook %s", path)
	}
	return nil
}

// ReadFile picks a reader from the file extension: .csv, .jsonl, .json
// (one object per line) or .xlsx.
func ReadFile(path string) (*Table, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".xlsx" {
		return ReadXLSX(path, "")
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.ErrFileNotFound, "table file %s not found", path)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to open %s", path)
	}
	defer func() { _ = f.Close() }()

	switch ext {
	case ".csv":
		return ReadCSV(f)
	case ".jsonl", ".json", ".ndjson":
		return ReadJSONLines(f)
	}
	return nil, errors.Newf(errors.ErrInvalidInput, "unsupported table format %q", ext)
}

// WriteFile writes the table in the format implied by the extension.
func (t *Table) WriteFile(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".xlsx" {
		return t.WriteXLSX(path, "")
	}
	if ext != ".csv" && ext != ".jsonl" && ext != ".json" && ext != ".ndjson" {
		return errors.Newf(errors.ErrInvalidInput, "unsupported table format %q", ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileCreate, "failed to create %s", path)
	}
	defer func() { _ = f.Close() }()

	if ext == ".csv" {
		return t.WriteCSV(f)
	}
	return t.WriteJSONLines(f)
}
