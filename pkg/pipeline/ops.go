package pipeline

import (
	"reflect"
	"strings"

	"github.com/duke-git/lancet/v2/convertor"

	"github.com/haferml/hafer/pkg/coerce"
	"github.com/haferml/hafer/pkg/errors"
	"github.com/haferml/hafer/pkg/logging"
	"github.com/haferml/hafer/pkg/table"
)

// CrossingSeparator joins the component columns of a feature crossing.
const CrossingSeparator = "__"

// SelectWithCrossings keeps only columns. A name such as "a__b" is a feature
// crossing: the row-wise product of a and b. Duplicate names are ignored and
// an empty list leaves the table as it is.
func SelectWithCrossings(columns []string) Operation {
	return func(t *table.Table) (*table.Table, error) {
		if len(columns) == 0 {
			return nil, nil
		}
		seen := make(map[string]bool, len(columns))
		var plain, crossings []string
		for _, c := range columns {
			if seen[c] {
				continue
			}
			seen[c] = true
			if strings.Contains(c, CrossingSeparator) {
				crossings = append(crossings, c)
			} else {
				plain = append(plain, c)
			}
		}

		crossed := make(map[string][]any, len(crossings))
		for _, c := range crossings {
			values, err := cross(t, strings.Split(c, CrossingSeparator))
			if err != nil {
				return nil, errors.Wrapf(err, errors.GetErrorCode(err), "crossing %q", c).
					WithDetail("crossing", c)
			}
			crossed[c] = values
		}

		out, err := t.Select(plain...)
		if err != nil {
			return nil, err
		}
		for _, c := range crossings {
			if err := out.SetColumn(c, crossed[c]); err != nil {
				return nil, err
			}
		}
		return out, nil
	}
}

func cross(t *table.Table, parts []string) ([]any, error) {
	cols := make([][]any, len(parts))
	for k, p := range parts {
		values, ok := t.Column(p)
		if !ok {
			return nil, errors.Newf(errors.ErrNotFound, "column %q not found", p)
		}
		cols[k] = values
	}
	out := make([]any, t.Len())
rows:
	for i := range out {
		product := 1.0
		for k := range cols {
			v := cols[k][i]
			if coerce.IsNull(v) {
				continue rows
			}
			f, err := factor(v)
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrCoercion, "%v to float", v).
					WithDetail("column", parts[k]).
					WithDetail("row", i)
			}
			product *= f
		}
		out[i] = product
	}
	return out, nil
}

func factor(v any) (float64, error) {
	if b, ok := v.(bool); ok {
		if b {
			return 1, nil
		}
		return 0, nil
	}
	return convertor.ToFloat(v)
}

// ReplaceValue swaps every cell of col equal to from for to.
func ReplaceValue(col string, from, to any) Operation {
	return func(t *table.Table) (*table.Table, error) {
		return nil, t.Map(col, func(v any) (any, error) {
			if reflect.DeepEqual(v, from) {
				return to, nil
			}
			return v, nil
		})
	}
}

// FailurePolicy decides what CoerceRecords does with a record that fails
// to convert.
type FailurePolicy int

const (
	// SkipRecord drops the record and logs a warning.
	SkipRecord FailurePolicy = iota
	// AbortRun fails the operation on the first bad record.
	AbortRun
)

// CoerceRecords converts every row with tr.
func CoerceRecords(tr *coerce.Transformer, policy FailurePolicy) Operation {
	return func(t *table.Table) (*table.Table, error) {
		logger := logging.GetLogger("pipeline")
		cols := t.Columns()
		out := table.New(cols...)
		skipped := 0
		for i := 0; i < t.Len(); i++ {
			rec, err := tr.Transform(t.Record(i))
			if err != nil {
				if policy == AbortRun {
					return nil, errors.Wrapf(err, errors.ErrCoercion, "row %d", i).WithDetail("row", i)
				}
				logger.Warn().Err(err).Int("row", i).Msg("dropping record that failed to convert")
				skipped++
				continue
			}
			row := make([]any, len(cols))
			for j, c := range cols {
				row[j] = rec[c]
			}
			if err := out.AppendRow(row...); err != nil {
				return nil, err
			}
		}
		if skipped > 0 {
			logger.Warn().Int("skipped", skipped).Int("kept", out.Len()).Msg("records dropped during conversion")
		}
		return out, nil
	}
}
