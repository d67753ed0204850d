package table

import (
	"math"
	"sort"

	"github.com/duke-git/lancet/v2/convertor"

	"github.com/haferml/hafer/pkg/errors"
	"github.com/haferml/hafer/pkg/logging"
)

// RangeCounts is the histogram of one column over fixed bins.
type RangeCounts struct {
	// Lower holds the left edge of every bin.
	Lower []float64
	// Count and Percent are per bin. Percent is the share of the values
	// that fell into any bin.
	Count   []int
	Percent []float64
	// Values are all values of the column, NaN where a cell is empty.
	Values []float64
}

// Total is the number of values that fell into a bin.
func (r RangeCounts) Total() int {
	n := 0
	for _, c := range r.Count {
		n += c
	}
	return n
}

// StepBins returns the edges 0, step, 2*step ... below upper.
func StepBins(upper, step float64) []float64 {
	var out []float64
	for x := 0.0; x < upper; x += step {
		out = append(out, x)
	}
	return out
}

// DefaultBins are used by CountWithinRanges when no bins are given.
var DefaultBins = StepBins(7000, 100)

// DefaultGroupedBins are used by CountWithinRangesByGroups when no bins are
// given.
var DefaultGroupedBins = StepBins(10000, 100)

// CountWithinRanges counts the values of col per bin. Bin i holds the
// values v with bins[i] < v <= bins[i+1]; values outside every bin and empty
// cells are not counted. bins must be strictly increasing with at least two
// edges. Cells that cannot be read as numbers fail with ErrCoercion.
func CountWithinRanges(t *Table, col string, bins []float64) (RangeCounts, error) {
	if bins == nil {
		bins = DefaultBins
	}
	if err := checkBins(bins); err != nil {
		return RangeCounts{}, err
	}
	values, ok := t.Column(col)
	if !ok {
		return RangeCounts{}, errors.Newf(errors.ErrNotFound, "column %q not found", col).
			WithDetail("column", col)
	}

	out := RangeCounts{
		Lower:   append([]float64(nil), bins[:len(bins)-1]...),
		Count:   make([]int, len(bins)-1),
		Percent: make([]float64, len(bins)-1),
		Values:  make([]float64, len(values)),
	}
	for i, v := range values {
		f, err := cellFloat(v)
		if err != nil {
			return RangeCounts{}, errors.Wrapf(err, errors.ErrCoercion, "column %q row %d is not a number", col, i).
				WithDetail("value", v)
		}
		out.Values[i] = f
		if math.IsNaN(f) {
			continue
		}
		if b := sort.SearchFloat64s(bins, f); b > 0 && b < len(bins) {
			out.Count[b-1]++
		}
	}

	if total := out.Total(); total > 0 {
		for i, c := range out.Count {
			out.Percent[i] = float64(c) / float64(total)
		}
	}
	return out, nil
}

// CountWithinRangesByGroups runs CountWithinRanges on every group of rows
// that share a value in first and then in second. Group keys are the cell
// text as printed by FormatCell; rows with an empty group cell are dropped.
func CountWithinRangesByGroups(t *Table, first, second, col string, bins []float64) (map[string]map[string]RangeCounts, error) {
	if bins == nil {
		logger := logging.GetLogger("table")
		logger.Warn().
			Float64("from", DefaultGroupedBins[0]).
			Float64("to", DefaultGroupedBins[len(DefaultGroupedBins)-1]).
			Msg("no bins given, using the default range")
		bins = DefaultGroupedBins
	}
	for _, c := range []string{first, second, col} {
		if !t.HasColumn(c) {
			return nil, errors.Newf(errors.ErrNotFound, "column %q not found", c).
				WithDetail("column", c)
		}
	}

	groups := map[string]map[string]*Table{}
	for i, row := range t.rows {
		a, b := row[t.index[first]], row[t.index[second]]
		if a == nil || b == nil {
			continue
		}
		ka, kb := FormatCell(a), FormatCell(b)
		if groups[ka] == nil {
			groups[ka] = map[string]*Table{}
		}
		g := groups[ka][kb]
		if g == nil {
			g = New(t.columns...)
			groups[ka][kb] = g
		}
		g.rows = append(g.rows, t.Row(i))
	}

	out := make(map[string]map[string]RangeCounts, len(groups))
	for ka, inner := range groups {
		out[ka] = make(map[string]RangeCounts, len(inner))
		for kb, g := range inner {
			counts, err := CountWithinRanges(g, col, bins)
			if err != nil {
				return nil, errors.Wrapf(err, errors.GetErrorCode(err), "group %s/%s", ka, kb).
					WithDetail(first, ka).
					WithDetail(second, kb)
			}
			out[ka][kb] = counts
		}
	}
	return out, nil
}

func checkBins(bins []float64) error {
	if len(bins) < 2 {
		return errors.Newf(errors.ErrInvalidInput, "need at least two bin edges, got %d", len(bins))
	}
	for i := 1; i < len(bins); i++ {
		if !(bins[i] > bins[i-1]) {
			return errors.Newf(errors.ErrInvalidInput, "bin edges must increase, %v follows %v", bins[i], bins[i-1]).
				WithDetail("position", i)
		}
	}
	return nil
}

func cellFloat(v any) (float64, error) {
	if v == nil {
		return math.NaN(), nil
	}
	if s, ok := v.(string); ok && s == "" {
		return math.NaN(), nil
	}
	return convertor.ToFloat(v)
}
