package coerce

import (
	"strings"
	"time"

	"github.com/duke-git/lancet/v2/convertor"
)

var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04",
	"2006-01-02",
	"2 Jan 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"January 2, 2006",
}

var dayFirstLayouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"2/1/2006",
	"02.01.2006",
	"02-01-2006",
}

var monthFirstLayouts = []string{
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
}

func (c *Coercer) layouts() []string {
	out := make([]string, 0, len(c.opts.Layouts)+len(isoLayouts)+len(dayFirstLayouts)+len(monthFirstLayouts))
	out = append(out, c.opts.Layouts...)
	out = append(out, isoLayouts...)
	if c.opts.DayFirst {
		out = append(out, dayFirstLayouts...)
		out = append(out, monthFirstLayouts...)
	} else {
		out = append(out, monthFirstLayouts...)
		out = append(out, dayFirstLayouts...)
	}
	return out
}

// Datetime accepts time.Time, strings in any known layout and numbers as
// epoch milliseconds. Results are in the output location.
func (c *Coercer) Datetime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.In(c.opts.OutputLocation), nil
	case *time.Time:
		if t == nil {
			return time.Time{}, failure(v, "datetime", nil)
		}
		return t.In(c.opts.OutputLocation), nil
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range c.layouts() {
			if parsed, err := time.ParseInLocation(layout, s, c.opts.InputLocation); err == nil {
				return parsed.In(c.opts.OutputLocation), nil
			}
		}
		return time.Time{}, failure(v, "datetime", nil)
	case int, int32, int64, float32, float64, uint, uint32, uint64:
		f, err := convertor.ToFloat(t)
		if err != nil {
			return time.Time{}, failure(v, "datetime", err)
		}
		return time.UnixMilli(int64(f)).In(c.opts.OutputLocation), nil
	}
	return time.Time{}, failure(v, "datetime", nil)
}

// Date is Datetime truncated to midnight in the output location.
func (c *Coercer) Date(v any) (time.Time, error) {
	t, err := c.Datetime(v)
	if err != nil {
		return time.Time{}, failure(v, "date", err)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()), nil
}

// Datetime converts with the default coercer.
func Datetime(v any) (time.Time, error) {
	return defaultCoercer.Datetime(v)
}

// UnpackDatetime splits a datetime into year, month, day and weekday
// (Monday is 1). Unparseable input yields an empty map.
func UnpackDatetime(v any) map[string]int {
	t, err := defaultCoercer.Datetime(v)
	if err != nil || IsNull(v) {
		return map[string]int{}
	}
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	return map[string]int{
		"year":    t.Year(),
		"month":   int(t.Month()),
		"day":     t.Day(),
		"weekday": wd,
	}
}

// DateRangeHasWeekday reports whether any day from start to end, both
// included, is Monday to Friday. ok is false when either bound is missing
// or unparseable.
func DateRangeHasWeekday(start, end any) (has bool, ok bool) {
	if IsNull(start) || IsNull(end) {
		return false, false
	}
	s, err := defaultCoercer.Date(start)
	if err != nil {
		return false, false
	}
	e, err := defaultCoercer.Date(end)
	if err != nil {
		return false, false
	}
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			return true, true
		}
	}
	return false, true
}
