package coerce_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haferml/hafer/pkg/coerce"
	"github.com/haferml/hafer/pkg/errors"
)

func TestTo(t *testing.T) {
	tests := []struct {
		name string
		in   any
		kind string
		want any
	}{
		{name: "str_trims", in: "  berlin ", kind: "str", want: "berlin"},
		{name: "string_from_int", in: 42, kind: "string", want: "42"},
		{name: "int_from_string", in: "42", kind: "int", want: 42},
		{name: "int_from_eu_string", in: "1.234,9", kind: "int", want: 1234},
		{name: "float_from_eu_string", in: "1.234,5", kind: "float", want: 1234.5},
		{name: "float_from_int", in: 3, kind: "float", want: 3.0},
		{name: "bool_yes", in: "Yes", kind: "bool", want: true},
		{name: "bool_zero", in: 0, kind: "bool", want: false},
		{name: "bool_unknown_is_nil", in: "maybe", kind: "bool", want: nil},
		{name: "bool_int32", in: int32(2), kind: "bool", want: true},
		{name: "bool_uint_zero", in: uint(0), kind: "bool", want: false},
		{name: "bool_float32", in: float32(0.5), kind: "bool", want: true},
		{name: "list_literal", in: "[1, 'a']", kind: "list", want: []any{1, "a"}},
		{name: "list_from_slice", in: []string{"a"}, kind: "list", want: []any{"a"}},
		{name: "kind_is_case_insensitive", in: "7", kind: "INT", want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := coerce.To(tt.in, tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBoolNumbers(t *testing.T) {
	for _, v := range []any{int8(1), int16(-3), int32(7), int64(1), uint(4), uint8(1), uint16(9), uint32(2), uint64(5), float32(1.5), 2.0} {
		assert.Equal(t, true, coerce.Bool(v), "%T", v)
	}
	for _, v := range []any{int8(0), int32(0), uint(0), uint64(0), float32(0), 0.0} {
		assert.Equal(t, false, coerce.Bool(v), "%T", v)
	}
	assert.Nil(t, coerce.Bool(float32(math.NaN())))
	assert.Nil(t, coerce.Bool([]int{1}))
}

func TestToNullLike(t *testing.T) {
	for _, kind := range []string{"str", "int", "float", "bool", "datetime", "date", "list"} {
		got, err := coerce.To(nil, kind)
		assert.NoError(t, err, kind)
		assert.Nil(t, got, kind)

		got, err = coerce.To(math.NaN(), kind)
		assert.NoError(t, err, kind)
		assert.Nil(t, got, kind)
	}
}

func TestToFailure(t *testing.T) {
	_, err := coerce.To("abc", "int")
	require.Error(t, err)

	var he *errors.HaferError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, errors.ErrCoercion, he.Code)
	assert.Equal(t, "abc to int", he.Message)

	_, err = coerce.To("not a date", "datetime")
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "not a date to datetime", he.Message)

	_, err = coerce.To("x", "decimal")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestDatetime(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata not available")
	}

	tests := []struct {
		name string
		opts coerce.Options
		in   any
		want time.Time
	}{
		{
			name: "epoch_milliseconds",
			in:   int64(1531323212311),
			want: time.Date(2018, 7, 11, 15, 33, 32, 311000000, time.UTC),
		},
		{
			name: "iso_date",
			in:   "2021-03-04",
			want: time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "month_first_by_default",
			in:   "03/04/2021",
			want: time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "day_first",
			opts: coerce.Options{DayFirst: true},
			in:   "03/04/2021",
			want: time.Date(2021, 4, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "input_location",
			opts: coerce.Options{InputLocation: berlin},
			in:   "2021-01-01 12:00:00",
			want: time.Date(2021, 1, 1, 11, 0, 0, 0, time.UTC),
		},
		{
			name: "custom_layout",
			opts: coerce.Options{Layouts: []string{"20060102"}},
			in:   "20210304",
			want: time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := coerce.New(tt.opts).Datetime(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestUnpackDatetime(t *testing.T) {
	got := coerce.UnpackDatetime("2021-03-07")
	assert.Equal(t, map[string]int{"year": 2021, "month": 3, "day": 7, "weekday": 7}, got)
	assert.Empty(t, coerce.UnpackDatetime("garbage"))
	assert.Empty(t, coerce.UnpackDatetime(nil))
}

func TestDateRangeHasWeekday(t *testing.T) {
	has, ok := coerce.DateRangeHasWeekday("2021-03-06", "2021-03-07")
	assert.True(t, ok)
	assert.False(t, has)

	has, ok = coerce.DateRangeHasWeekday("2021-03-06", "2021-03-08")
	assert.True(t, ok)
	assert.True(t, has)

	_, ok = coerce.DateRangeHasWeekday(nil, "2021-03-08")
	assert.False(t, ok)
}

func TestRegisterCustomKind(t *testing.T) {
	c := coerce.New(coerce.Options{})
	require.NoError(t, c.Register("upper", func(v any) (any, error) {
		s, ok := v.(string)
		if !ok {
			return nil, errors.New(errors.ErrInvalidInput, "not a string")
		}
		return s + "!", nil
	}))

	got, err := c.To("go", "upper")
	require.NoError(t, err)
	assert.Equal(t, "go!", got)

	_, err = c.To(1, "upper")
	assert.True(t, errors.IsErrorCode(err, errors.ErrCoercion))
	assert.Contains(t, c.Kinds(), "upper")
}
