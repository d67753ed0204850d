package coerce_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haferml/hafer/pkg/coerce"
	"github.com/haferml/hafer/pkg/errors"
)

func TestDecodeSchema(t *testing.T) {
	raw := []any{
		map[string]any{"column_name": "km", "type": "float"},
		map[string]any{"column_name": "paid", "type": "bool"},
	}
	fields, err := coerce.DecodeSchema(raw)
	require.NoError(t, err)
	assert.Equal(t, []coerce.Field{{Column: "km", Type: "float"}, {Column: "paid", Type: "bool"}}, fields)

	_, err = coerce.DecodeSchema([]any{map[string]any{"type": "int"}})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestTransformerConvertsRecord(t *testing.T) {
	tr, err := coerce.NewTransformer([]coerce.Field{
		{Column: "id", Type: "int"},
		{Column: "paid", Type: "bool"},
	})
	require.NoError(t, err)

	in := map[string]any{"id": "7", "paid": "no", "note": " raw "}
	got, err := tr.Transform(in)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"id": 7, "paid": false, "note": " raw "}, got)
	assert.Equal(t, "7", in["id"], "input record must not change")
}

func TestTransformerRejectsWholeRecord(t *testing.T) {
	tr, err := coerce.NewTransformer([]coerce.Field{
		{Column: "id", Type: "int"},
		{Column: "km", Type: "float"},
		{Column: "city", Type: "str"},
	})
	require.NoError(t, err)

	got, err := tr.Transform(map[string]any{"id": "x", "km": "y", "city": "bonn"})
	assert.Nil(t, got)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCoercion))
	assert.Equal(t, []string{"id", "km"}, errors.GetErrorDetails(err)["columns"])
}

func TestTransformerCustomColumn(t *testing.T) {
	tr, err := coerce.NewTransformer(
		[]coerce.Field{{Column: "code", Type: "unused"}},
		coerce.WithColumnFunc("code", func(v any) (any, error) { return "C-" + v.(string), nil }),
	)
	require.NoError(t, err)

	got, err := tr.Transform(map[string]any{"code": "9", "other": nil})
	require.NoError(t, err)
	assert.Equal(t, "C-9", got["code"])

	got, err = tr.Transform(map[string]any{"code": nil})
	require.NoError(t, err)
	assert.Nil(t, got["code"])
}

func TestTransformerUnknownKind(t *testing.T) {
	_, err := coerce.NewTransformer([]coerce.Field{{Column: "x", Type: "decimal"}})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}
