package testutil

import (
	"testing"

	"github.com/haferml/hafer/pkg/table"
)

// Confirmer answers confirmation questions from a fixed script. Questions
// asked beyond the script are declined. The returned slice pointer records
// every question.
func Confirmer(answers ...bool) (func(string) (bool, error), *[]string) {
	var asked []string
	return func(q string) (bool, error) {
		asked = append(asked, q)
		if len(asked) > len(answers) {
			return false, nil
		}
		return answers[len(asked)-1], nil
	}, &asked
}

// MustTable builds a table from positional rows or fails the test.
func MustTable(t *testing.T, columns []string, rows ...[]any) *table.Table {
	t.Helper()

	tbl, err := table.FromRows(columns, rows)
	if err != nil {
		t.Fatalf("Failed to build table: %v", err)
	}
	return tbl
}

// ArtifactsDocument is a small project document with artifacts at several
// depths.
const ArtifactsDocument = `{
  "etl": {
    "raw": {
      "transactions": {"local": "abc", "name": "def.parquet", "remote": ""},
      "model": {"local": "abc", "remote": ""}
    }
  },
  "model": {
    "rf": {
      "artifacts": {
        "model": {"local": "abc", "remote": ""},
        "prediction": {"local": "abc", "remote": ""}
      }
    }
  }
}
`
