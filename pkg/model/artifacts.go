package model

import (
	"os"
	"path/filepath"

	"github.com/haferml/hafer/pkg/config"
	"github.com/haferml/hafer/pkg/errors"
	"github.com/haferml/hafer/pkg/logging"
	"github.com/haferml/hafer/pkg/pipeline"
	"github.com/haferml/hafer/pkg/storage"
)

// AppendReport appends report as one JSON line to path, creating the
// folder when needed. Times are written in RFC 3339.
func AppendReport(path string, report Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create folder for %s", path)
	}
	logger := logging.GetLogger("model")
	logger.Info().Str("path", path).Msg("saving report")
	return storage.SaveRecords(path, []any{map[string]any(report)}, storage.SaveOptions{Flush: true})
}

// ReportPath is the log file kept next to a model artifact.
func ReportPath(a config.Artifact) string {
	return a.Path() + ".log"
}

// ExportTables writes tables into the local folder of a dataset artifact as
// <name><ext>, for example model_X_train.csv.
func ExportTables(a config.Artifact, ext string, tables ...pipeline.NamedTable) error {
	dir := a.LocalAbsolute
	if dir == "" {
		return errors.New(errors.ErrInvalidInput, "artifact has no local folder")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", dir)
	}
	logger := logging.GetLogger("model")
	for _, nt := range tables {
		path := filepath.Join(dir, nt.Name+ext)
		logger.Info().Str("path", path).Int("rows", nt.Table.Len()).Msg("exporting table")
		if err := nt.Table.WriteFile(path); err != nil {
			return err
		}
	}
	return nil
}
