package storage

import (
	"os"
	"path/filepath"

	"github.com/haferml/hafer/pkg/errors"
	"github.com/haferml/hafer/pkg/logging"
)

// PrepareFolders creates every folder of folders below base.
func PrepareFolders(base string, folders []string) error {
	logger := logging.GetLogger("storage")
	if len(folders) == 0 {
		return errors.New(errors.ErrInvalidInput, "no folders to prepare")
	}
	if _, err := os.Stat(base); err == nil {
		logger.Info().Str("base", base).Msg("using existing base folder")
	}

	for _, f := range folders {
		dir := filepath.Join(base, f)
		if _, err := os.Stat(dir); err == nil {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", dir).
				WithDetail("path", dir)
		}
		logger.Info().Str("path", dir).Msg("created folder")
	}
	return nil
}
