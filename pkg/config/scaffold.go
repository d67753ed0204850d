package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/haferml/hafer/pkg/errors"
	"github.com/haferml/hafer/pkg/logging"
	"github.com/haferml/hafer/pkg/tree"
)

// DefaultDocument returns a fresh copy of the example project document.
func DefaultDocument() *tree.Value {
	doc, err := tree.Decode(projectTemplate)
	if err != nil {
		panic("config: embedded project template is invalid: " + err.Error())
	}
	return doc
}

// ScaffoldOptions control Scaffold.
type ScaffoldOptions struct {
	// Confirm answers yes/no questions. A nil Confirm declines everything.
	Confirm func(question string) (bool, error)
	// Format overrides the format implied by the file extension.
	Format Format
	// Grace is how long to wait before overwriting an existing file.
	Grace time.Duration
	// Wait is called with Grace before an overwrite. Defaults to time.Sleep.
	Wait func(time.Duration)
	// Document to write. Defaults to DefaultDocument().
	Document *tree.Value
}

// ScaffoldResult reports what Scaffold did.
type ScaffoldResult struct {
	Path        string
	Format      Format
	CreatedDir  bool
	Overwritten bool
}

// Scaffold writes a project document to path. A missing parent folder and an
// existing file both need confirmation; declining either fails with
// ErrAborted and writes nothing.
func Scaffold(path string, opts ScaffoldOptions) (*ScaffoldResult, error) {
	logger := logging.GetLogger("config.scaffold")

	confirm := opts.Confirm
	if confirm == nil {
		confirm = func(string) (bool, error) { return false, nil }
	}
	format := opts.Format
	if format == "" {
		format = FormatFromPath(path)
	}
	doc := opts.Document
	if doc == nil {
		doc = DefaultDocument()
	}

	content, err := Encode(doc, format)
	if err != nil {
		return nil, err
	}

	result := &ScaffoldResult{Path: path, Format: format}

	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		ok, err := confirm("Folder " + dir + " doesn't exist. Shall we create it?")
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrAborted, "confirmation failed")
		}
		if !ok {
			return nil, errors.Newf(errors.ErrAborted, "folder %s was not created", dir).
				WithDetail("path", path)
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create folder %s", dir)
		}
		result.CreatedDir = true
		logger.Info().Str("dir", dir).Msg("created folder")
	} else if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to check folder %s", dir)
	}

	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return nil, errors.Newf(errors.ErrInvalidInput, "%s is a directory", path)
	case err == nil:
		ok, err := confirm("Config file " + path + " already exists. Override?")
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrAborted, "confirmation failed")
		}
		if !ok {
			return nil, errors.Newf(errors.ErrAborted, "kept existing %s", path).
				WithDetail("path", path)
		}
		if opts.Grace > 0 {
			wait := opts.Wait
			if wait == nil {
				wait = time.Sleep
			}
			logger.Info().Dur("grace", opts.Grace).Str("path", path).Msg("waiting before overwrite")
			wait(opts.Grace)
		}
		if err := os.WriteFile(path, content, 0644); err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path)
		}
		result.Overwritten = true
	case os.IsNotExist(err):
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileCreate, "failed to create %s", path)
		}
		if _, err := f.Write(content); err != nil {
			_ = f.Close()
			return nil, errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path)
		}
		if err := f.Close(); err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileWrite, "failed to close %s", path)
		}
	default:
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to check %s", path)
	}

	logger.Info().Str("path", path).Str("format", string(format)).Bool("overwritten", result.Overwritten).Msg("config scaffolded")
	return result, nil
}
