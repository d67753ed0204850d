package storage

import (
	"bufio"
	"bytes"
	"os"

	"github.com/ohler55/ojg/oj"

	"github.com/haferml/hafer/pkg/errors"
	"github.com/haferml/hafer/pkg/logging"
	"github.com/haferml/hafer/pkg/tree"
)

const maxLineSize = 16 << 20

// SaveOptions control SaveRecords.
type SaveOptions struct {
	// Truncate replaces the file instead of appending to it.
	Truncate bool
	// Flush syncs the file after every record.
	Flush bool
}

// SaveRecords writes records as JSON lines. A record is a *tree.Value or
// anything tree.FromAny accepts; plain Go maps are written with sorted keys.
func SaveRecords(path string, records []any, opts SaveOptions) error {
	flags := os.O_CREATE | os.O_WRONLY
	if opts.Truncate {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_APPEND
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileCreate, "could not open %s", path)
	}
	defer func() { _ = f.Close() }()

	w := bufio.NewWriter(f)
	for i, r := range records {
		line, err := tree.FromAny(r).MarshalJSON()
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileWrite, "record %d can not be encoded", i)
		}
		line = append(line, '\n')
		if _, err := w.Write(line); err != nil {
			return errors.Wrapf(err, errors.ErrFileWrite, "could not write %s", path)
		}
		if opts.Flush {
			if err := w.Flush(); err != nil {
				return errors.Wrapf(err, errors.ErrFileWrite, "could not write %s", path)
			}
			if err := f.Sync(); err != nil {
				return errors.Wrapf(err, errors.ErrFileWrite, "could not sync %s", path)
			}
		}
	}
	if err := w.Flush(); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "could not write %s", path)
	}
	return nil
}

// LoadRecords reads a JSON lines file. Blank lines are ignored. Lines that
// are not a JSON object are logged and skipped.
func LoadRecords(path string) ([]*tree.Value, error) {
	logger := logging.GetLogger("storage")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrFileNotFound, "records file %s does not exist", path)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "could not open %s", path)
	}
	defer func() { _ = f.Close() }()

	var out []*tree.Value
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		if err := oj.Validate(raw); err != nil {
			logger.Warn().Err(err).Str("file", path).Int("line", line).Msg("record is not valid JSON")
			continue
		}
		v, err := tree.Decode(raw)
		if err != nil || v == nil || !v.IsMapping() {
			logger.Warn().Err(err).Str("file", path).Int("line", line).Msg("could not load record")
			continue
		}
		out = append(out, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "could not read %s", path)
	}
	return out, nil
}
