package storage

import (
	"strings"

	"github.com/duke-git/lancet/v2/convertor"

	"github.com/haferml/hafer/pkg/errors"
	"github.com/haferml/hafer/pkg/logging"
	"github.com/haferml/hafer/pkg/tree"
)

// LocalStorage is a JSON lines file of records, optionally cached in memory.
type LocalStorage struct {
	Target  string
	records []*tree.Value
	loaded  bool
}

// NewLocalStorage returns a storage backed by target.
func NewLocalStorage(target string) *LocalStorage {
	return &LocalStorage{Target: target}
}

// Load reads every record of the target. A missing target holds no records.
func (s *LocalStorage) Load(keepInMemory bool) ([]*tree.Value, error) {
	records, err := LoadRecords(s.Target)
	if err != nil && !errors.IsErrorCode(err, errors.ErrFileNotFound) {
		return nil, err
	}
	if keepInMemory {
		s.records = records
		s.loaded = true
	}
	return records, nil
}

// Records returns the records held in memory.
func (s *LocalStorage) Records() []*tree.Value {
	return s.records
}

// Lookup finds the first record whose value at one of paths equals id,
// compared as lower-case strings.
func (s *LocalStorage) Lookup(id any, paths ...tree.Path) (*tree.Value, bool, error) {
	if len(paths) == 0 {
		return nil, false, errors.New(errors.ErrInvalidInput, "no lookup paths given")
	}
	if _, ok := id.(string); !ok {
		logger := logging.GetLogger("storage")
		logger.Warn().Interface("id", id).Msg("record identifier is not a string")
	}
	want := strings.ToLower(convertor.ToString(id))

	if !s.loaded {
		if _, err := s.Load(true); err != nil {
			return nil, false, err
		}
	}

	for _, r := range s.records {
		for _, p := range paths {
			v, ok := tree.Lookup(r, p)
			if !ok || !v.IsScalar() || v.Raw() == nil {
				continue
			}
			if strings.ToLower(convertor.ToString(v.Raw())) == want {
				return r, true, nil
			}
		}
	}
	return nil, false, nil
}

// IsInStorage reports whether a record with id at one of paths exists.
func (s *LocalStorage) IsInStorage(id any, paths ...tree.Path) (bool, error) {
	_, ok, err := s.Lookup(id, paths...)
	return ok, err
}

// Save appends record unless a record with the same identifier, read from
// idPath, is already stored.
func (s *LocalStorage) Save(record *tree.Value, idPath tree.Path) (bool, error) {
	id, err := tree.Get(record, idPath)
	if err != nil {
		return false, err
	}
	exists, err := s.IsInStorage(id.Raw(), idPath)
	if err != nil {
		return false, err
	}
	if exists {
		logger := logging.GetLogger("storage")
		logger.Debug().
			Interface("id", id.Raw()).
			Msg("record already stored")
		return false, nil
	}
	if err := SaveRecords(s.Target, []any{record}, SaveOptions{Flush: true}); err != nil {
		return false, err
	}
	s.records = append(s.records, record.Clone())
	return true, nil
}
