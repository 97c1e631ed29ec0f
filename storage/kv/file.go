package kv

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/alama/core/academic"
)

type fileStore struct {
	dir   string
	mutex sync.Mutex
}

// NewFileStore persists entries as one file per key under dir, creating dir
// if needed. Writes go through a temp file and rename so a crashed write
// never leaves a truncated snapshot behind.
func NewFileStore(dir string) (academic.Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "creating cache dir")
	}
	return &fileStore{dir: dir}, nil
}

func (s *fileStore) Get(key string) ([]byte, error) {
	data, err := ioutil.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, academic.ErrCacheMiss
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading cache entry")
	}
	return data, nil
}

func (s *fileStore) Set(key string, value []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	path := s.path(key)
	tmp := path + ".tmp"
	if err := ioutil.WriteFile(tmp, value, 0644); err != nil {
		return errors.Wrap(err, "writing cache entry")
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrap(err, "committing cache entry")
	}
	return nil
}

func (s *fileStore) Remove(key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing cache entry")
	}
	return nil
}

// path flattens the "kind/id" key shape into a single file name.
func (s *fileStore) path(key string) string {
	return filepath.Join(s.dir, strings.ReplaceAll(key, "/", "__")+".json")
}
