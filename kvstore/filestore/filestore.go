package filestore

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hubdash/go-hub-dashboards/kvstore"
	"github.com/pkg/errors"
)

var _ kvstore.Store = (*Store)(nil)

// Store persists each key as one JSON file inside a data folder. It is the
// durable counterpart of browser local storage: values survive process
// restarts and stay readable with any text editor.
type Store struct {
	mu     sync.Mutex
	folder string
}

// New creates the data folder if needed and returns a file-backed store.
func New(folder string) (*Store, error) {
	if strings.TrimSpace(folder) == "" {
		return nil, errors.New("[filestore.New] folder is required")
	}
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return nil, errors.Wrap(err, "[filestore.New] os.MkdirAll")
	}
	return &Store{folder: folder}, nil
}

func (s *Store) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "[filestore.Get] os.ReadFile")
	}
	return string(data), true, nil
}

func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0o600); err != nil {
		return errors.Wrap(err, "[filestore.Set] os.WriteFile")
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrap(err, "[filestore.Set] os.Rename")
	}
	return nil
}

func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[filestore.Delete] os.Remove")
	}
	return nil
}

// path maps a namespaced key such as "hubdash.projects" to a file name,
// rejecting separators that could escape the data folder.
func (s *Store) path(key string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(key)
	return filepath.Join(s.folder, safe+".json")
}
