package memstore

import (
	"sync"

	"github.com/hubdash/go-hub-dashboards/kvstore"
)

var _ kvstore.Store = (*Store)(nil)

// Store is an in-memory implementation of the kvstore port. It backs tests
// and ephemeral sessions; nothing survives the process.
type Store struct {
	mu       sync.RWMutex
	data     map[string]string
	writeErr error
}

func New() *Store {
	return &Store{
		data: make(map[string]string),
	}
}

func (s *Store) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	return value, ok, nil
}

func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writeErr != nil {
		return s.writeErr
	}
	s.data[key] = value
	return nil
}

func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writeErr != nil {
		return s.writeErr
	}
	delete(s.data, key)
	return nil
}

// FailWritesWith makes every subsequent Set/Delete return err, simulating a
// full or broken backing store. Pass nil to restore normal behaviour.
func (s *Store) FailWritesWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeErr = err
}

// Len reports the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
