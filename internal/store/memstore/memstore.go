// Package memstore is a process-local KV. Nothing survives a restart.
package memstore

// Store keeps values in a map.
type Store struct {
	data map[string]string
}

func New() *Store {
	return &Store{data: make(map[string]string)}
}

func (s *Store) Get(key string) (string, bool, error) {
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *Store) Set(key, value string) error {
	s.data[key] = value
	return nil
}
