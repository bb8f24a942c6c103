package repository

import (
	"context"
	"errors"
)

// MemoryStore keeps records in a map. It backs tests and throwaway setups
// that do not need durability. When MaxBytes is positive, writes that would
// push the total stored size past it fail with QuotaExceededError, which
// lets quota handling be exercised deterministically.
type MemoryStore struct {
	MaxBytes int
	records  map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]string)}
}

func (s *MemoryStore) Read(ctx context.Context, key string) (string, bool, error) {
	value, ok := s.records[key]
	return value, ok, nil
}

func (s *MemoryStore) Write(ctx context.Context, key, value string) error {
	if s.MaxBytes > 0 {
		total := len(value)
		for k, v := range s.records {
			if k != key {
				total += len(v)
			}
		}
		if total > s.MaxBytes {
			return &QuotaExceededError{Key: key, Err: errors.New("memory store limit reached")}
		}
	}
	s.records[key] = value
	return nil
}

func (s *MemoryStore) Remove(ctx context.Context, key string) error {
	delete(s.records, key)
	return nil
}
