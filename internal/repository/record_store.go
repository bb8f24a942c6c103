// Package repository persists opaque string records keyed by name. The data
// model lives above it; this layer never interprets the stored values.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is a durable string key-value medium.
type Store interface {
	Read(ctx context.Context, key string) (value string, ok bool, err error)
	Write(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Record is one persisted key/value row.
type Record struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

// QuotaExceededError reports that the underlying medium refused a write
// because it is full. It is never retried automatically; the user has to
// free space or export their data first.
type QuotaExceededError struct {
	Key string
	Err error
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("storage is full, could not write %q: delete some data or export it first (%v)", e.Key, e.Err)
}

func (e *QuotaExceededError) Unwrap() error { return e.Err }

// RecordStore keeps records in SQLite through gorm.
type RecordStore struct {
	db *gorm.DB
}

func NewRecordStore(db *gorm.DB) *RecordStore {
	return &RecordStore{db: db}
}

func (s *RecordStore) Read(ctx context.Context, key string) (string, bool, error) {
	var rec Record
	err := s.db.WithContext(ctx).First(&rec, "key = ?", key).Error
	switch {
	case err == nil:
		return rec.Value, true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return "", false, nil
	default:
		return "", false, fmt.Errorf("read record %q: %w", key, err)
	}
}

func (s *RecordStore) Write(ctx context.Context, key, value string) error {
	rec := Record{Key: key, Value: value}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&rec).Error
	if err != nil {
		if isMediumFull(err) {
			return &QuotaExceededError{Key: key, Err: err}
		}
		return fmt.Errorf("write record %q: %w", key, err)
	}
	return nil
}

func (s *RecordStore) Remove(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Delete(&Record{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("remove record %q: %w", key, err)
	}
	return nil
}

// isMediumFull matches the SQLite errors raised when the disk has no room
// left for the write.
func isMediumFull(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database or disk is full") ||
		strings.Contains(msg, "no space left on device")
}
