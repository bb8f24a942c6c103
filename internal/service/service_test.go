package service

import (
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/israelkumar/supertodo/internal/repository"
)

// newTestService builds a storage service over an in-memory store with a
// deterministic clock and sequential ids.
func newTestService(t *testing.T) (*StorageService, *repository.MemoryStore) {
	t.Helper()

	store := repository.NewMemoryStore()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	svc := NewStorageService(store, "testns", logger)

	seq := 0
	svc.NewID = func() string {
		seq++
		return fmt.Sprintf("id-%03d", seq)
	}

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tick := 0
	svc.Now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	return svc, store
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
