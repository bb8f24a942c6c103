// Package service implements the storage, grouping, backup, and reminder
// logic on top of the record store.
package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/israelkumar/supertodo/internal/model"
	"github.com/israelkumar/supertodo/internal/repository"
)

// DefaultNamespace prefixes the persisted record keys unless the caller
// picks another one.
const DefaultNamespace = "supertodo"

// StorageService orchestrates task and category persistence: validation,
// referential integrity, cascade effects, duplicate-name enforcement, and
// corrupted-record recovery. All operations are synchronous; each one either
// fully applies its change or fails before touching the store, except the
// documented two-write category delete.
type StorageService struct {
	store         repository.Store
	log           logrus.FieldLogger
	tasksKey      string
	categoriesKey string

	// Now and NewID are replaceable so tests run with deterministic
	// timestamps and ids.
	Now   func() time.Time
	NewID func() string
}

func NewStorageService(store repository.Store, namespace string, log logrus.FieldLogger) *StorageService {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if log == nil {
		log = logrus.New()
	}
	return &StorageService{
		store:         store,
		log:           log,
		tasksKey:      namespace + "_tasks",
		categoriesKey: namespace + "_categories",
		Now:           time.Now,
		NewID:         uuid.NewString,
	}
}

func (s *StorageService) timestamp() string {
	return s.Now().Format(time.RFC3339)
}

// loadTasks decodes the stored task collection. A record that fails to
// decode is cleared and treated as absent, so the corruption is handled once
// and not re-reported on the next read.
func (s *StorageService) loadTasks(ctx context.Context) ([]model.Task, error) {
	raw, ok, err := s.store.Read(ctx, s.tasksKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []model.Task{}, nil
	}

	var tasks []model.Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		s.log.WithField("key", s.tasksKey).WithError(err).
			Warn("corrupted task record, falling back to an empty list")
		if err := s.store.Remove(ctx, s.tasksKey); err != nil {
			return nil, err
		}
		return []model.Task{}, nil
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

func (s *StorageService) saveTasks(ctx context.Context, tasks []model.Task) error {
	raw, err := json.Marshal(tasks)
	if err != nil {
		return err
	}
	return s.store.Write(ctx, s.tasksKey, string(raw))
}

// loadCategories decodes the stored category collection. On first-ever
// access (no record at all, not merely an empty list) it seeds and persists
// the default set. A record that fails to decode is cleared and reseeded the
// same way.
func (s *StorageService) loadCategories(ctx context.Context) ([]model.Category, error) {
	raw, ok, err := s.store.Read(ctx, s.categoriesKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return s.seedDefaultCategories(ctx)
	}

	var categories []model.Category
	if err := json.Unmarshal([]byte(raw), &categories); err != nil {
		s.log.WithField("key", s.categoriesKey).WithError(err).
			Warn("corrupted category record, reseeding defaults")
		if err := s.store.Remove(ctx, s.categoriesKey); err != nil {
			return nil, err
		}
		return s.seedDefaultCategories(ctx)
	}
	if categories == nil {
		categories = []model.Category{}
	}
	return categories, nil
}

func (s *StorageService) saveCategories(ctx context.Context, categories []model.Category) error {
	raw, err := json.Marshal(categories)
	if err != nil {
		return err
	}
	return s.store.Write(ctx, s.categoriesKey, string(raw))
}

func (s *StorageService) seedDefaultCategories(ctx context.Context) ([]model.Category, error) {
	defaults := []model.Category{
		{ID: s.NewID(), Name: "Work", Description: "Tasks related to job and professional projects"},
		{ID: s.NewID(), Name: "Personal", Description: "Personal tasks and errands"},
		{ID: s.NewID(), Name: "Shopping", Description: "Shopping lists and purchases"},
		{ID: s.NewID(), Name: "Health", Description: "Health and wellness tasks"},
	}
	if err := s.saveCategories(ctx, defaults); err != nil {
		return nil, err
	}
	return defaults, nil
}
