package service

import (
	"context"
	"strings"

	"github.com/israelkumar/supertodo/internal/model"
)

// CategoryPatch lists the category fields a partial update may change.
type CategoryPatch struct {
	Name        *string
	Description *string
}

// ListCategories returns the stored categories, seeding the defaults on
// first-ever access.
func (s *StorageService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.loadCategories(ctx)
}

// GetCategory returns the category with the given id, reporting absence
// through the second value.
func (s *StorageService) GetCategory(ctx context.Context, id string) (model.Category, bool, error) {
	categories, err := s.loadCategories(ctx)
	if err != nil {
		return model.Category{}, false, err
	}
	for _, category := range categories {
		if category.ID == id {
			return category, true, nil
		}
	}
	return model.Category{}, false, nil
}

// CreateCategory validates the input, rejects names already taken under
// case-insensitive comparison, and appends the new category.
func (s *StorageService) CreateCategory(ctx context.Context, in model.CategoryInput) (model.Category, error) {
	category, err := model.NewCategory(in, s.NewID())
	if err != nil {
		return model.Category{}, err
	}

	categories, err := s.loadCategories(ctx)
	if err != nil {
		return model.Category{}, err
	}
	for _, existing := range categories {
		if strings.EqualFold(existing.Name, category.Name) {
			return model.Category{}, &DuplicateNameError{Name: category.Name}
		}
	}

	categories = append(categories, category)
	if err := s.saveCategories(ctx, categories); err != nil {
		return model.Category{}, err
	}
	return category, nil
}

// UpdateCategory merges the patch over the existing record, re-validates the
// merged whole, and re-checks name uniqueness when the name changes. The
// record's own id is excluded from the check, so renaming a category to the
// same name under a different case is allowed.
func (s *StorageService) UpdateCategory(ctx context.Context, id string, patch CategoryPatch) (model.Category, error) {
	categories, err := s.loadCategories(ctx)
	if err != nil {
		return model.Category{}, err
	}

	idx := -1
	for i := range categories {
		if categories[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.Category{}, &NotFoundError{Kind: "category", ID: id}
	}

	merged := categories[idx]
	if patch.Name != nil {
		merged.Name = *patch.Name
	}
	if patch.Description != nil {
		merged.Description = *patch.Description
	}
	if err := model.ValidateCategory(merged); err != nil {
		return model.Category{}, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		for _, existing := range categories {
			if existing.ID != id && strings.EqualFold(existing.Name, name) {
				return model.Category{}, &DuplicateNameError{Name: name}
			}
		}
	}

	categories[idx] = merged
	if err := s.saveCategories(ctx, categories); err != nil {
		return model.Category{}, err
	}
	return merged, nil
}

// DeleteCategory removes the category and clears the reference on every task
// that pointed at it; the tasks stay. Tasks are written first: an
// interruption between the two writes leaves tasks correctly detached with
// the category still listed, which is recoverable by repeating the delete.
func (s *StorageService) DeleteCategory(ctx context.Context, id string) error {
	categories, err := s.loadCategories(ctx)
	if err != nil {
		return err
	}
	filtered := categories[:0:0]
	for _, category := range categories {
		if category.ID != id {
			filtered = append(filtered, category)
		}
	}
	if len(filtered) == len(categories) {
		return &NotFoundError{Kind: "category", ID: id}
	}

	tasks, err := s.loadTasks(ctx)
	if err != nil {
		return err
	}
	for i := range tasks {
		if tasks[i].CategoryID != nil && *tasks[i].CategoryID == id {
			tasks[i].CategoryID = nil
		}
	}

	if err := s.saveTasks(ctx, tasks); err != nil {
		return err
	}
	return s.saveCategories(ctx, filtered)
}
