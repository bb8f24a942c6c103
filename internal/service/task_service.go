package service

import (
	"context"

	"github.com/israelkumar/supertodo/internal/model"
)

// TaskPatch lists the task fields a partial update may change. Nil pointers
// leave a field untouched. The two nullable fields get explicit clear flags,
// since a nil pointer already means "not supplied".
type TaskPatch struct {
	Title         *string
	Description   *string
	DueDate       *string
	ClearDueDate  bool
	CategoryID    *string
	ClearCategory bool
	Completed     *bool
}

// ListTasks returns the stored tasks in insertion order.
func (s *StorageService) ListTasks(ctx context.Context) ([]model.Task, error) {
	return s.loadTasks(ctx)
}

// GetTask returns the task with the given id, reporting absence through the
// second value.
func (s *StorageService) GetTask(ctx context.Context, id string) (model.Task, bool, error) {
	tasks, err := s.loadTasks(ctx)
	if err != nil {
		return model.Task{}, false, err
	}
	for _, task := range tasks {
		if task.ID == id {
			return task, true, nil
		}
	}
	return model.Task{}, false, nil
}

// CreateTask validates the input, resolves the category reference if one is
// supplied, and appends the new task to the stored collection.
func (s *StorageService) CreateTask(ctx context.Context, in model.TaskInput) (model.Task, error) {
	task, err := model.NewTask(in, s.NewID(), s.timestamp())
	if err != nil {
		return model.Task{}, err
	}
	if task.CategoryID != nil {
		if err := s.checkCategoryRef(ctx, *task.CategoryID); err != nil {
			return model.Task{}, err
		}
	}

	tasks, err := s.loadTasks(ctx)
	if err != nil {
		return model.Task{}, err
	}
	tasks = append(tasks, task)
	if err := s.saveTasks(ctx, tasks); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

// UpdateTask merges the patch over the existing record, re-validates the
// merged whole, and re-checks the category reference if that field was
// supplied.
func (s *StorageService) UpdateTask(ctx context.Context, id string, patch TaskPatch) (model.Task, error) {
	tasks, err := s.loadTasks(ctx)
	if err != nil {
		return model.Task{}, err
	}

	idx := -1
	for i := range tasks {
		if tasks[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.Task{}, &NotFoundError{Kind: "task", ID: id}
	}

	merged := tasks[idx]
	if patch.Title != nil {
		merged.Title = *patch.Title
	}
	if patch.Description != nil {
		merged.Description = *patch.Description
	}
	switch {
	case patch.ClearDueDate:
		merged.DueDate = nil
	case patch.DueDate != nil:
		due := *patch.DueDate
		merged.DueDate = &due
	}
	switch {
	case patch.ClearCategory:
		merged.CategoryID = nil
	case patch.CategoryID != nil:
		categoryID := *patch.CategoryID
		merged.CategoryID = &categoryID
	}
	if patch.Completed != nil {
		merged.Completed = *patch.Completed
	}

	if err := model.ValidateTask(merged); err != nil {
		return model.Task{}, err
	}
	if patch.CategoryID != nil && !patch.ClearCategory {
		if err := s.checkCategoryRef(ctx, *patch.CategoryID); err != nil {
			return model.Task{}, err
		}
	}

	tasks[idx] = merged
	if err := s.saveTasks(ctx, tasks); err != nil {
		return model.Task{}, err
	}
	return merged, nil
}

// ToggleTaskCompletion flips the completed flag.
func (s *StorageService) ToggleTaskCompletion(ctx context.Context, id string) (model.Task, error) {
	tasks, err := s.loadTasks(ctx)
	if err != nil {
		return model.Task{}, err
	}
	for i := range tasks {
		if tasks[i].ID == id {
			tasks[i].Completed = !tasks[i].Completed
			if err := s.saveTasks(ctx, tasks); err != nil {
				return model.Task{}, err
			}
			return tasks[i], nil
		}
	}
	return model.Task{}, &NotFoundError{Kind: "task", ID: id}
}

// DeleteTask removes a task permanently.
func (s *StorageService) DeleteTask(ctx context.Context, id string) error {
	tasks, err := s.loadTasks(ctx)
	if err != nil {
		return err
	}
	filtered := tasks[:0:0]
	for _, task := range tasks {
		if task.ID != id {
			filtered = append(filtered, task)
		}
	}
	if len(filtered) == len(tasks) {
		return &NotFoundError{Kind: "task", ID: id}
	}
	return s.saveTasks(ctx, filtered)
}

// TasksInCategory filters tasks by exact category reference; a nil
// categoryID selects the uncategorized ones.
func (s *StorageService) TasksInCategory(ctx context.Context, categoryID *string) ([]model.Task, error) {
	tasks, err := s.loadTasks(ctx)
	if err != nil {
		return nil, err
	}
	matched := []model.Task{}
	for _, task := range tasks {
		if categoryRefEqual(task.CategoryID, categoryID) {
			matched = append(matched, task)
		}
	}
	return matched, nil
}

func (s *StorageService) checkCategoryRef(ctx context.Context, categoryID string) error {
	_, ok, err := s.GetCategory(ctx, categoryID)
	if err != nil {
		return err
	}
	if !ok {
		return &InvalidReferenceError{CategoryID: categoryID}
	}
	return nil
}

func categoryRefEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
