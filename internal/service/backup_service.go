package service

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/israelkumar/supertodo/internal/model"
)

const snapshotVersion = "1.0"

// Snapshot is the versioned export document.
type Snapshot struct {
	Version    string       `json:"version"`
	ExportDate string       `json:"exportDate"`
	Data       SnapshotData `json:"data"`
}

// SnapshotData carries the two exported collections.
type SnapshotData struct {
	Tasks      []model.Task     `json:"tasks"`
	Categories []model.Category `json:"categories"`
}

// ImportResult reports how many records an import wrote.
type ImportResult struct {
	Tasks      int
	Categories int
}

// Export captures the stored collections as they are. Stored records are
// already normalized and are not re-validated.
func (s *StorageService) Export(ctx context.Context) (Snapshot, error) {
	tasks, err := s.loadTasks(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	categories, err := s.loadCategories(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Version:    snapshotVersion,
		ExportDate: s.timestamp(),
		Data:       SnapshotData{Tasks: tasks, Categories: categories},
	}, nil
}

// ExportJSON renders the snapshot as an indented document suitable for a
// backup file.
func (s *StorageService) ExportJSON(ctx context.Context) ([]byte, error) {
	snapshot, err := s.Export(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(raw, '\n'), nil
}

// Import replaces both collections with the document's contents. Every
// record is validated before anything is written; a single bad record
// rejects the whole document and leaves the stored collections untouched.
// The version field is informational and not checked.
func (s *StorageService) Import(ctx context.Context, raw []byte) (ImportResult, error) {
	var doc struct {
		Version string          `json:"version"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ImportResult{}, ErrInvalidImport
	}

	data := bytes.TrimSpace(doc.Data)
	if len(data) == 0 || data[0] != '{' {
		return ImportResult{}, ErrInvalidImport
	}
	var collections struct {
		Tasks      json.RawMessage `json:"tasks"`
		Categories json.RawMessage `json:"categories"`
	}
	if err := json.Unmarshal(data, &collections); err != nil {
		return ImportResult{}, ErrInvalidImport
	}

	taskItems, ok := decodeRecordList(collections.Tasks)
	if !ok {
		return ImportResult{}, ErrInvalidImport
	}
	categoryItems, ok := decodeRecordList(collections.Categories)
	if !ok {
		return ImportResult{}, ErrInvalidImport
	}

	tasks := make([]model.Task, 0, len(taskItems))
	for i, item := range taskItems {
		var task model.Task
		if err := json.Unmarshal(item, &task); err != nil {
			return ImportResult{}, &ImportValidationError{Kind: "task", Index: i, Err: err}
		}
		if err := model.ValidateTask(task); err != nil {
			return ImportResult{}, &ImportValidationError{Kind: "task", Index: i, Err: err}
		}
		tasks = append(tasks, task)
	}

	categories := make([]model.Category, 0, len(categoryItems))
	for i, item := range categoryItems {
		var category model.Category
		if err := json.Unmarshal(item, &category); err != nil {
			return ImportResult{}, &ImportValidationError{Kind: "category", Index: i, Err: err}
		}
		if err := model.ValidateCategory(category); err != nil {
			return ImportResult{}, &ImportValidationError{Kind: "category", Index: i, Err: err}
		}
		categories = append(categories, category)
	}

	// Every record has passed; only now do the writes happen.
	if err := s.saveTasks(ctx, tasks); err != nil {
		return ImportResult{}, err
	}
	if err := s.saveCategories(ctx, categories); err != nil {
		return ImportResult{}, err
	}
	return ImportResult{Tasks: len(tasks), Categories: len(categories)}, nil
}

// decodeRecordList splits a collection into raw records so that a malformed
// element is reported with its index. A missing or null collection defaults
// to empty; anything but an array is a shape error.
func decodeRecordList(raw json.RawMessage) ([]json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []json.RawMessage{}, true
	}
	if trimmed[0] != '[' {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, false
	}
	return items, true
}
