package service

import (
	"errors"
	"fmt"
)

// ErrInvalidImport rejects an import document whose overall shape is wrong
// (top level or data not an object, collections not arrays).
var ErrInvalidImport = errors.New("invalid import data")

// NotFoundError reports an id that is absent from its collection.
type NotFoundError struct {
	Kind string // "task" or "category"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// DuplicateNameError reports a category name that collides with an existing
// one under case-insensitive comparison.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("a category named %q already exists", e.Name)
}

// InvalidReferenceError reports a task categoryId that does not resolve to
// an existing category at write time.
type InvalidReferenceError struct {
	CategoryID string
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("invalid category %q", e.CategoryID)
}

// ImportValidationError reports the first invalid record in an import
// document. Nothing has been written when it is returned.
type ImportValidationError struct {
	Kind  string // "task" or "category"
	Index int
	Err   error
}

func (e *ImportValidationError) Error() string {
	return fmt.Sprintf("invalid %s at index %d: %v", e.Kind, e.Index, e.Err)
}

func (e *ImportValidationError) Unwrap() error { return e.Err }
