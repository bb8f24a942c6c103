package model

import (
	"strings"
	"unicode/utf8"
)

// Category groups tasks by area (work, health, shopping, etc.). Names must
// stay unique case-insensitively; that check needs the full collection and
// lives in the storage service.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CategoryInput carries raw field data for creating a category.
type CategoryInput struct {
	Name        string
	Description string
}

// NewCategory validates the input and builds a normalized category with the
// caller-supplied id.
func NewCategory(in CategoryInput, id string) (Category, error) {
	if in.Name == "" {
		return Category{}, &ValidationError{Msg: "category name is required"}
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Category{}, &ValidationError{Msg: "category name cannot be empty"}
	}
	if utf8.RuneCountInString(name) > 50 {
		return Category{}, &ValidationError{Msg: "category name must be between 1 and 50 characters"}
	}

	description := strings.TrimSpace(in.Description)
	if utf8.RuneCountInString(description) > 200 {
		return Category{}, &ValidationError{Msg: "category description must be 200 characters or less"}
	}

	return Category{ID: id, Name: name, Description: description}, nil
}

// ValidateCategory runs the category field rules against a record without
// constructing one; used for merge-then-validate on updates.
func ValidateCategory(c Category) error {
	if c.Name == "" {
		return &ValidationError{Msg: "category name is required"}
	}
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return &ValidationError{Msg: "category name cannot be empty"}
	}
	if utf8.RuneCountInString(name) > 50 {
		return &ValidationError{Msg: "category name must be between 1 and 50 characters"}
	}
	if utf8.RuneCountInString(strings.TrimSpace(c.Description)) > 200 {
		return &ValidationError{Msg: "category description must be 200 characters or less"}
	}
	return nil
}
