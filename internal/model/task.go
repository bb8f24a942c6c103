package model

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// dueDateRe checks syntax only; calendar validity is not this layer's job.
var dueDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Task represents a single actionable item the user tracks.
type Task struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	DueDate     *string `json:"dueDate"`
	CategoryID  *string `json:"categoryId"`
	Completed   bool    `json:"completed"`
	CreatedAt   string  `json:"createdAt"`
}

// TaskInput carries raw field data for creating a task.
type TaskInput struct {
	Title       string
	Description string
	DueDate     *string
	CategoryID  *string
}

// NewTask validates the input and builds a normalized task: strings trimmed,
// an empty category collapsed to nil, completion defaulted to false. A
// supplied due date must match the date format; the empty string is not a
// date. The id and creation timestamp come from the caller so clocks and id
// generation stay injectable.
func NewTask(in TaskInput, id, createdAt string) (Task, error) {
	if in.Title == "" {
		return Task{}, &ValidationError{Msg: "task title is required"}
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Task{}, &ValidationError{Msg: "task title cannot be empty"}
	}
	if utf8.RuneCountInString(title) > 200 {
		return Task{}, &ValidationError{Msg: "task title must be between 1 and 200 characters"}
	}

	description := strings.TrimSpace(in.Description)
	if utf8.RuneCountInString(description) > 1000 {
		return Task{}, &ValidationError{Msg: "task description must be 1000 characters or less"}
	}

	task := Task{
		ID:          id,
		Title:       title,
		Description: description,
		CreatedAt:   createdAt,
	}

	if in.DueDate != nil {
		if !dueDateRe.MatchString(*in.DueDate) {
			return Task{}, &ValidationError{Msg: "invalid due date format"}
		}
		due := *in.DueDate
		task.DueDate = &due
	}
	if in.CategoryID != nil && *in.CategoryID != "" {
		categoryID := *in.CategoryID
		task.CategoryID = &categoryID
	}

	return task, nil
}

// ValidateTask runs the task field rules against a record that may already
// carry an id and timestamp. It re-checks a merged record on partial updates
// and never mutates its argument.
func ValidateTask(t Task) error {
	if t.Title == "" {
		return &ValidationError{Msg: "task title is required"}
	}
	title := strings.TrimSpace(t.Title)
	if title == "" {
		return &ValidationError{Msg: "task title cannot be empty"}
	}
	if utf8.RuneCountInString(title) > 200 {
		return &ValidationError{Msg: "task title must be between 1 and 200 characters"}
	}
	if utf8.RuneCountInString(strings.TrimSpace(t.Description)) > 1000 {
		return &ValidationError{Msg: "task description must be 1000 characters or less"}
	}
	if t.DueDate != nil && !dueDateRe.MatchString(*t.DueDate) {
		return &ValidationError{Msg: "invalid due date format"}
	}
	return nil
}
