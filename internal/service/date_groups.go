package service

import (
	"context"
	"sort"
	"time"

	"github.com/israelkumar/supertodo/internal/model"
)

// TaskGroups holds the six date buckets. Every bucket is always present,
// possibly empty; leaving the empty ones out is the presentation layer's
// call, not this engine's.
type TaskGroups struct {
	Today       []model.Task `json:"today"`
	Tomorrow    []model.Task `json:"tomorrow"`
	ThisWeek    []model.Task `json:"thisWeek"`
	Future      []model.Task `json:"future"`
	Past        []model.Task `json:"past"`
	Unscheduled []model.Task `json:"unscheduled"`
}

// Bucket returns the group for a key from GroupOrder.
func (g TaskGroups) Bucket(key string) []model.Task {
	switch key {
	case "today":
		return g.Today
	case "tomorrow":
		return g.Tomorrow
	case "thisWeek":
		return g.ThisWeek
	case "future":
		return g.Future
	case "past":
		return g.Past
	case "unscheduled":
		return g.Unscheduled
	}
	return nil
}

// GroupOrder returns the canonical display order of the buckets.
func GroupOrder() []string {
	return []string{"today", "tomorrow", "thisWeek", "future", "past", "unscheduled"}
}

// GroupDisplayName returns the heading for a bucket key.
func GroupDisplayName(key string) string {
	switch key {
	case "today":
		return "Today"
	case "tomorrow":
		return "Tomorrow"
	case "thisWeek":
		return "This Week"
	case "future":
		return "Future"
	case "past":
		return "Past"
	case "unscheduled":
		return "Unscheduled"
	}
	return key
}

// GroupTasksByDate partitions tasks by due date relative to now's local
// midnight. Classification priority per task: no due date, past, today,
// tomorrow, within seven days, future. Within each bucket, incomplete tasks
// come first; dated tasks then sort by ascending date and undated ones by
// newest creation time.
func GroupTasksByDate(tasks []model.Task, now time.Time) TaskGroups {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)
	endOfWeek := today.AddDate(0, 0, 7)

	groups := TaskGroups{
		Today:       []model.Task{},
		Tomorrow:    []model.Task{},
		ThisWeek:    []model.Task{},
		Future:      []model.Task{},
		Past:        []model.Task{},
		Unscheduled: []model.Task{},
	}

	for _, task := range tasks {
		if task.DueDate == nil {
			groups.Unscheduled = append(groups.Unscheduled, task)
			continue
		}
		due, err := time.ParseInLocation("2006-01-02", *task.DueDate, now.Location())
		if err != nil {
			// Well-formed but non-calendar dates (month 13 and the like)
			// compare as neither past nor near, so they land in future.
			groups.Future = append(groups.Future, task)
			continue
		}
		switch {
		case due.Before(today):
			groups.Past = append(groups.Past, task)
		case due.Equal(today):
			groups.Today = append(groups.Today, task)
		case due.Equal(tomorrow):
			groups.Tomorrow = append(groups.Tomorrow, task)
		case due.Before(endOfWeek):
			groups.ThisWeek = append(groups.ThisWeek, task)
		default:
			groups.Future = append(groups.Future, task)
		}
	}

	sortGroup(groups.Today)
	sortGroup(groups.Tomorrow)
	sortGroup(groups.ThisWeek)
	sortGroup(groups.Future)
	sortGroup(groups.Past)
	sortGroup(groups.Unscheduled)

	return groups
}

// sortGroup orders a bucket in place: incomplete before completed, then
// ascending due date when both tasks carry one (lexicographic comparison is
// chronological for zero-padded YYYY-MM-DD), otherwise newest created first.
func sortGroup(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		if a.DueDate != nil && b.DueDate != nil {
			return *a.DueDate < *b.DueDate
		}
		return parseCreatedAt(a.CreatedAt).After(parseCreatedAt(b.CreatedAt))
	})
}

func parseCreatedAt(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// TasksGroupedByDate loads the stored tasks and buckets them against the
// service clock.
func (s *StorageService) TasksGroupedByDate(ctx context.Context) (TaskGroups, error) {
	tasks, err := s.loadTasks(ctx)
	if err != nil {
		return TaskGroups{}, err
	}
	return GroupTasksByDate(tasks, s.Now()), nil
}
