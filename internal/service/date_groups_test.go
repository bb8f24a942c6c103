package service

import (
	"context"
	"testing"
	"time"

	"github.com/israelkumar/supertodo/internal/model"
)

func task(id, due string, completed bool, createdAt string) model.Task {
	t := model.Task{ID: id, Title: "t-" + id, Completed: completed, CreatedAt: createdAt}
	if due != "" {
		t.DueDate = &due
	}
	return t
}

func TestGroupTasksByDatePartition(t *testing.T) {
	// Local midnight of 2026-03-10.
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

	tasks := []model.Task{
		task("past", "2026-03-09", false, "2026-03-01T10:00:00Z"),
		task("today", "2026-03-10", false, "2026-03-01T10:00:00Z"),
		task("tomorrow", "2026-03-11", false, "2026-03-01T10:00:00Z"),
		task("week-edge", "2026-03-16", false, "2026-03-01T10:00:00Z"), // today+6, still this week
		task("future-edge", "2026-03-17", false, "2026-03-01T10:00:00Z"), // today+7, future
		task("far", "2027-01-01", false, "2026-03-01T10:00:00Z"),
		task("none", "", false, "2026-03-01T10:00:00Z"),
	}

	groups := GroupTasksByDate(tasks, now)

	wantBuckets := map[string][]string{
		"past":        {"past"},
		"today":       {"today"},
		"tomorrow":    {"tomorrow"},
		"thisWeek":    {"week-edge"},
		"future":      {"future-edge", "far"},
		"unscheduled": {"none"},
	}

	total := 0
	for key, wantIDs := range wantBuckets {
		bucket := groups.Bucket(key)
		if len(bucket) != len(wantIDs) {
			t.Errorf("%s: got %d tasks, want %d", key, len(bucket), len(wantIDs))
			continue
		}
		for i, want := range wantIDs {
			if bucket[i].ID != want {
				t.Errorf("%s[%d]: got %s, want %s", key, i, bucket[i].ID, want)
			}
		}
		total += len(bucket)
	}
	if total != len(tasks) {
		t.Errorf("partition is not exhaustive: placed %d of %d", total, len(tasks))
	}
}

func TestGroupTasksByDateAlwaysReturnsAllBuckets(t *testing.T) {
	groups := GroupTasksByDate(nil, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))
	for _, key := range GroupOrder() {
		if groups.Bucket(key) == nil {
			t.Errorf("bucket %s must be present even when empty", key)
		}
	}
}

func TestGroupTasksFarFutureScenario(t *testing.T) {
	now := time.Date(2098, 12, 31, 9, 0, 0, 0, time.UTC)
	tasks := []model.Task{task("rent", "2099-01-01", false, "2098-12-01T10:00:00Z")}

	groups := GroupTasksByDate(tasks, now)

	// 2099-01-01 is tomorrow relative to 2098-12-31.
	if len(groups.Tomorrow) != 1 {
		t.Errorf("expected the task in tomorrow, groups: %+v", groups)
	}
}

func TestGroupTasksFutureBucketScenario(t *testing.T) {
	// Seven or more days out lands in future.
	now := time.Date(2098, 12, 24, 9, 0, 0, 0, time.UTC)
	tasks := []model.Task{task("rent", "2099-01-01", false, "2098-12-01T10:00:00Z")}

	groups := GroupTasksByDate(tasks, now)
	if len(groups.Future) != 1 {
		t.Errorf("expected the task in future, groups: %+v", groups)
	}
}

func TestGroupSortingWithinBucket(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	tasks := []model.Task{
		task("done-early", "2026-03-20", true, "2026-03-01T10:00:00Z"),
		task("open-late", "2026-03-25", false, "2026-03-01T10:00:00Z"),
		task("open-early", "2026-03-20", false, "2026-03-01T10:00:00Z"),
	}

	groups := GroupTasksByDate(tasks, now)
	future := groups.Future
	if len(future) != 3 {
		t.Fatalf("expected 3 tasks in future, got %d", len(future))
	}

	wantOrder := []string{"open-early", "open-late", "done-early"}
	for i, want := range wantOrder {
		if future[i].ID != want {
			t.Errorf("future[%d]: got %s, want %s", i, future[i].ID, want)
		}
	}
	// No completed task may precede an incomplete one.
	seenCompleted := false
	for _, tk := range future {
		if tk.Completed {
			seenCompleted = true
		} else if seenCompleted {
			t.Error("completed task precedes an incomplete one")
		}
	}
}

func TestUnscheduledSortsNewestFirst(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	tasks := []model.Task{
		task("older", "", false, "2026-03-01T10:00:00Z"),
		task("newer", "", false, "2026-03-05T10:00:00Z"),
		task("done", "", true, "2026-03-09T10:00:00Z"),
	}

	groups := GroupTasksByDate(tasks, now)
	wantOrder := []string{"newer", "older", "done"}
	for i, want := range wantOrder {
		if groups.Unscheduled[i].ID != want {
			t.Errorf("unscheduled[%d]: got %s, want %s", i, groups.Unscheduled[i].ID, want)
		}
	}
}

func TestTasksGroupedByDateUsesServiceClock(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// Service clock sits in March 2026; a 2099 due date is far future.
	if _, err := svc.CreateTask(ctx, model.TaskInput{Title: "Far out", DueDate: strPtr("2099-01-01")}); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	groups, err := svc.TasksGroupedByDate(ctx)
	if err != nil {
		t.Fatalf("TasksGroupedByDate: %v", err)
	}
	if len(groups.Future) != 1 {
		t.Errorf("expected the task in future, groups: %+v", groups)
	}
}
