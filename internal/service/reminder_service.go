package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/israelkumar/supertodo/internal/model"
)

// ReminderService builds human-readable summaries for the daily
// notification.
type ReminderService struct {
	storage *StorageService
}

func NewReminderService(storage *StorageService) *ReminderService {
	return &ReminderService{storage: storage}
}

// DailySummary renders the pending workload around the given time: overdue
// tasks, today's, and tomorrow's, with a one-line count of what comes later.
// Output is HTML-escaped for Telegram.
func (s *ReminderService) DailySummary(ctx context.Context, now time.Time) (string, error) {
	tasks, err := s.storage.ListTasks(ctx)
	if err != nil {
		return "", err
	}
	categories, err := s.storage.ListCategories(ctx)
	if err != nil {
		return "", err
	}

	catNames := make(map[string]string, len(categories))
	for _, category := range categories {
		catNames[category.ID] = category.Name
	}

	groups := GroupTasksByDate(tasks, now)

	var builder strings.Builder
	builder.WriteString("📋 <b>Daily report</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n", now.Format("2006-01-02")))

	writeSection(&builder, "⚠️ <b>Overdue</b>", pendingOnly(groups.Past), catNames)
	writeSection(&builder, "🔥 <b>Today</b>", pendingOnly(groups.Today), catNames)
	writeSection(&builder, "⏳ <b>Tomorrow</b>", pendingOnly(groups.Tomorrow), catNames)

	later := len(pendingOnly(groups.ThisWeek)) + len(pendingOnly(groups.Future))
	if later > 0 {
		builder.WriteString(fmt.Sprintf("\n📆 %d more scheduled later\n", later))
	}
	if unscheduled := len(pendingOnly(groups.Unscheduled)); unscheduled > 0 {
		builder.WriteString(fmt.Sprintf("🗂 %d without a date\n", unscheduled))
	}

	return strings.TrimSpace(builder.String()), nil
}

func pendingOnly(tasks []model.Task) []model.Task {
	pending := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if !task.Completed {
			pending = append(pending, task)
		}
	}
	return pending
}

func writeSection(builder *strings.Builder, heading string, tasks []model.Task, catNames map[string]string) {
	builder.WriteString("\n" + heading + "\n")
	if len(tasks) == 0 {
		builder.WriteString("— nothing here\n")
		return
	}
	for _, task := range tasks {
		builder.WriteString(formatTaskLine(task, catNames))
	}
}

func formatTaskLine(task model.Task, catNames map[string]string) string {
	var sb strings.Builder

	sb.WriteString("• ")
	sb.WriteString(html.EscapeString(strings.TrimSpace(task.Title)))

	if task.CategoryID != nil {
		if name, ok := catNames[*task.CategoryID]; ok {
			trimmed := strings.TrimSpace(name)
			if trimmed != "" {
				sb.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(trimmed)))
			}
		}
	}

	if task.DueDate != nil {
		sb.WriteString(fmt.Sprintf(" — due %s", *task.DueDate))
	}

	sb.WriteByte('\n')
	return sb.String()
}
