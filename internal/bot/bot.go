// Package bot is the Telegram presentation surface. It only calls storage
// service operations and renders their results and errors; every invariant
// lives below it.
package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/israelkumar/supertodo/internal/model"
	"github.com/israelkumar/supertodo/internal/repository"
	"github.com/israelkumar/supertodo/internal/service"
)

const helpText = `📝 <b>SuperTodo</b>

/today — tasks grouped by date
/all — every task
/categories — category list
/add &lt;title&gt; | [YYYY-MM-DD] | [category] — create a task
/done &lt;id&gt; — toggle completion
/delete &lt;id&gt; — delete a task
/export — send a backup file
Send a .json backup file to restore from it.`

// Bot serves a single configured chat.
type Bot struct {
	api      *tgbotapi.BotAPI
	chatID   int64
	storage  *service.StorageService
	reminder *service.ReminderService
	log      logrus.FieldLogger
}

func New(token string, chatID int64, storage *service.StorageService, reminder *service.ReminderService, log logrus.FieldLogger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.WithField("account", api.Self.UserName).Info("bot authorized")

	return &Bot{
		api:      api,
		chatID:   chatID,
		storage:  storage,
		reminder: reminder,
		log:      log,
	}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.log.Info("start polling updates")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			if update.Message.Chat.ID != b.chatID {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// SendDailyReport pushes the reminder summary to the configured chat.
func (b *Bot) SendDailyReport(ctx context.Context) error {
	summary, err := b.reminder.DailySummary(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("build daily summary: %w", err)
	}
	return b.send(summary)
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Document != nil {
		b.handleImport(ctx, msg.Document)
		return
	}

	switch msg.Command() {
	case "start", "help":
		b.reply(helpText)
	case "today":
		b.handleGrouped(ctx)
	case "all":
		b.handleList(ctx)
	case "categories":
		b.handleCategories(ctx)
	case "add":
		b.handleAdd(ctx, msg.CommandArguments())
	case "done":
		b.handleDone(ctx, strings.TrimSpace(msg.CommandArguments()))
	case "delete":
		b.handleDelete(ctx, strings.TrimSpace(msg.CommandArguments()))
	case "export":
		b.handleExport(ctx)
	default:
		b.reply("Unknown command, see /help")
	}
}

func (b *Bot) handleGrouped(ctx context.Context) {
	groups, err := b.storage.TasksGroupedByDate(ctx)
	if err != nil {
		b.replyError(err)
		return
	}

	var builder strings.Builder
	empty := true
	for _, key := range service.GroupOrder() {
		bucket := groups.Bucket(key)
		if len(bucket) == 0 {
			continue
		}
		empty = false
		builder.WriteString(fmt.Sprintf("<b>%s</b>\n", service.GroupDisplayName(key)))
		for _, task := range bucket {
			builder.WriteString(formatTask(task))
		}
		builder.WriteByte('\n')
	}
	if empty {
		b.reply("No tasks yet. Add one with /add")
		return
	}
	b.reply(strings.TrimSpace(builder.String()))
}

func (b *Bot) handleList(ctx context.Context) {
	tasks, err := b.storage.ListTasks(ctx)
	if err != nil {
		b.replyError(err)
		return
	}
	if len(tasks) == 0 {
		b.reply("No tasks yet. Add one with /add")
		return
	}

	var builder strings.Builder
	for _, task := range tasks {
		builder.WriteString(formatTask(task))
	}
	b.reply(strings.TrimSpace(builder.String()))
}

func (b *Bot) handleCategories(ctx context.Context) {
	categories, err := b.storage.ListCategories(ctx)
	if err != nil {
		b.replyError(err)
		return
	}

	var builder strings.Builder
	builder.WriteString("📂 <b>Categories</b>\n")
	for _, category := range categories {
		builder.WriteString(fmt.Sprintf("• %s", html.EscapeString(category.Name)))
		if category.Description != "" {
			builder.WriteString(fmt.Sprintf(" — <i>%s</i>", html.EscapeString(category.Description)))
		}
		builder.WriteByte('\n')
	}
	b.reply(strings.TrimSpace(builder.String()))
}

// handleAdd parses "title | due date | category name", the last two parts
// optional.
func (b *Bot) handleAdd(ctx context.Context, args string) {
	parts := strings.SplitN(args, "|", 3)
	input := model.TaskInput{Title: strings.TrimSpace(parts[0])}

	if len(parts) > 1 {
		if due := strings.TrimSpace(parts[1]); due != "" {
			input.DueDate = &due
		}
	}
	if len(parts) > 2 {
		name := strings.TrimSpace(parts[2])
		if name != "" {
			category, ok := b.findCategoryByName(ctx, name)
			if !ok {
				b.reply(fmt.Sprintf("No category named %q, see /categories", name))
				return
			}
			input.CategoryID = &category.ID
		}
	}

	task, err := b.storage.CreateTask(ctx, input)
	if err != nil {
		b.replyError(err)
		return
	}
	b.reply(fmt.Sprintf("Added <b>%s</b>\nid: <code>%s</code>", html.EscapeString(task.Title), task.ID))
}

func (b *Bot) handleDone(ctx context.Context, ref string) {
	id, ok := b.resolveTaskRef(ctx, ref)
	if !ok {
		return
	}
	task, err := b.storage.ToggleTaskCompletion(ctx, id)
	if err != nil {
		b.replyError(err)
		return
	}
	state := "open again"
	if task.Completed {
		state = "done"
	}
	b.reply(fmt.Sprintf("<b>%s</b> is %s", html.EscapeString(task.Title), state))
}

func (b *Bot) handleDelete(ctx context.Context, ref string) {
	id, ok := b.resolveTaskRef(ctx, ref)
	if !ok {
		return
	}
	if err := b.storage.DeleteTask(ctx, id); err != nil {
		b.replyError(err)
		return
	}
	b.reply("Task deleted")
}

func (b *Bot) handleExport(ctx context.Context) {
	raw, err := b.storage.ExportJSON(ctx)
	if err != nil {
		b.replyError(err)
		return
	}
	name := fmt.Sprintf("supertodo-backup-%s.json", time.Now().Format("2006-01-02"))
	doc := tgbotapi.NewDocument(b.chatID, tgbotapi.FileBytes{Name: name, Bytes: raw})
	if _, err := b.api.Send(doc); err != nil {
		b.log.WithError(err).Error("send export")
	}
}

func (b *Bot) handleImport(ctx context.Context, doc *tgbotapi.Document) {
	url, err := b.api.GetFileDirectURL(doc.FileID)
	if err != nil {
		b.replyError(fmt.Errorf("fetch backup file: %w", err))
		return
	}
	resp, err := http.Get(url)
	if err != nil {
		b.replyError(fmt.Errorf("download backup file: %w", err))
		return
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		b.replyError(fmt.Errorf("read backup file: %w", err))
		return
	}

	result, err := b.storage.Import(ctx, raw)
	if err != nil {
		b.replyError(err)
		return
	}
	b.reply(fmt.Sprintf("Imported %d tasks and %d categories", result.Tasks, result.Categories))
}

// resolveTaskRef accepts a full task id or an unambiguous prefix.
func (b *Bot) resolveTaskRef(ctx context.Context, ref string) (string, bool) {
	if ref == "" {
		b.reply("Give me a task id, see /all")
		return "", false
	}
	tasks, err := b.storage.ListTasks(ctx)
	if err != nil {
		b.replyError(err)
		return "", false
	}

	var matched []string
	for _, task := range tasks {
		if task.ID == ref {
			return task.ID, true
		}
		if strings.HasPrefix(task.ID, ref) {
			matched = append(matched, task.ID)
		}
	}
	switch len(matched) {
	case 1:
		return matched[0], true
	case 0:
		b.reply(fmt.Sprintf("No task matches %q", ref))
	default:
		b.reply(fmt.Sprintf("%q matches %d tasks, use more characters", ref, len(matched)))
	}
	return "", false
}

func (b *Bot) findCategoryByName(ctx context.Context, name string) (model.Category, bool) {
	categories, err := b.storage.ListCategories(ctx)
	if err != nil {
		b.replyError(err)
		return model.Category{}, false
	}
	for _, category := range categories {
		if strings.EqualFold(category.Name, name) {
			return category, true
		}
	}
	return model.Category{}, false
}

func formatTask(task model.Task) string {
	icon := "◻️"
	if task.Completed {
		icon = "✅"
	}
	line := fmt.Sprintf("%s %s", icon, html.EscapeString(task.Title))
	if task.DueDate != nil {
		line += fmt.Sprintf(" · %s", *task.DueDate)
	}
	line += fmt.Sprintf("\n   <code>%s</code>\n", task.ID[:shortIDLen(task.ID)])
	return line
}

func shortIDLen(id string) int {
	if len(id) < 8 {
		return len(id)
	}
	return 8
}

// replyError maps the typed storage errors to user-facing text; anything
// unexpected is logged and reported generically.
func (b *Bot) replyError(err error) {
	var (
		validationErr *model.ValidationError
		notFound      *service.NotFoundError
		duplicate     *service.DuplicateNameError
		badRef        *service.InvalidReferenceError
		quota         *repository.QuotaExceededError
		importErr     *service.ImportValidationError
	)
	switch {
	case errors.As(err, &validationErr),
		errors.As(err, &notFound),
		errors.As(err, &duplicate),
		errors.As(err, &badRef),
		errors.As(err, &importErr),
		errors.Is(err, service.ErrInvalidImport):
		b.reply("⚠️ " + html.EscapeString(err.Error()))
	case errors.As(err, &quota):
		b.reply("⚠️ Storage is full. Delete some tasks or /export your data first.")
	default:
		b.log.WithError(err).Error("operation failed")
		b.reply("Something went wrong, try again")
	}
}

func (b *Bot) reply(text string) {
	_ = b.send(text)
}

func (b *Bot) send(text string) error {
	msg := tgbotapi.NewMessage(b.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(msg); err != nil {
		b.log.WithError(err).Error("send message")
		return err
	}
	return nil
}
