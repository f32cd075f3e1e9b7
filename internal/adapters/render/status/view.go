package status

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/hansollab/cafemate/internal/domain"
)

// Report is everything the status views show: the slot set, the task
// list, and the reference time for freshness and countdowns.
type Report struct {
	Slots []domain.Slot
	Tasks []domain.Task
	Now   time.Time
}

func renderView(report Report, s styles) string {
	lines := []string{renderSlots(report, s)}
	if report.Tasks != nil {
		lines = append(lines, s.section.Render(renderTasks(report, s)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderSlots(report Report, s styles) string {
	loggedIn := 0
	for _, slot := range report.Slots {
		if slot.IsLoggedIn {
			loggedIn++
		}
	}

	lines := []string{
		s.title.Render("Login Slots"),
		s.header.Render(fmt.Sprintf("logged in: %d/%d", loggedIn, len(report.Slots))),
	}

	for _, slot := range report.Slots {
		lines = append(lines, renderSlot(slot, report.Now, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderSlot(slot domain.Slot, now time.Time, s styles) string {
	id := s.slotID.Render(fmt.Sprintf("slot %d", slot.ID))

	if !slot.Occupied() {
		return lipgloss.JoinHorizontal(lipgloss.Top, id, "  ", s.empty.Render("(empty)"))
	}

	parts := []string{id, "  ", s.account.Render(slot.UserID)}
	if slot.IsLoggedIn {
		parts = append(parts, "  ", s.detail.Render("logged in "+formatAge(slot.Timestamp, now)))
		if !slot.Fresh(now) {
			parts = append(parts, " ", s.warning.Render("[expired]"))
		}
	} else {
		parts = append(parts, "  ", s.empty.Render("logged out"))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func renderTasks(report Report, s styles) string {
	lines := []string{
		s.title.Render("Tasks"),
		s.header.Render(fmt.Sprintf("tasks: %d", len(report.Tasks))),
	}

	if len(report.Tasks) == 0 {
		lines = append(lines, s.empty.Render("No tasks scheduled."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, task := range report.Tasks {
		lines = append(lines, renderTask(task, report.Now, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderTask(task domain.Task, now time.Time, s styles) string {
	parts := []string{
		statusBadge(task.Status, s),
		"  ",
		s.account.Render(task.AccountID),
		"  ",
		s.detail.Render(taskLabel(task)),
	}

	if schedule := formatSchedule(task, now); schedule != "" {
		parts = append(parts, "  ", s.header.Render(schedule))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func statusBadge(status domain.TaskStatus, s styles) string {
	label := fmt.Sprintf("%-9s", status)
	switch status {
	case domain.TaskRunning:
		return s.running.Render(label)
	case domain.TaskCompleted:
		return s.completed.Render(label)
	case domain.TaskFailed:
		return s.failed.Render(label)
	default:
		return s.pending.Render(label)
	}
}

func taskLabel(task domain.Task) string {
	label := task.Title
	if label == "" {
		label = task.Prompt
	}
	if len([]rune(label)) > 40 {
		label = string([]rune(label)[:40]) + "…"
	}
	if task.ArticleCount > 1 {
		label = fmt.Sprintf("%s (x%d)", label, task.ArticleCount)
	}
	return label
}

func formatSchedule(task domain.Task, now time.Time) string {
	if task.ScheduledTime.IsZero() {
		return "unscheduled"
	}
	if now.IsZero() {
		return task.ScheduledTime.Format("15:04 on 02 Jan")
	}
	if task.Status == domain.TaskPending && task.ScheduledTime.After(now) {
		return "in " + formatDuration(task.ScheduledTime.Sub(now))
	}
	return task.ScheduledTime.Format("15:04 on 02 Jan")
}

func formatAge(at, now time.Time) string {
	if at.IsZero() || now.IsZero() {
		return ""
	}
	return formatDuration(now.Sub(at)) + " ago"
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return "moments"
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) - hours*60
	if minutes == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%02dm", hours, minutes)
}
