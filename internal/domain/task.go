package domain

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskRunning   TaskStatus = "running"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
)

// Terminal reports whether the status admits no further transitions.
func (s TaskStatus) Terminal() bool {
	return s == TaskCompleted || s == TaskFailed
}

const (
	DefaultDelayMinutes = 5
	DefaultArticleCount = 1
)

// Task is one scheduled unit of repeated, delayed content submission for
// one account. AccountID is a userId, not a slot id, although the
// executor's tiered resolution also tolerates "slot-N" encodings.
type Task struct {
	ID                string
	Title             string
	Prompt            string
	AccountID         string
	CafeID            string
	TemplateID        string
	MenuID            string
	Status            TaskStatus
	ScheduledTime     time.Time
	DelayBetweenTasks int
	ArticleCount      int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func NewTaskID() string {
	return "task_" + uuid.NewString()
}

// CanStart checks the start preconditions. A task missing its schedule or
// article count is rejected without any state change.
func (t Task) CanStart() error {
	if t.Status != TaskPending {
		return ErrNotPending
	}
	if t.ScheduledTime.IsZero() || t.ArticleCount <= 0 {
		return ErrMissingSchedule
	}
	return nil
}

// Delay returns the wall-clock pause between repeats.
func (t Task) Delay() time.Duration {
	minutes := t.DelayBetweenTasks
	if minutes <= 0 {
		minutes = DefaultDelayMinutes
	}
	return time.Duration(minutes) * time.Minute
}

func (t Task) Repeats() int {
	if t.ArticleCount <= 0 {
		return DefaultArticleCount
	}
	return t.ArticleCount
}
