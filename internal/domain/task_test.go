package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskCanStart(t *testing.T) {
	scheduled := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		task    Task
		wantErr error
	}{
		{
			name: "ready",
			task: Task{Status: TaskPending, ScheduledTime: scheduled, ArticleCount: 3},
		},
		{
			name:    "already running",
			task:    Task{Status: TaskRunning, ScheduledTime: scheduled, ArticleCount: 3},
			wantErr: ErrNotPending,
		},
		{
			name:    "completed",
			task:    Task{Status: TaskCompleted, ScheduledTime: scheduled, ArticleCount: 3},
			wantErr: ErrNotPending,
		},
		{
			name:    "no schedule",
			task:    Task{Status: TaskPending, ArticleCount: 3},
			wantErr: ErrMissingSchedule,
		},
		{
			name:    "no article count",
			task:    Task{Status: TaskPending, ScheduledTime: scheduled},
			wantErr: ErrMissingSchedule,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.task.CanStart()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTaskStatusTerminal(t *testing.T) {
	assert.False(t, TaskPending.Terminal())
	assert.False(t, TaskRunning.Terminal())
	assert.True(t, TaskCompleted.Terminal())
	assert.True(t, TaskFailed.Terminal())
}

func TestTaskDelay(t *testing.T) {
	assert.Equal(t, 10*time.Minute, Task{DelayBetweenTasks: 10}.Delay())
	assert.Equal(t, time.Duration(DefaultDelayMinutes)*time.Minute, Task{}.Delay())
	assert.Equal(t, time.Duration(DefaultDelayMinutes)*time.Minute, Task{DelayBetweenTasks: -1}.Delay())
}

func TestTaskRepeats(t *testing.T) {
	assert.Equal(t, 4, Task{ArticleCount: 4}.Repeats())
	assert.Equal(t, DefaultArticleCount, Task{}.Repeats())
}
