package jsonfile

import (
	"context"
	"time"

	"github.com/hansollab/cafemate/internal/domain"
	"github.com/hansollab/cafemate/internal/ports"
)

const tasksFile = "tasks.json"

type TasksRepository struct {
	store *Store
	clock ports.Clock
}

var _ ports.TaskRepository = (*TasksRepository)(nil)

func NewTasksRepository(store *Store, clock ports.Clock) *TasksRepository {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &TasksRepository{store: store, clock: clock}
}

type tasksSchema struct {
	LastUpdated string       `json:"lastUpdated"`
	Tasks       []taskSchema `json:"tasks"`
}

type taskSchema struct {
	ID                string `json:"id"`
	Title             string `json:"title,omitempty"`
	Prompt            string `json:"prompt,omitempty"`
	AccountID         string `json:"accountId"`
	CafeID            string `json:"cafeId,omitempty"`
	TemplateID        string `json:"templateId,omitempty"`
	MenuID            string `json:"menuId,omitempty"`
	Status            string `json:"status"`
	ScheduledTime     string `json:"scheduledTime,omitempty"`
	DelayBetweenTasks int    `json:"delayBetweenTasks,omitempty"`
	ArticleCount      int    `json:"articleCount,omitempty"`
	CreatedAt         string `json:"createdAt,omitempty"`
	UpdatedAt         string `json:"updatedAt,omitempty"`
}

func (r *TasksRepository) List(ctx context.Context) ([]domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := r.store.path(tasksFile)
	mu := lockForPath(path)
	mu.RLock()
	defer mu.RUnlock()

	file, err := r.readTasks(path)
	if err != nil {
		return nil, err
	}

	tasks := make([]domain.Task, 0, len(file.Tasks))
	for _, entry := range file.Tasks {
		tasks = append(tasks, taskFromSchema(entry))
	}
	return tasks, nil
}

func (r *TasksRepository) GetByID(ctx context.Context, id string) (domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return domain.Task{}, err
	}

	path := r.store.path(tasksFile)
	mu := lockForPath(path)
	mu.RLock()
	defer mu.RUnlock()

	file, err := r.readTasks(path)
	if err != nil {
		return domain.Task{}, err
	}

	for _, entry := range file.Tasks {
		if entry.ID == id {
			return taskFromSchema(entry), nil
		}
	}
	return domain.Task{}, domain.ErrTaskNotFound
}

// Save upserts by task id.
func (r *TasksRepository) Save(ctx context.Context, task domain.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := r.store.path(tasksFile)
	mu := lockForPath(path)
	mu.Lock()
	defer mu.Unlock()

	file, err := r.readTasks(path)
	if err != nil {
		return err
	}

	encoded := taskToSchema(task)
	updated := false
	for i := range file.Tasks {
		if file.Tasks[i].ID == encoded.ID {
			file.Tasks[i] = encoded
			updated = true
			break
		}
	}
	if !updated {
		file.Tasks = append(file.Tasks, encoded)
	}

	file.LastUpdated = r.clock.Now().UTC().Format(time.RFC3339)
	return writeFile(path, file)
}

func (r *TasksRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := r.store.path(tasksFile)
	mu := lockForPath(path)
	mu.Lock()
	defer mu.Unlock()

	file, err := r.readTasks(path)
	if err != nil {
		return err
	}

	kept := file.Tasks[:0]
	found := false
	for _, entry := range file.Tasks {
		if entry.ID == id {
			found = true
			continue
		}
		kept = append(kept, entry)
	}
	if !found {
		return domain.ErrTaskNotFound
	}

	file.Tasks = kept
	file.LastUpdated = r.clock.Now().UTC().Format(time.RFC3339)
	return writeFile(path, file)
}

func (r *TasksRepository) readTasks(path string) (tasksSchema, error) {
	var file tasksSchema
	if _, err := readFile(path, &file); err != nil {
		return tasksSchema{}, err
	}
	return file, nil
}

func taskToSchema(task domain.Task) taskSchema {
	return taskSchema{
		ID:                task.ID,
		Title:             task.Title,
		Prompt:            task.Prompt,
		AccountID:         task.AccountID,
		CafeID:            task.CafeID,
		TemplateID:        task.TemplateID,
		MenuID:            task.MenuID,
		Status:            string(task.Status),
		ScheduledTime:     formatTime(task.ScheduledTime),
		DelayBetweenTasks: task.DelayBetweenTasks,
		ArticleCount:      task.ArticleCount,
		CreatedAt:         formatTime(task.CreatedAt),
		UpdatedAt:         formatTime(task.UpdatedAt),
	}
}

func taskFromSchema(entry taskSchema) domain.Task {
	return domain.Task{
		ID:                entry.ID,
		Title:             entry.Title,
		Prompt:            entry.Prompt,
		AccountID:         entry.AccountID,
		CafeID:            entry.CafeID,
		TemplateID:        entry.TemplateID,
		MenuID:            entry.MenuID,
		Status:            domain.TaskStatus(entry.Status),
		ScheduledTime:     parseTime(entry.ScheduledTime),
		DelayBetweenTasks: entry.DelayBetweenTasks,
		ArticleCount:      entry.ArticleCount,
		CreatedAt:         parseTime(entry.CreatedAt),
		UpdatedAt:         parseTime(entry.UpdatedAt),
	}
}
