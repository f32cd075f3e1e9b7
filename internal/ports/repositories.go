package ports

import (
	"context"

	"github.com/hansollab/cafemate/internal/domain"
)

// SlotRepository persists the fixed slot set as a whole; slots are never
// stored individually.
type SlotRepository interface {
	Load(ctx context.Context) ([]domain.Slot, error)
	Save(ctx context.Context, slots []domain.Slot) error
}

// TemplateRepository is append-only per owner. Append returns the owner's
// running template count after the write.
type TemplateRepository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Template, error)
	Append(ctx context.Context, template domain.Template) (int, error)
}

type TaskRepository interface {
	List(ctx context.Context) ([]domain.Task, error)
	GetByID(ctx context.Context, id string) (domain.Task, error)
	Save(ctx context.Context, task domain.Task) error
	Delete(ctx context.Context, id string) error
}

type PostRepository interface {
	ListByAccount(ctx context.Context, accountID string) ([]domain.Post, error)
	Save(ctx context.Context, post domain.Post) error
}

type BoardRepository interface {
	List(ctx context.Context) (map[string]domain.BoardMapping, error)
	Get(ctx context.Context, key string) (domain.BoardMapping, error)
	Save(ctx context.Context, mapping domain.BoardMapping) error
	Delete(ctx context.Context, key string) error
}

type SettingsRepository interface {
	Load(ctx context.Context) (domain.Settings, error)
	Save(ctx context.Context, settings domain.Settings) error
}
