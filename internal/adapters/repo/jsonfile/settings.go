package jsonfile

import (
	"context"

	"github.com/hansollab/cafemate/internal/domain"
	"github.com/hansollab/cafemate/internal/ports"
)

const settingsFile = "settings.toml"

// SettingsRepository stores the single configuration record as TOML so
// users can edit it by hand.
type SettingsRepository struct {
	store *Store
}

var _ ports.SettingsRepository = (*SettingsRepository)(nil)

func NewSettingsRepository(store *Store) *SettingsRepository {
	return &SettingsRepository{store: store}
}

type settingsSchema struct {
	GeneratorSecretRef string `toml:"generator_secret_ref"`
	SystemPrompt       string `toml:"system_prompt"`
}

func (r *SettingsRepository) Load(ctx context.Context) (domain.Settings, error) {
	if err := ctx.Err(); err != nil {
		return domain.Settings{}, err
	}

	path := r.store.path(settingsFile)
	mu := lockForPath(path)
	mu.RLock()
	defer mu.RUnlock()

	var file settingsSchema
	if _, err := readTOML(path, &file); err != nil {
		return domain.Settings{}, err
	}

	return domain.Settings{
		GeneratorSecretRef: file.GeneratorSecretRef,
		SystemPrompt:       file.SystemPrompt,
	}, nil
}

func (r *SettingsRepository) Save(ctx context.Context, settings domain.Settings) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := r.store.path(settingsFile)
	mu := lockForPath(path)
	mu.Lock()
	defer mu.Unlock()

	return writeTOML(path, settingsSchema{
		GeneratorSecretRef: settings.GeneratorSecretRef,
		SystemPrompt:       settings.SystemPrompt,
	})
}
