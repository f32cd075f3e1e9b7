package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hansollab/cafemate/internal/adapters/generate/openai"
	statusadapter "github.com/hansollab/cafemate/internal/adapters/render/status"
	"github.com/hansollab/cafemate/internal/adapters/repo/jsonfile"
	replayclient "github.com/hansollab/cafemate/internal/adapters/replay"
	chainstore "github.com/hansollab/cafemate/internal/adapters/secrets/chain"
	"github.com/hansollab/cafemate/internal/application"
	"github.com/hansollab/cafemate/internal/ports"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// defaultSecretRef is the key the generator API key lives under when
// settings do not name one.
const defaultSecretRef = "cafemate/generator_api_key"

type app struct {
	sessions       *application.SessionService
	scheduler      *application.SchedulerService
	boards         ports.BoardRepository
	templates      ports.TemplateRepository
	posts          ports.PostRepository
	settings       ports.SettingsRepository
	secrets        ports.SecretStore
	statusRenderer func(statusadapter.Report) (string, error)
	now            func() time.Time
}

func wireApp() (*app, error) {
	store, err := newStore()
	if err != nil {
		return nil, fmt.Errorf("wire state store: %w", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	secretStore, err := chainstore.NewDefault(filepath.Join(homeDir, ".cafemate", "secrets"))
	if err != nil {
		return nil, fmt.Errorf("wire secret store chain: %w", err)
	}

	logger := newLogger()
	clock := ports.SystemClock{}

	slotsRepo := jsonfile.NewSlotsRepository(store, clock)
	tasksRepo := jsonfile.NewTasksRepository(store, clock)
	templatesRepo := jsonfile.NewTemplatesRepository(store, clock)
	postsRepo := jsonfile.NewPostsRepository(store, clock)
	boardsRepo := jsonfile.NewBoardsRepository(store, clock)
	settingsRepo := jsonfile.NewSettingsRepository(store)

	sessions := application.NewSessionService(slotsRepo, clock, logger)

	scheduler := application.NewSchedulerService(application.SchedulerDeps{
		Tasks:     tasksRepo,
		Sessions:  sessions,
		Templates: templatesRepo,
		Boards:    boardsRepo,
		Posts:     postsRepo,
		Settings:  settingsRepo,
		Generator: newLazyGenerator(settingsRepo, secretStore, logger),
		Sender:    replayclient.NewClient(replayclient.WithLogger(logger)),
		Clock:     clock,
		Logger:    logger,
	})

	return &app{
		sessions:       sessions,
		scheduler:      scheduler,
		boards:         boardsRepo,
		templates:      templatesRepo,
		posts:          postsRepo,
		settings:       settingsRepo,
		secrets:        secretStore,
		statusRenderer: statusadapter.Render,
		now:            time.Now,
	}, nil
}

func newStore() (*jsonfile.Store, error) {
	if dir := os.Getenv("CAFEMATE_DATA_DIR"); dir != "" {
		return jsonfile.NewStoreAt(dir)
	}
	return jsonfile.NewStore(viper.New())
}

func newLogger() *zap.Logger {
	if os.Getenv("CAFEMATE_DEBUG") == "" {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// lazyGenerator defers building the OpenAI client until the first
// generation call, so commands that never generate content do not need
// a configured API key.
type lazyGenerator struct {
	settings ports.SettingsRepository
	secrets  ports.SecretStore
	logger   *zap.Logger

	once   sync.Once
	client ports.ContentGenerator
	err    error
}

var _ ports.ContentGenerator = (*lazyGenerator)(nil)

func newLazyGenerator(settings ports.SettingsRepository, secrets ports.SecretStore, logger *zap.Logger) *lazyGenerator {
	return &lazyGenerator{settings: settings, secrets: secrets, logger: logger}
}

func (g *lazyGenerator) Generate(ctx context.Context, systemPrompt, userRequest string, count int) ([]string, error) {
	g.once.Do(func() {
		g.client, g.err = g.build(ctx)
	})
	if g.err != nil {
		return nil, g.err
	}
	return g.client.Generate(ctx, systemPrompt, userRequest, count)
}

func (g *lazyGenerator) build(ctx context.Context) (ports.ContentGenerator, error) {
	settings, err := g.settings.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	ref := settings.GeneratorSecretRef
	if ref == "" {
		ref = defaultSecretRef
	}

	apiKey, err := g.secrets.Get(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("resolve generator api key %q: %w", ref, err)
	}

	opts := []openai.Option{openai.WithLogger(g.logger)}
	if baseURL := os.Getenv("CAFEMATE_OPENAI_BASE_URL"); baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	if model := os.Getenv("CAFEMATE_OPENAI_MODEL"); model != "" {
		opts = append(opts, openai.WithModel(model))
	}

	return openai.NewClient(apiKey, opts...), nil
}
