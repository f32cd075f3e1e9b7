package application

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/hansollab/cafemate/internal/domain"
	"github.com/hansollab/cafemate/internal/ports"
)

// SchedulerService runs posting tasks: waits for the scheduled time,
// resolves the acting session, generates content, and replays the
// account's captured template once per article with the configured delay
// in between.
type SchedulerService struct {
	tasks     ports.TaskRepository
	sessions  *SessionService
	templates ports.TemplateRepository
	boards    ports.BoardRepository
	posts     ports.PostRepository
	settings  ports.SettingsRepository
	generator ports.ContentGenerator
	sender    ports.ReplaySender
	policy    domain.CapturePolicy
	clock     ports.Clock
	logger    *zap.Logger

	wg sync.WaitGroup
}

type SchedulerDeps struct {
	Tasks     ports.TaskRepository
	Sessions  *SessionService
	Templates ports.TemplateRepository
	Boards    ports.BoardRepository
	Posts     ports.PostRepository
	Settings  ports.SettingsRepository
	Generator ports.ContentGenerator
	Sender    ports.ReplaySender
	Clock     ports.Clock
	Logger    *zap.Logger
}

func NewSchedulerService(deps SchedulerDeps) *SchedulerService {
	if deps.Clock == nil {
		deps.Clock = ports.SystemClock{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	return &SchedulerService{
		tasks:     deps.Tasks,
		sessions:  deps.Sessions,
		templates: deps.Templates,
		boards:    deps.Boards,
		posts:     deps.Posts,
		settings:  deps.Settings,
		generator: deps.Generator,
		sender:    deps.Sender,
		policy:    domain.DefaultCapturePolicy(),
		clock:     deps.Clock,
		logger:    deps.Logger,
	}
}

// CreateTask fills defaults and persists a new pending task.
func (s *SchedulerService) CreateTask(ctx context.Context, task domain.Task) (domain.Task, error) {
	if task.ID == "" {
		task.ID = domain.NewTaskID()
	}
	if task.ArticleCount <= 0 {
		task.ArticleCount = domain.DefaultArticleCount
	}
	if task.DelayBetweenTasks <= 0 {
		task.DelayBetweenTasks = domain.DefaultDelayMinutes
	}
	task.Status = domain.TaskPending
	now := s.clock.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	if err := s.tasks.Save(ctx, task); err != nil {
		return domain.Task{}, fmt.Errorf("save task: %w", err)
	}
	return task, nil
}

func (s *SchedulerService) ListTasks(ctx context.Context) ([]domain.Task, error) {
	return s.tasks.List(ctx)
}

func (s *SchedulerService) DeleteTask(ctx context.Context, id string) error {
	return s.tasks.Delete(ctx, id)
}

// Start transitions a pending task to running and executes it on a
// background goroutine. The transition itself is synchronous, so a second
// Start on the same task fails with ErrNotPending.
func (s *SchedulerService) Start(ctx context.Context, taskID string) error {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return fmt.Errorf("get task: %w", err)
	}
	if err := task.CanStart(); err != nil {
		return err
	}

	task.Status = domain.TaskRunning
	task.UpdatedAt = s.clock.Now()
	if err := s.tasks.Save(ctx, task); err != nil {
		return fmt.Errorf("mark task running: %w", err)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.execute(ctx, task)
	}()
	return nil
}

// Wait blocks until every started task has finished.
func (s *SchedulerService) Wait() {
	s.wg.Wait()
}

func (s *SchedulerService) execute(ctx context.Context, task domain.Task) {
	log := s.logger.With(zap.String("taskId", task.ID), zap.String("accountId", task.AccountID))

	if wait := task.ScheduledTime.Sub(s.clock.Now()); wait > 0 {
		log.Info("waiting for scheduled time", zap.Duration("wait", wait))
		if err := s.clock.Sleep(ctx, wait); err != nil {
			s.finish(ctx, task, domain.TaskFailed, log)
			return
		}
	}

	if err := s.runTask(ctx, &task, log); err != nil {
		log.Warn("task failed", zap.Error(err))
		s.finish(ctx, task, domain.TaskFailed, log)
		return
	}

	log.Info("task completed")
	s.finish(ctx, task, domain.TaskCompleted, log)
}

func (s *SchedulerService) runTask(ctx context.Context, task *domain.Task, log *zap.Logger) error {
	slot, err := s.sessions.Resolve(task.AccountID)
	if err != nil {
		return err
	}

	if missing := s.policy.MissingSessionCookies(slot.Session.Cookies); len(missing) > 0 {
		return fmt.Errorf("session for %q is missing cookies %s: %w",
			slot.UserID, strings.Join(missing, ", "), domain.ErrInvalidSession)
	}

	template, err := s.pickTemplate(ctx, slot.UserID, task.TemplateID)
	if err != nil {
		return err
	}

	cafeID, boardID := s.resolveBoard(ctx, *task, template, slot.UserID)
	if cafeID == "" {
		return fmt.Errorf("no cafe id for task: %w", domain.ErrBoardNotFound)
	}

	// Persist the lazily resolved target so reruns and listings show it.
	if task.CafeID != cafeID || task.MenuID != boardID {
		task.CafeID = cafeID
		task.MenuID = boardID
		task.UpdatedAt = s.clock.Now()
		if err := s.tasks.Save(ctx, *task); err != nil {
			log.Warn("persist resolved board failed", zap.Error(err))
		}
	}

	settings := s.loadSettings(ctx)

	repeats := task.Repeats()
	for i := 0; i < repeats; i++ {
		content, err := s.generateContent(ctx, settings.Prompt(), task.Prompt)
		if err != nil {
			return err
		}
		title := domain.TitleFrom(content)

		body, err := domain.SubstituteContent(template.RequestBody, title, content)
		if err != nil {
			return fmt.Errorf("prepare article %d: %w", i+1, err)
		}

		result := s.sender.Send(ctx, ports.ReplayRequest{
			CafeID:      cafeID,
			BoardID:     boardID,
			Body:        body,
			Cookies:     slot.Session.Cookies,
			CapturedURL: template.URL,
		})
		if !result.Success {
			if result.Err != nil {
				return fmt.Errorf("submit article %d: %w", i+1, result.Err)
			}
			return fmt.Errorf("submit article %d: status %d", i+1, result.StatusCode)
		}

		log.Info("article posted",
			zap.Int("article", i+1),
			zap.Int("of", repeats),
			zap.String("cafeId", cafeID),
			zap.String("boardId", boardID))

		s.savePost(ctx, slot.UserID, content, log)

		if i < repeats-1 {
			if err := s.clock.Sleep(ctx, task.Delay()); err != nil {
				return err
			}
		}
	}
	return nil
}

// pickTemplate returns the requested template, or the owner's most recent
// one when the task does not pin an id.
func (s *SchedulerService) pickTemplate(ctx context.Context, userID, templateID string) (domain.Template, error) {
	templates, err := s.templates.ListByUser(ctx, userID)
	if err != nil {
		return domain.Template{}, fmt.Errorf("list templates: %w", err)
	}
	if len(templates) == 0 {
		return domain.Template{}, fmt.Errorf("no templates for %q: %w", userID, domain.ErrTemplateNotFound)
	}

	if templateID == "" {
		return templates[len(templates)-1], nil
	}
	for _, t := range templates {
		if t.ID == templateID {
			return t, nil
		}
	}
	return domain.Template{}, fmt.Errorf("template %q: %w", templateID, domain.ErrTemplateNotFound)
}

// resolveBoard picks the cafe and board: explicit task fields first, then
// the account's board mapping, then what the template recorded, then the
// default board.
func (s *SchedulerService) resolveBoard(ctx context.Context, task domain.Task, template domain.Template, userID string) (cafeID, boardID string) {
	cafeID = task.CafeID
	if cafeID == "" {
		cafeID = template.CafeID
	}

	boardID = task.MenuID
	if boardID == "" {
		if mapping, err := s.boards.Get(ctx, userID); err == nil {
			boardID = mapping.BoardID
			if cafeID == "" {
				cafeID = mapping.CafeID
			}
		}
	}
	if boardID == "" {
		boardID = template.MenuID
	}
	if boardID == "" {
		boardID = domain.DefaultBoardID
	}
	return cafeID, boardID
}

func (s *SchedulerService) loadSettings(ctx context.Context) domain.Settings {
	settings, err := s.settings.Load(ctx)
	if err != nil {
		s.logger.Warn("load settings failed, using defaults", zap.Error(err))
		return domain.Settings{}
	}
	return settings
}

// generateContent asks the generator for exactly one article. Extra lines
// beyond the first item are ignored.
func (s *SchedulerService) generateContent(ctx context.Context, systemPrompt, request string) (string, error) {
	contents, err := s.generator.Generate(ctx, systemPrompt, request, 1)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if len(contents) == 0 || strings.TrimSpace(contents[0]) == "" {
		return "", domain.ErrNoContent
	}
	return contents[0], nil
}

// savePost mirror-writes the generated text; a failure is logged, never
// fatal to the run.
func (s *SchedulerService) savePost(ctx context.Context, userID, content string, log *zap.Logger) {
	post := domain.Post{
		ID:        domain.NewPostID(),
		AccountID: userID,
		Content:   content,
		CreatedAt: s.clock.Now(),
	}
	if err := s.posts.Save(ctx, post); err != nil {
		log.Warn("persist post failed", zap.Error(err))
	}
}

func (s *SchedulerService) finish(ctx context.Context, task domain.Task, status domain.TaskStatus, log *zap.Logger) {
	task.Status = status
	task.UpdatedAt = s.clock.Now()
	if err := s.tasks.Save(ctx, task); err != nil {
		log.Warn("persist task status failed", zap.Error(err))
	}
}
