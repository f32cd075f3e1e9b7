package application

import (
	"context"
	"sync"
	"time"

	"github.com/hansollab/cafemate/internal/domain"
	"github.com/hansollab/cafemate/internal/ports"
)

// fakeClock advances its own time on Sleep so delayed flows finish
// instantly in tests.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	c.mu.Unlock()
	return nil
}

func (c *fakeClock) sleptDurations() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]time.Duration, len(c.sleeps))
	copy(out, c.sleeps)
	return out
}

type fakeSlotRepo struct {
	mu      sync.Mutex
	slots   []domain.Slot
	loadErr error
	saveErr error
	saves   int
}

func (r *fakeSlotRepo) Load(ctx context.Context) ([]domain.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	if r.slots == nil {
		return domain.EmptySlots(), nil
	}
	out := make([]domain.Slot, len(r.slots))
	copy(out, r.slots)
	return out, nil
}

func (r *fakeSlotRepo) Save(ctx context.Context, slots []domain.Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.slots = make([]domain.Slot, len(slots))
	copy(r.slots, slots)
	r.saves++
	return nil
}

type fakeTemplateRepo struct {
	mu        sync.Mutex
	byUser    map[string][]domain.Template
	appendErr error
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{byUser: map[string][]domain.Template{}}
}

func (r *fakeTemplateRepo) ListByUser(ctx context.Context, userID string) ([]domain.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Template(nil), r.byUser[userID]...), nil
}

func (r *fakeTemplateRepo) Append(ctx context.Context, template domain.Template) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil {
		return 0, r.appendErr
	}
	r.byUser[template.UserID] = append(r.byUser[template.UserID], template)
	return len(r.byUser[template.UserID]), nil
}

type fakeTaskRepo struct {
	mu    sync.Mutex
	tasks map[string]domain.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[string]domain.Task{}}
}

func (r *fakeTaskRepo) List(ctx context.Context) ([]domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeTaskRepo) GetByID(ctx context.Context, id string) (domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	return task, nil
}

func (r *fakeTaskRepo) Save(ctx context.Context, task domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[task.ID] = task
	return nil
}

func (r *fakeTaskRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

type fakePostRepo struct {
	mu    sync.Mutex
	posts []domain.Post
}

func (r *fakePostRepo) ListByAccount(ctx context.Context, accountID string) ([]domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Post
	for _, p := range r.posts {
		if p.AccountID == accountID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePostRepo) Save(ctx context.Context, post domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts = append(r.posts, post)
	return nil
}

func (r *fakePostRepo) saved() []domain.Post {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Post(nil), r.posts...)
}

type fakeBoardRepo struct {
	mu     sync.Mutex
	boards map[string]domain.BoardMapping
}

func newFakeBoardRepo() *fakeBoardRepo {
	return &fakeBoardRepo{boards: map[string]domain.BoardMapping{}}
}

func (r *fakeBoardRepo) List(ctx context.Context) (map[string]domain.BoardMapping, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]domain.BoardMapping, len(r.boards))
	for k, v := range r.boards {
		out[k] = v
	}
	return out, nil
}

func (r *fakeBoardRepo) Get(ctx context.Context, key string) (domain.BoardMapping, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	mapping, ok := r.boards[key]
	if !ok {
		return domain.BoardMapping{}, domain.ErrBoardNotFound
	}
	return mapping, nil
}

func (r *fakeBoardRepo) Save(ctx context.Context, mapping domain.BoardMapping) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.boards[mapping.Key] = mapping
	return nil
}

func (r *fakeBoardRepo) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.boards[key]; !ok {
		return domain.ErrBoardNotFound
	}
	delete(r.boards, key)
	return nil
}

type fakeSettingsRepo struct {
	settings domain.Settings
}

func (r *fakeSettingsRepo) Load(ctx context.Context) (domain.Settings, error) {
	return r.settings, nil
}

func (r *fakeSettingsRepo) Save(ctx context.Context, settings domain.Settings) error {
	r.settings = settings
	return nil
}

type fakeGenerator struct {
	mu       sync.Mutex
	contents []string
	err      error
	calls    int
	prompts  []string
}

// Generate serves the scripted contents one per call, cycling when the
// executor asks more often than the script is long.
func (g *fakeGenerator) Generate(ctx context.Context, systemPrompt, userRequest string, count int) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.prompts = append(g.prompts, userRequest)
	if g.err != nil {
		return nil, g.err
	}
	if len(g.contents) == 0 {
		return nil, nil
	}
	return []string{g.contents[(g.calls-1)%len(g.contents)]}, nil
}

type fakeSender struct {
	mu       sync.Mutex
	results  []ports.ReplayResult
	requests []ports.ReplayRequest
}

func (s *fakeSender) Send(ctx context.Context, req ports.ReplayRequest) ports.ReplayResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if len(s.results) == 0 {
		return ports.ReplayResult{Success: true, StatusCode: 200, Response: "{}"}
	}
	result := s.results[0]
	if len(s.results) > 1 {
		s.results = s.results[1:]
	}
	return result
}

func (s *fakeSender) sent() []ports.ReplayRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ports.ReplayRequest(nil), s.requests...)
}

// fakeBrowser scripts a login window: tests push requests and
// navigations, then optionally close it.
type fakeBrowser struct {
	mu         sync.Mutex
	onRequest  []func(ports.BrowserRequest)
	onNavigate []func(string)

	cookies map[string]string
	local   map[string]string
	session map[string]string
	url     string

	closed    chan struct{}
	closeOnce sync.Once
}

func newFakeBrowser() *fakeBrowser {
	return &fakeBrowser{
		cookies: map[string]string{},
		local:   map[string]string{},
		session: map[string]string{},
		closed:  make(chan struct{}),
	}
}

func (b *fakeBrowser) OnRequest(fn func(ports.BrowserRequest)) {
	b.mu.Lock()
	b.onRequest = append(b.onRequest, fn)
	b.mu.Unlock()
}

func (b *fakeBrowser) OnNavigate(fn func(string)) {
	b.mu.Lock()
	b.onNavigate = append(b.onNavigate, fn)
	b.mu.Unlock()
}

func (b *fakeBrowser) emitRequest(req ports.BrowserRequest) {
	b.mu.Lock()
	fns := append(make([]func(ports.BrowserRequest), 0, len(b.onRequest)), b.onRequest...)
	b.mu.Unlock()
	for _, fn := range fns {
		fn(req)
	}
}

func (b *fakeBrowser) navigate(url string) {
	b.mu.Lock()
	b.url = url
	fns := append(make([]func(string), 0, len(b.onNavigate)), b.onNavigate...)
	b.mu.Unlock()
	for _, fn := range fns {
		fn(url)
	}
}

func (b *fakeBrowser) Cookies(ctx context.Context) (map[string]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cookies, nil
}

func (b *fakeBrowser) LocalStorage(ctx context.Context) (map[string]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.local, nil
}

func (b *fakeBrowser) SessionStorage(ctx context.Context) (map[string]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.session, nil
}

func (b *fakeBrowser) URL(ctx context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.url, nil
}

func (b *fakeBrowser) Closed() <-chan struct{} { return b.closed }

func (b *fakeBrowser) Close(ctx context.Context) error {
	b.closeOnce.Do(func() { close(b.closed) })
	return nil
}
