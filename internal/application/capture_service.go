package application

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/hansollab/cafemate/internal/domain"
	"github.com/hansollab/cafemate/internal/ports"
)

// templateMarkers flag the draft-article endpoint in both spellings the
// provider has used.
var templateMarkers = []string{"temporary-articles", "temporary_articles"}

// TemplateCaptured is published after each capture attempt. Total is the
// owner's template count after a successful append; Err carries the
// reason when a capture was observed but could not be stored.
type TemplateCaptured struct {
	Owner      string
	TemplateID string
	CafeID     string
	Total      int
	Err        error
}

// CaptureService arms editor windows with a request interceptor that
// records draft-article submissions as reusable templates.
type CaptureService struct {
	sessions  *SessionService
	templates ports.TemplateRepository
	clock     ports.Clock
	logger    *zap.Logger

	mu   sync.Mutex
	subs []chan TemplateCaptured
}

func NewCaptureService(sessions *SessionService, templates ports.TemplateRepository, clock ports.Clock, logger *zap.Logger) *CaptureService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CaptureService{
		sessions:  sessions,
		templates: templates,
		clock:     clock,
		logger:    logger,
	}
}

// Subscribe returns a channel of capture outcomes. Events are dropped
// rather than blocking when a subscriber lags.
func (s *CaptureService) Subscribe() <-chan TemplateCaptured {
	ch := make(chan TemplateCaptured, 16)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

// Arm installs the capture interceptor on an editor window. It may be
// called once per window; every armed window reports into the same
// subscriber set.
func (s *CaptureService) Arm(ctx context.Context, bc ports.BrowserContext) {
	bc.OnRequest(func(req ports.BrowserRequest) {
		if !isTemplateRequest(req) {
			return
		}
		s.record(ctx, req)
	})
}

func isTemplateRequest(req ports.BrowserRequest) bool {
	if req.Method != "POST" || req.Body == "" {
		return false
	}
	for _, marker := range templateMarkers {
		if strings.Contains(req.URL, marker) {
			return true
		}
	}
	return false
}

func (s *CaptureService) record(ctx context.Context, req ports.BrowserRequest) {
	owner, ok := s.sessions.ActingAccount()
	if !ok || owner.UserID == "" || owner.UserID == domain.UnknownUserID {
		s.logger.Warn("template capture without attributable account",
			zap.String("url", req.URL))
		s.publish(TemplateCaptured{Err: domain.ErrIdentityUnknown})
		return
	}

	title, content := domain.ExtractPreview(req.Body)
	template := domain.Template{
		ID:          domain.NewTemplateID(),
		UserID:      owner.UserID,
		CafeID:      domain.ExtractCafeID(req.URL),
		MenuID:      menuIDFrom(req.Body),
		RequestBody: req.Body,
		Title:       title,
		Content:     content,
		URL:         req.URL,
		Timestamp:   s.clock.Now(),
	}

	total, err := s.templates.Append(ctx, template)
	if err != nil {
		s.logger.Warn("persist template failed",
			zap.String("userId", owner.UserID),
			zap.Error(err))
		s.publish(TemplateCaptured{Owner: owner.UserID, Err: err})
		return
	}

	s.logger.Info("template captured",
		zap.String("userId", owner.UserID),
		zap.String("templateId", template.ID),
		zap.String("cafeId", template.CafeID),
		zap.Int("total", total))

	s.publish(TemplateCaptured{
		Owner:      owner.UserID,
		TemplateID: template.ID,
		CafeID:     template.CafeID,
		Total:      total,
	})
}

// menuIDFrom digs article.menuId out of a JSON capture body. Non-JSON
// bodies or missing fields yield the empty string.
func menuIDFrom(body string) string {
	var parsed struct {
		Article struct {
			MenuID json.Number `json:"menuId"`
		} `json:"article"`
	}
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return ""
	}
	return parsed.Article.MenuID.String()
}

func (s *CaptureService) publish(event TemplateCaptured) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
