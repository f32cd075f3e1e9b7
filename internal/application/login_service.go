package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hansollab/cafemate/internal/domain"
	"github.com/hansollab/cafemate/internal/ports"
)

const (
	// loginSettleDelay gives the provider time to finish setting cookies
	// after the post-login navigation lands.
	loginSettleDelay = 2 * time.Second

	loginHost = "nid.naver.com"

	// loginDonePath is where the provider lands the browser once the
	// sign-in form is accepted.
	loginDonePath = loginHost + "/user2"
)

// LoginService watches an interactive login window, extracts the account
// identity from the login traffic, and installs the captured session into
// a slot once the capture passes the acceptance policy.
type LoginService struct {
	sessions   *SessionService
	policy     domain.CapturePolicy
	strategies []domain.IdentityStrategy
	clock      ports.Clock
	logger     *zap.Logger
	settle     time.Duration
}

func NewLoginService(sessions *SessionService, clock ports.Clock, logger *zap.Logger) *LoginService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &LoginService{
		sessions:   sessions,
		policy:     domain.DefaultCapturePolicy(),
		strategies: domain.DefaultIdentityStrategies(),
		clock:      clock,
		logger:     logger,
		settle:     loginSettleDelay,
	}
}

// Run blocks until the user signs in through bc, then captures the
// session into slotID. Closing the window before a valid capture aborts
// with ErrInvalidSession.
func (s *LoginService) Run(ctx context.Context, slotID int, bc ports.BrowserContext) (domain.Slot, error) {
	var identityMu sync.Mutex
	identity := ""

	bc.OnRequest(func(req ports.BrowserRequest) {
		if req.Method != "POST" || req.Body == "" {
			return
		}
		if !strings.Contains(req.URL, loginHost) {
			return
		}
		if id, ok := domain.ExtractIdentity(s.strategies, req.Body); ok {
			identityMu.Lock()
			identity = id
			identityMu.Unlock()
			s.logger.Debug("identity extracted from login request", zap.String("userId", id))
		}
	})

	navigated := make(chan string, 8)
	bc.OnNavigate(func(url string) {
		select {
		case navigated <- url:
		default:
		}
	})

	for {
		select {
		case <-ctx.Done():
			_ = bc.Close(context.Background())
			return domain.Slot{}, ctx.Err()

		case <-bc.Closed():
			return domain.Slot{}, fmt.Errorf("login window closed before sign-in: %w", domain.ErrInvalidSession)

		case url := <-navigated:
			if !s.looksSignedIn(url) {
				continue
			}

			if err := s.clock.Sleep(ctx, s.settle); err != nil {
				_ = bc.Close(context.Background())
				return domain.Slot{}, err
			}

			slot, err := s.capture(ctx, slotID, bc, &identityMu, &identity)
			if err == nil {
				_ = bc.Close(ctx)
				return slot, nil
			}
			if !isRetryable(err) {
				_ = bc.Close(context.Background())
				return domain.Slot{}, err
			}
			// Not signed in yet; keep watching.
			s.logger.Debug("capture not valid yet", zap.String("url", url), zap.Error(err))
		}
	}
}

// looksSignedIn filters navigations. The post-login user2 page is the
// canonical completion signal; leaving the login host for another provider
// page counts too. Everything else on the login host is still the form.
func (s *LoginService) looksSignedIn(url string) bool {
	if strings.Contains(url, loginDonePath) {
		return true
	}
	return strings.Contains(url, s.policy.Domain) && !strings.Contains(url, loginHost)
}

func (s *LoginService) capture(ctx context.Context, slotID int, bc ports.BrowserContext, identityMu *sync.Mutex, identity *string) (domain.Slot, error) {
	cookies, err := bc.Cookies(ctx)
	if err != nil {
		return domain.Slot{}, fmt.Errorf("read cookies: %w", err)
	}
	local, err := bc.LocalStorage(ctx)
	if err != nil {
		return domain.Slot{}, fmt.Errorf("read local storage: %w", err)
	}
	session, err := bc.SessionStorage(ctx)
	if err != nil {
		return domain.Slot{}, fmt.Errorf("read session storage: %w", err)
	}
	url, err := bc.URL(ctx)
	if err != nil {
		return domain.Slot{}, fmt.Errorf("read current url: %w", err)
	}

	bundle := domain.SessionBundle{
		Cookies:        cookies,
		LocalStorage:   local,
		SessionStorage: session,
		URL:            url,
	}
	if err := s.policy.Validate(bundle); err != nil {
		return domain.Slot{}, err
	}

	identityMu.Lock()
	userID := *identity
	identityMu.Unlock()
	if userID == "" {
		userID = domain.UnknownUserID
		s.logger.Warn("login captured without identity", zap.Int("slot", slotID))
	}

	slot, err := s.sessions.Upsert(ctx, slotID, userID, bundle)
	if err != nil {
		return domain.Slot{}, err
	}

	s.logger.Info("session captured",
		zap.Int("slot", slotID),
		zap.String("userId", userID),
		zap.Int("cookies", len(cookies)))
	return slot, nil
}

// isRetryable: a capture that merely fails the acceptance policy means
// the user has not finished signing in; anything else is fatal.
func isRetryable(err error) bool {
	return errors.Is(err, domain.ErrInvalidSession)
}
