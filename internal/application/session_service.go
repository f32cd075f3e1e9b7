package application

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/hansollab/cafemate/internal/domain"
	"github.com/hansollab/cafemate/internal/ports"
)

// SessionService owns the in-memory slot set. Memory is authoritative;
// the repository is a best-effort mirror, so persistence failures are
// logged and swallowed rather than surfaced to callers.
type SessionService struct {
	repo   ports.SlotRepository
	clock  ports.Clock
	logger *zap.Logger

	mu           sync.RWMutex
	slots        []domain.Slot
	activeEditor string
}

func NewSessionService(repo ports.SlotRepository, clock ports.Clock, logger *zap.Logger) *SessionService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SessionService{
		repo:   repo,
		clock:  clock,
		logger: logger,
		slots:  domain.EmptySlots(),
	}
}

// Load restores persisted sessions, clearing any that aged out of the
// TTL. A read failure leaves the empty placeholder set in place.
func (s *SessionService) Load(ctx context.Context) ([]domain.Slot, error) {
	stored, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load slots: %w", err)
	}

	now := s.clock.Now()
	expired := 0
	for i := range stored {
		if stored[i].IsLoggedIn && !stored[i].Fresh(now) {
			stored[i] = stored[i].Clear()
			expired++
		}
	}
	if expired > 0 {
		s.logger.Info("cleared expired sessions", zap.Int("count", expired))
	}

	s.mu.Lock()
	s.slots = stored
	s.mu.Unlock()

	return s.Slots(), nil
}

// Slots returns a copy of the current slot set.
func (s *SessionService) Slots() []domain.Slot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Slot, len(s.slots))
	copy(out, s.slots)
	return out
}

// Upsert installs a captured session into a slot. If the same user is
// already logged in elsewhere, the older slot is cleared so one identity
// never occupies two slots.
func (s *SessionService) Upsert(ctx context.Context, slotID int, userID string, bundle domain.SessionBundle) (domain.Slot, error) {
	s.mu.Lock()

	idx := -1
	for i := range s.slots {
		if s.slots[i].ID == slotID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return domain.Slot{}, fmt.Errorf("slot %d: %w", slotID, domain.ErrSlotNotFound)
	}

	if userID != "" && userID != domain.UnknownUserID {
		for i := range s.slots {
			if i != idx && s.slots[i].UserID == userID {
				s.logger.Info("superseding duplicate login",
					zap.String("userId", userID),
					zap.Int("oldSlot", s.slots[i].ID),
					zap.Int("newSlot", slotID))
				s.slots[i] = s.slots[i].Clear()
			}
		}
	}

	slot := domain.Slot{
		ID:         slotID,
		UserID:     userID,
		IsLoggedIn: true,
		Timestamp:  s.clock.Now(),
		Session:    bundle,
	}
	s.slots[idx] = slot
	s.mu.Unlock()

	s.persist(ctx)
	return slot, nil
}

// Reset clears one slot.
func (s *SessionService) Reset(ctx context.Context, slotID int) error {
	s.mu.Lock()

	idx := -1
	for i := range s.slots {
		if s.slots[i].ID == slotID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("slot %d: %w", slotID, domain.ErrSlotNotFound)
	}

	cleared := s.slots[idx].UserID
	s.slots[idx] = s.slots[idx].Clear()
	if s.activeEditor != "" && s.activeEditor == cleared {
		s.activeEditor = ""
	}
	s.mu.Unlock()

	s.persist(ctx)
	return nil
}

// ResetAll clears every slot.
func (s *SessionService) ResetAll(ctx context.Context) {
	s.mu.Lock()
	s.slots = domain.EmptySlots()
	s.activeEditor = ""
	s.mu.Unlock()

	s.persist(ctx)
}

// SetActiveEditor records which account's editor window is currently in
// front; captures are attributed to it first.
func (s *SessionService) SetActiveEditor(userID string) {
	s.mu.Lock()
	s.activeEditor = userID
	s.mu.Unlock()
}

// ActingAccount picks the slot a capture belongs to: the active editor's
// slot while that account is still logged in, otherwise the most recently
// logged-in slot.
func (s *SessionService) ActingAccount() (domain.Slot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.activeEditor != "" {
		for _, slot := range s.slots {
			if slot.IsLoggedIn && slot.UserID == s.activeEditor {
				return slot, true
			}
		}
	}

	var best domain.Slot
	found := false
	for _, slot := range s.slots {
		if !slot.IsLoggedIn {
			continue
		}
		if !found || slot.Timestamp.After(best.Timestamp) {
			best = slot
			found = true
		}
	}
	return best, found
}

// Resolve finds the logged-in slot for a task's account reference. The
// tiers: exact userId match, then "slot-N" numeric ids, then substring
// containment in either direction.
func (s *SessionService) Resolve(accountID string) (domain.Slot, error) {
	if accountID == "" {
		return domain.Slot{}, fmt.Errorf("empty account id: %w", domain.ErrSlotNotFound)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, slot := range s.slots {
		if slot.IsLoggedIn && slot.UserID == accountID {
			return slot, nil
		}
	}

	if n, ok := strings.CutPrefix(accountID, "slot-"); ok {
		if id, err := strconv.Atoi(n); err == nil {
			for _, slot := range s.slots {
				if slot.ID == id && slot.IsLoggedIn {
					return slot, nil
				}
			}
		}
	}

	for _, slot := range s.slots {
		if !slot.IsLoggedIn || slot.UserID == "" {
			continue
		}
		if strings.Contains(slot.UserID, accountID) || strings.Contains(accountID, slot.UserID) {
			return slot, nil
		}
	}

	return domain.Slot{}, fmt.Errorf("account %q: %w", accountID, domain.ErrSlotNotFound)
}

func (s *SessionService) persist(ctx context.Context) {
	if err := s.repo.Save(ctx, s.Slots()); err != nil {
		s.logger.Warn("persist slots failed", zap.Error(err))
	}
}
