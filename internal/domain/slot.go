package domain

import "time"

// SlotCount is the fixed number of identity containers the tool manages.
const SlotCount = 5

// SessionTTL is how long a captured login stays usable before it is
// excluded from the active set at load time.
const SessionTTL = 12 * time.Hour

// UnknownUserID marks a capture whose identity could not be extracted from
// the login traffic. A slot may carry it, but it must never be used as a
// storage key for templates.
const UnknownUserID = "Unknown User"

// SessionBundle holds everything lifted out of a disposable login context.
// It is owned exclusively by one slot and replaced wholesale on re-login.
type SessionBundle struct {
	Cookies        map[string]string
	LocalStorage   map[string]string
	SessionStorage map[string]string
	URL            string
}

func (b SessionBundle) HasCookies() bool {
	return len(b.Cookies) > 0
}

// Slot is one of five fixed identity containers. Its ID is stable for the
// life of the process; identity and session fields are cleared on reset.
type Slot struct {
	ID         int
	UserID     string
	IsLoggedIn bool
	Timestamp  time.Time
	Session    SessionBundle
}

// Fresh reports whether a logged-in slot is still inside the session TTL.
// The interval is open: a slot exactly SessionTTL old is no longer fresh.
func (s Slot) Fresh(now time.Time) bool {
	if !s.IsLoggedIn || s.Timestamp.IsZero() {
		return false
	}
	return now.Sub(s.Timestamp) < SessionTTL
}

func (s Slot) Occupied() bool {
	return s.UserID != ""
}

// Clear drops identity and session data while preserving the slot id.
func (s Slot) Clear() Slot {
	return Slot{ID: s.ID}
}

// EmptySlots returns the fixed placeholder set created at process start.
func EmptySlots() []Slot {
	slots := make([]Slot, 0, SlotCount)
	for i := 1; i <= SlotCount; i++ {
		slots = append(slots, Slot{ID: i})
	}
	return slots
}
