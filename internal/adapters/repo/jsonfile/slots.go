package jsonfile

import (
	"context"
	"time"

	"github.com/hansollab/cafemate/internal/domain"
	"github.com/hansollab/cafemate/internal/ports"
)

const slotsFile = "slots.json"

type SlotsRepository struct {
	store *Store
	clock ports.Clock
}

var _ ports.SlotRepository = (*SlotsRepository)(nil)

func NewSlotsRepository(store *Store, clock ports.Clock) *SlotsRepository {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &SlotsRepository{store: store, clock: clock}
}

type slotsSchema struct {
	LastUpdated string       `json:"lastUpdated"`
	Slots       []slotSchema `json:"slots"`
}

type slotSchema struct {
	ID         int               `json:"id"`
	UserID     string            `json:"userId,omitempty"`
	IsLoggedIn bool              `json:"isLoggedIn"`
	Timestamp  string            `json:"timestamp,omitempty"`
	Cookies    map[string]string `json:"cookies,omitempty"`
	Local      map[string]string `json:"localStorage,omitempty"`
	Session    map[string]string `json:"sessionStorage,omitempty"`
	URL        string            `json:"url,omitempty"`
}

// Load returns the persisted slot set, padded out to the fixed count. A
// missing file yields the empty placeholder set, never an error.
func (r *SlotsRepository) Load(ctx context.Context) ([]domain.Slot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := r.store.path(slotsFile)
	mu := lockForPath(path)
	mu.RLock()
	defer mu.RUnlock()

	var file slotsSchema
	if _, err := readFile(path, &file); err != nil {
		return nil, err
	}

	byID := make(map[int]domain.Slot, len(file.Slots))
	for _, entry := range file.Slots {
		slot := slotFromSchema(entry)
		byID[slot.ID] = slot
	}

	slots := domain.EmptySlots()
	for i := range slots {
		if stored, ok := byID[slots[i].ID]; ok {
			slots[i] = stored
		}
	}
	return slots, nil
}

func (r *SlotsRepository) Save(ctx context.Context, slots []domain.Slot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := r.store.path(slotsFile)
	mu := lockForPath(path)
	mu.Lock()
	defer mu.Unlock()

	file := slotsSchema{
		LastUpdated: r.clock.Now().UTC().Format(time.RFC3339),
		Slots:       make([]slotSchema, 0, len(slots)),
	}
	for _, slot := range slots {
		file.Slots = append(file.Slots, slotToSchema(slot))
	}

	return writeFile(path, file)
}

func slotToSchema(slot domain.Slot) slotSchema {
	return slotSchema{
		ID:         slot.ID,
		UserID:     slot.UserID,
		IsLoggedIn: slot.IsLoggedIn,
		Timestamp:  formatTime(slot.Timestamp),
		Cookies:    slot.Session.Cookies,
		Local:      slot.Session.LocalStorage,
		Session:    slot.Session.SessionStorage,
		URL:        slot.Session.URL,
	}
}

func slotFromSchema(entry slotSchema) domain.Slot {
	return domain.Slot{
		ID:         entry.ID,
		UserID:     entry.UserID,
		IsLoggedIn: entry.IsLoggedIn,
		Timestamp:  parseTime(entry.Timestamp),
		Session: domain.SessionBundle{
			Cookies:        entry.Cookies,
			LocalStorage:   entry.Local,
			SessionStorage: entry.Session,
			URL:            entry.URL,
		},
	}
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.Format(time.RFC3339)
}
