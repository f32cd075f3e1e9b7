package jsonfile

import (
	"context"
	"fmt"
	"time"

	"github.com/hansollab/cafemate/internal/domain"
	"github.com/hansollab/cafemate/internal/ports"
)

const (
	accountsDir   = "posts"
	templatesFile = "templates.json"
)

// TemplatesRepository keeps one append-only template list per account,
// at posts/<userId>/templates.json.
type TemplatesRepository struct {
	store *Store
	clock ports.Clock
}

var _ ports.TemplateRepository = (*TemplatesRepository)(nil)

func NewTemplatesRepository(store *Store, clock ports.Clock) *TemplatesRepository {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &TemplatesRepository{store: store, clock: clock}
}

type templatesSchema struct {
	LastUpdated string           `json:"lastUpdated"`
	Templates   []templateSchema `json:"templates"`
}

type templateSchema struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	CafeID      string `json:"cafeId,omitempty"`
	MenuID      string `json:"menuId,omitempty"`
	RequestBody string `json:"requestBody"`
	Title       string `json:"title,omitempty"`
	Content     string `json:"content,omitempty"`
	URL         string `json:"url,omitempty"`
	Timestamp   string `json:"timestamp,omitempty"`
}

func (r *TemplatesRepository) ListByUser(ctx context.Context, userID string) ([]domain.Template, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if userID == "" || userID == domain.UnknownUserID {
		return nil, domain.ErrIdentityUnknown
	}

	path := r.store.path(accountsDir, userID, templatesFile)
	mu := lockForPath(path)
	mu.RLock()
	defer mu.RUnlock()

	var file templatesSchema
	if _, err := readFile(path, &file); err != nil {
		return nil, err
	}

	templates := make([]domain.Template, 0, len(file.Templates))
	for _, entry := range file.Templates {
		templates = append(templates, templateFromSchema(entry))
	}
	return templates, nil
}

// Append adds a template to its owner's list and returns the new total.
// Templates owned by the identity-unknown sentinel are rejected.
func (r *TemplatesRepository) Append(ctx context.Context, template domain.Template) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if !template.Valid() {
		return 0, fmt.Errorf("append template: %w", domain.ErrIdentityUnknown)
	}

	path := r.store.path(accountsDir, template.UserID, templatesFile)
	mu := lockForPath(path)
	mu.Lock()
	defer mu.Unlock()

	var file templatesSchema
	if _, err := readFile(path, &file); err != nil {
		return 0, err
	}

	file.Templates = append(file.Templates, templateToSchema(template))
	file.LastUpdated = r.clock.Now().UTC().Format(time.RFC3339)

	if err := writeFile(path, file); err != nil {
		return 0, err
	}
	return len(file.Templates), nil
}

func templateToSchema(t domain.Template) templateSchema {
	return templateSchema{
		ID:          t.ID,
		UserID:      t.UserID,
		CafeID:      t.CafeID,
		MenuID:      t.MenuID,
		RequestBody: t.RequestBody,
		Title:       t.Title,
		Content:     t.Content,
		URL:         t.URL,
		Timestamp:   formatTime(t.Timestamp),
	}
}

func templateFromSchema(entry templateSchema) domain.Template {
	return domain.Template{
		ID:          entry.ID,
		UserID:      entry.UserID,
		CafeID:      entry.CafeID,
		MenuID:      entry.MenuID,
		RequestBody: entry.RequestBody,
		Title:       entry.Title,
		Content:     entry.Content,
		URL:         entry.URL,
		Timestamp:   parseTime(entry.Timestamp),
	}
}
