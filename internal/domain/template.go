package domain

import (
	"net/url"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Template is a captured "create draft article" request for one account.
// Templates are append-only; the executor reads them by (owner, id) and
// never mutates them.
type Template struct {
	ID          string
	UserID      string
	CafeID      string
	MenuID      string
	RequestBody string
	Title       string
	Content     string
	URL         string
	Timestamp   time.Time
}

func NewTemplateID() string {
	return "template_" + uuid.NewString()
}

// Valid reports whether the template may be persisted. A template owned by
// the identity-unknown sentinel must never be stored.
func (t Template) Valid() bool {
	return t.UserID != "" && t.UserID != UnknownUserID
}

// The capture endpoint embeds the cafe id in several URL shapes; extraction
// is best-effort and an unmatched URL simply leaves the field unset.
var cafeIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`cafes?[/=](\d+)[/?&]?.*temporary[-_]articles`),
	regexp.MustCompile(`cafe[/=](\d+)[/?&]?`),
	regexp.MustCompile(`cafeId[=:](\d+)`),
	regexp.MustCompile(`/(\d+)/.*temporary[-_]articles`),
}

func ExtractCafeID(rawURL string) string {
	for _, pattern := range cafeIDPatterns {
		if m := pattern.FindStringSubmatch(rawURL); m != nil {
			return m[1]
		}
	}
	return ""
}

var (
	subjectPattern = regexp.MustCompile(`subject=([^&]*)`)
	contentPattern = regexp.MustCompile(`content=([^&]*)`)
)

// ExtractPreview pulls best-effort title/content fields out of a captured
// request body for display purposes. Misses are not errors.
func ExtractPreview(body string) (title, content string) {
	decoded, err := url.QueryUnescape(body)
	if err != nil {
		decoded = body
	}

	if m := subjectPattern.FindStringSubmatch(decoded); m != nil {
		title = m[1]
	}
	if m := contentPattern.FindStringSubmatch(decoded); m != nil {
		content = m[1]
	}
	return title, content
}
