package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hansollab/cafemate/internal/domain"
	"github.com/hansollab/cafemate/internal/ports"
)

const captureURL = "https://apis.naver.com/cafe-web/cafe-editor-api/v2.0/cafes/27433401/temporary-articles"

func loggedInSessions(t *testing.T, userID string) *SessionService {
	t.Helper()
	sessions := NewSessionService(&fakeSlotRepo{}, newFakeClock(testNow), nil)
	_, err := sessions.Upsert(context.Background(), 1, userID, sessionBundle())
	require.NoError(t, err)
	return sessions
}

func TestCaptureRecordsTemplate(t *testing.T) {
	sessions := loggedInSessions(t, "hansol")
	templates := newFakeTemplateRepo()
	svc := NewCaptureService(sessions, templates, newFakeClock(testNow), nil)
	events := svc.Subscribe()

	b := newFakeBrowser()
	svc.Arm(context.Background(), b)

	b.emitRequest(ports.BrowserRequest{
		Method: "POST",
		URL:    captureURL,
		Body:   `{"article":{"subject":"selling chairs","menuId":17,"contentJson":"{}"}}`,
	})

	event := <-events
	require.NoError(t, event.Err)
	assert.Equal(t, "hansol", event.Owner)
	assert.Equal(t, "27433401", event.CafeID)
	assert.Equal(t, 1, event.Total)
	assert.NotEmpty(t, event.TemplateID)

	stored, err := templates.ListByUser(context.Background(), "hansol")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "17", stored[0].MenuID)
	assert.Equal(t, captureURL, stored[0].URL)
	assert.Contains(t, stored[0].RequestBody, "selling chairs")
}

func TestCaptureIgnoresUnrelatedTraffic(t *testing.T) {
	sessions := loggedInSessions(t, "hansol")
	templates := newFakeTemplateRepo()
	svc := NewCaptureService(sessions, templates, newFakeClock(testNow), nil)
	events := svc.Subscribe()

	b := newFakeBrowser()
	svc.Arm(context.Background(), b)

	b.emitRequest(ports.BrowserRequest{Method: "GET", URL: captureURL})
	b.emitRequest(ports.BrowserRequest{Method: "POST", URL: captureURL})
	b.emitRequest(ports.BrowserRequest{
		Method: "POST",
		URL:    "https://apis.naver.com/cafe-web/other-endpoint",
		Body:   `{"x":1}`,
	})

	select {
	case event := <-events:
		t.Fatalf("unexpected event: %+v", event)
	default:
	}

	stored, err := templates.ListByUser(context.Background(), "hansol")
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestCaptureUnderscoreMarker(t *testing.T) {
	sessions := loggedInSessions(t, "hansol")
	templates := newFakeTemplateRepo()
	svc := NewCaptureService(sessions, templates, newFakeClock(testNow), nil)
	events := svc.Subscribe()

	b := newFakeBrowser()
	svc.Arm(context.Background(), b)

	b.emitRequest(ports.BrowserRequest{
		Method: "POST",
		URL:    "https://apis.naver.com/cafes/555/temporary_articles",
		Body:   `{"article":{}}`,
	})

	event := <-events
	require.NoError(t, event.Err)
	assert.Equal(t, "555", event.CafeID)
}

func TestCaptureWithoutAttributableAccount(t *testing.T) {
	tests := []struct {
		name     string
		sessions *SessionService
	}{
		{
			name:     "nobody logged in",
			sessions: NewSessionService(&fakeSlotRepo{}, newFakeClock(testNow), nil),
		},
		{
			name:     "identity unknown",
			sessions: loggedInSessions(t, domain.UnknownUserID),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			templates := newFakeTemplateRepo()
			svc := NewCaptureService(tt.sessions, templates, newFakeClock(testNow), nil)
			events := svc.Subscribe()

			b := newFakeBrowser()
			svc.Arm(context.Background(), b)

			b.emitRequest(ports.BrowserRequest{Method: "POST", URL: captureURL, Body: `{}`})

			event := <-events
			assert.ErrorIs(t, event.Err, domain.ErrIdentityUnknown)
			assert.Empty(t, templates.byUser)
		})
	}
}

func TestCaptureAttributesToActiveEditor(t *testing.T) {
	ctx := context.Background()
	sessions := NewSessionService(&fakeSlotRepo{}, newFakeClock(testNow), nil)
	_, err := sessions.Upsert(ctx, 1, "first_user", sessionBundle())
	require.NoError(t, err)
	_, err = sessions.Upsert(ctx, 2, "second_user", sessionBundle())
	require.NoError(t, err)
	sessions.SetActiveEditor("first_user")

	templates := newFakeTemplateRepo()
	svc := NewCaptureService(sessions, templates, newFakeClock(testNow), nil)
	events := svc.Subscribe()

	b := newFakeBrowser()
	svc.Arm(ctx, b)
	b.emitRequest(ports.BrowserRequest{Method: "POST", URL: captureURL, Body: `{}`})

	event := <-events
	require.NoError(t, event.Err)
	assert.Equal(t, "first_user", event.Owner)
}
