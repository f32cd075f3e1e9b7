package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptySlots(t *testing.T) {
	slots := EmptySlots()
	require.Len(t, slots, SlotCount)
	for i, s := range slots {
		assert.Equal(t, i+1, s.ID)
		assert.False(t, s.Occupied())
		assert.False(t, s.IsLoggedIn)
	}
}

func TestSlotFresh(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		slot Slot
		want bool
	}{
		{
			name: "just captured",
			slot: Slot{IsLoggedIn: true, Timestamp: now},
			want: true,
		},
		{
			name: "one second inside the window",
			slot: Slot{IsLoggedIn: true, Timestamp: now.Add(-SessionTTL + time.Second)},
			want: true,
		},
		{
			name: "exactly at the boundary",
			slot: Slot{IsLoggedIn: true, Timestamp: now.Add(-SessionTTL)},
			want: false,
		},
		{
			name: "expired",
			slot: Slot{IsLoggedIn: true, Timestamp: now.Add(-13 * time.Hour)},
			want: false,
		},
		{
			name: "not logged in",
			slot: Slot{IsLoggedIn: false, Timestamp: now},
			want: false,
		},
		{
			name: "zero timestamp",
			slot: Slot{IsLoggedIn: true},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.slot.Fresh(now))
		})
	}
}

func TestSlotClear(t *testing.T) {
	s := Slot{
		ID:         3,
		UserID:     "hansol",
		IsLoggedIn: true,
		Timestamp:  time.Now(),
		Session:    SessionBundle{Cookies: map[string]string{"NID_AUT": "x"}},
	}

	cleared := s.Clear()

	assert.Equal(t, 3, cleared.ID)
	assert.Empty(t, cleared.UserID)
	assert.False(t, cleared.IsLoggedIn)
	assert.True(t, cleared.Timestamp.IsZero())
	assert.False(t, cleared.Session.HasCookies())
}

func validBundle() SessionBundle {
	return SessionBundle{
		Cookies: map[string]string{
			"NID_AUT": "aut",
			"NID_SES": "ses",
			"NNB":     "nnb",
			"nid_tct": "tct",
			"ba.uuid": "uuid",
		},
		URL: "https://www.naver.com/",
	}
}

func TestCapturePolicyValidate(t *testing.T) {
	policy := DefaultCapturePolicy()

	t.Run("accepts a complete capture", func(t *testing.T) {
		require.NoError(t, policy.Validate(validBundle()))
	})

	t.Run("accepts one session cookie of the pair", func(t *testing.T) {
		b := validBundle()
		delete(b.Cookies, "NID_AUT")
		b.Cookies["extra"] = "x"
		require.NoError(t, policy.Validate(b))
	})

	t.Run("rejects missing session cookies", func(t *testing.T) {
		b := validBundle()
		delete(b.Cookies, "NID_AUT")
		delete(b.Cookies, "NID_SES")
		assert.ErrorIs(t, policy.Validate(b), ErrInvalidSession)
	})

	t.Run("rejects an off-domain URL", func(t *testing.T) {
		b := validBundle()
		b.URL = "https://example.com/welcome"
		assert.ErrorIs(t, policy.Validate(b), ErrInvalidSession)
	})

	t.Run("rejects too few cookies", func(t *testing.T) {
		b := validBundle()
		delete(b.Cookies, "NNB")
		assert.ErrorIs(t, policy.Validate(b), ErrInvalidSession)
	})

	t.Run("accepts exactly the minimum cookie count", func(t *testing.T) {
		b := validBundle()
		require.Len(t, b.Cookies, policy.MinCookies)
		require.NoError(t, policy.Validate(b))
	})
}

func TestMissingSessionCookies(t *testing.T) {
	policy := DefaultCapturePolicy()

	assert.Empty(t, policy.MissingSessionCookies(map[string]string{
		"NID_AUT": "a", "NID_SES": "s",
	}))
	assert.Equal(t, []string{"NID_SES"}, policy.MissingSessionCookies(map[string]string{
		"NID_AUT": "a",
	}))
	assert.Equal(t, []string{"NID_AUT", "NID_SES"}, policy.MissingSessionCookies(nil))
}
