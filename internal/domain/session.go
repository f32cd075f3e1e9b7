package domain

import "strings"

// CapturePolicy decides whether a freshly captured session bundle counts as
// a completed login. The third-party contract is undocumented, so every
// knob here is configuration rather than protocol.
type CapturePolicy struct {
	// SessionCookies are the provider cookies that prove an authenticated
	// session; at least one must be present.
	SessionCookies []string
	// Domain the final URL must belong to.
	Domain string
	// MinCookies is the smallest cookie set a real signed-in session
	// produces; fewer means a signed-out or partial capture.
	MinCookies int
}

func DefaultCapturePolicy() CapturePolicy {
	return CapturePolicy{
		SessionCookies: []string{"NID_AUT", "NID_SES"},
		Domain:         "naver.com",
		MinCookies:     5,
	}
}

// Validate applies the three-way acceptance contract: a session cookie is
// present, the final URL is on the provider domain, and the cookie set is
// large enough. All three must hold.
func (p CapturePolicy) Validate(bundle SessionBundle) error {
	found := false
	for _, name := range p.SessionCookies {
		if _, ok := bundle.Cookies[name]; ok {
			found = true
			break
		}
	}
	if !found {
		return ErrInvalidSession
	}

	if !strings.Contains(bundle.URL, p.Domain) {
		return ErrInvalidSession
	}

	if len(bundle.Cookies) < p.MinCookies {
		return ErrInvalidSession
	}

	return nil
}

// MissingSessionCookies returns the mandatory session cookies absent from
// the bundle. The executor refuses to replay when any are missing.
func (p CapturePolicy) MissingSessionCookies(cookies map[string]string) []string {
	var missing []string
	for _, name := range p.SessionCookies {
		if cookies[name] == "" {
			missing = append(missing, name)
		}
	}
	return missing
}
