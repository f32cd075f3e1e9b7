package domain

import (
	"encoding/base64"
	"net/url"
	"regexp"
	"strings"
)

// IdentityStrategy attempts to pull an account identifier out of an
// intercepted login POST body. Strategies run in order; the first hit
// wins. Each one is independently testable.
type IdentityStrategy interface {
	Name() string
	Extract(body string) (string, bool)
}

// ExtractIdentity runs the strategy chain over a request body. The second
// return is false only when no strategy matched; callers then fall back to
// the UnknownUserID sentinel.
func ExtractIdentity(strategies []IdentityStrategy, body string) (string, bool) {
	for _, s := range strategies {
		if id, ok := s.Extract(body); ok {
			return id, true
		}
	}
	return "", false
}

// DefaultIdentityStrategies is the ordered cascade used against the
// identity provider's login traffic.
func DefaultIdentityStrategies() []IdentityStrategy {
	return []IdentityStrategy{
		KnownFieldStrategy{Fields: []string{"id", "user_id", "userId", "username"}},
		EncodedFieldStrategy{},
		ScanStrategy{},
	}
}

var identifierShape = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,40}$`)

// IdentifierShaped reports whether a value plausibly is an account id:
// short, URL-safe, containing at least one letter, and not an obvious
// non-identifier such as a boolean, a locale code, or a URL.
func IdentifierShaped(value string) bool {
	if !identifierShape.MatchString(value) {
		return false
	}
	if !strings.ContainsFunc(value, func(r rune) bool {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
	}) {
		return false
	}
	lower := strings.ToLower(value)
	switch lower {
	case "true", "false", "on", "off", "yes", "no", "null", "undefined":
		return false
	}
	if localeShape.MatchString(value) {
		return false
	}
	if strings.HasPrefix(lower, "http") || strings.Contains(value, "://") {
		return false
	}
	return true
}

var localeShape = regexp.MustCompile(`^[a-z]{2}([_-][A-Z]{2})?$`)

// formPair is one key=value entry of a form-encoded body, in wire order.
type formPair struct {
	key   string
	value string
}

// parseFormBody splits a form-encoded body preserving field order, which
// matters for the fallback scan. Undecodable entries keep their raw text.
func parseFormBody(body string) []formPair {
	var pairs []formPair
	for _, field := range strings.Split(body, "&") {
		if field == "" {
			continue
		}
		key, value, _ := strings.Cut(field, "=")
		if k, err := url.QueryUnescape(key); err == nil {
			key = k
		}
		if v, err := url.QueryUnescape(value); err == nil {
			value = v
		}
		pairs = append(pairs, formPair{key: key, value: value})
	}
	return pairs
}

// KnownFieldStrategy matches fields whose names the provider is known to
// carry the account id in.
type KnownFieldStrategy struct {
	Fields []string
}

func (s KnownFieldStrategy) Name() string { return "known-field" }

func (s KnownFieldStrategy) Extract(body string) (string, bool) {
	pairs := parseFormBody(body)
	for _, field := range s.Fields {
		for _, p := range pairs {
			if p.key == field && p.value != "" {
				return p.value, true
			}
		}
	}
	return "", false
}

// EncodedFieldStrategy tries reversible decodings (base64, URL escaping)
// on opaque-looking field values and accepts the result only when it is
// identifier-shaped.
type EncodedFieldStrategy struct{}

func (EncodedFieldStrategy) Name() string { return "encoded-field" }

func (EncodedFieldStrategy) Extract(body string) (string, bool) {
	for _, p := range parseFormBody(body) {
		if decoded, ok := decodeReversible(p.value); ok {
			return decoded, true
		}
	}
	return "", false
}

func decodeReversible(value string) (string, bool) {
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.RawURLEncoding} {
		raw, err := enc.DecodeString(value)
		if err != nil {
			continue
		}
		decoded := string(raw)
		if decoded != value && IdentifierShaped(decoded) {
			return decoded, true
		}
	}
	return "", false
}

// ScanStrategy is the last resort: walk every field in wire order and
// take the first identifier-shaped value.
type ScanStrategy struct{}

func (ScanStrategy) Name() string { return "scan" }

func (ScanStrategy) Extract(body string) (string, bool) {
	for _, p := range parseFormBody(body) {
		if IdentifierShaped(p.value) {
			return p.value, true
		}
	}
	return "", false
}
