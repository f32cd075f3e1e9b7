package ports

import "context"

// BrowserRequest is one network request observed inside a login context.
type BrowserRequest struct {
	Method string
	URL    string
	Body   string
}

// BrowserContext is a disposable interactive window the user signs in
// through. The login flow only observes it; driving the browser itself
// is outside this program.
type BrowserContext interface {
	// OnRequest registers an observer for outgoing requests. Multiple
	// observers may be registered; all of them see every request.
	OnRequest(fn func(BrowserRequest))
	// OnNavigate registers an observer for top-level URL changes.
	OnNavigate(fn func(url string))

	Cookies(ctx context.Context) (map[string]string, error)
	LocalStorage(ctx context.Context) (map[string]string, error)
	SessionStorage(ctx context.Context) (map[string]string, error)
	URL(ctx context.Context) (string, error)

	// Closed is closed when the window goes away, whether by the user or
	// by Close.
	Closed() <-chan struct{}
	Close(ctx context.Context) error
}
