package ports

import "context"

// ReplayRequest carries one outbound article submission built from a
// captured template and a session's cookies.
type ReplayRequest struct {
	CafeID  string
	BoardID string
	Body    string
	Cookies map[string]string
	// CapturedURL is the endpoint the template was intercepted on; the
	// sender derives the Referer header from it.
	CapturedURL string
}

// ReplayResult reports the outcome of one submission. Failures are data,
// not errors; transport errors surface in Err with Success false.
type ReplayResult struct {
	Success    bool
	StatusCode int
	Response   string
	Err        error
}

type ReplaySender interface {
	Send(ctx context.Context, req ReplayRequest) ReplayResult
}
