package replay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hansollab/cafemate/internal/ports"
)

const (
	defaultAPIHost = "https://apis.naver.com"
	requestTimeout = 30 * time.Second

	editorAPIPath = "apis.naver.com/cafe-web/cafe-editor-api/v2.0"
	webHostPath   = "cafe.naver.com/ca-fe"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	origin    = "https://cafe.naver.com"
)

// Client resubmits captured article requests against the live endpoint,
// presenting them as if they came from the web editor.
type Client struct {
	httpClient *http.Client
	apiHost    string
	logger     *zap.Logger
}

var _ ports.ReplaySender = (*Client)(nil)

type Option func(*Client)

func WithAPIHost(host string) Option {
	return func(c *Client) { c.apiHost = strings.TrimRight(host, "/") }
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		apiHost:    defaultAPIHost,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send submits one article. Every outcome is a Result; transport failures
// land in Result.Err rather than aborting the caller.
func (c *Client) Send(ctx context.Context, reqData ports.ReplayRequest) ports.ReplayResult {
	url := c.ArticleURL(reqData.CafeID, reqData.BoardID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(reqData.Body))
	if err != nil {
		return ports.ReplayResult{Err: fmt.Errorf("build replay request: %w", err)}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Origin", origin)
	req.Header.Set("Referer", refererFor(reqData.CapturedURL, url))
	req.Header.Set("x-cafe-product", "pc")
	if cookie := cookieHeader(reqData.Cookies); cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("replay transport failed", zap.String("url", url), zap.Error(err))
		return ports.ReplayResult{Err: fmt.Errorf("send replay request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ports.ReplayResult{StatusCode: resp.StatusCode, Err: fmt.Errorf("read replay response: %w", err)}
	}

	result := ports.ReplayResult{
		StatusCode: resp.StatusCode,
		Response:   string(body),
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("replay rejected",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode))
		return result
	}
	if !json.Valid(body) {
		// A 2xx with an HTML body means a login page, not a posted article.
		c.logger.Warn("replay returned non-JSON body", zap.Int("status", resp.StatusCode))
		return result
	}

	result.Success = true
	return result
}

// ArticleURL builds the submission endpoint for a cafe/board pair.
func (c *Client) ArticleURL(cafeID, boardID string) string {
	return fmt.Sprintf("%s/cafe-web/cafe-editor-api/v2.0/cafes/%s/menus/%s/articles", c.apiHost, cafeID, boardID)
}

// refererFor rewrites the editor API host path into the canonical web
// host the browser would have been on.
func refererFor(capturedURL, fallback string) string {
	source := capturedURL
	if source == "" {
		source = fallback
	}
	return strings.Replace(source, editorAPIPath, webHostPath, 1)
}

// cookieHeader flattens the cookie map into a single header line. Sorted
// for stable output.
func cookieHeader(cookies map[string]string) string {
	if len(cookies) == 0 {
		return ""
	}

	names := make([]string, 0, len(cookies))
	for name := range cookies {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, name+"="+cookies[name])
	}
	return strings.Join(pairs, "; ")
}
