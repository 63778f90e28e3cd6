package sharepoint

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"
)

const (
	// maxResponseSize caps how much of a REST response is read.
	maxResponseSize = 64 << 20

	// maxErrorMessage caps the raw body quoted in an HTTPError.
	maxErrorMessage = 512
)

// Client reads from the REST API of a single site using an authenticated
// Session. It never retries: every failure is returned to the caller.
type Client struct {
	siteURL    string
	httpClient *http.Client
	session    *Session
	logger     *slog.Logger
	userAgent  string

	// limiter paces requests; nil means unlimited.
	limiter *rate.Limiter
}

// NewClient creates a client for siteURL, e.g.
// "https://contoso.sharepoint.com/sites/team".
func NewClient(siteURL string, httpClient *http.Client, session *Session, logger *slog.Logger, userAgent string) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Client{
		siteURL:    strings.TrimRight(siteURL, "/"),
		httpClient: httpClient,
		session:    session,
		logger:     logger,
		userAgent:  userAgent,
	}
}

// SetRequestRate limits the client to perSecond requests per second.
// Zero or a negative value removes the limit.
func (c *Client) SetRequestRate(perSecond float64) {
	if perSecond <= 0 {
		c.limiter = nil
		return
	}

	c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
}

// Do executes a GET-style request against the site. The path is appended
// to the site URL. Non-2xx responses are returned as *HTTPError.
// The caller is responsible for closing the response body on success.
func (c *Client) Do(ctx context.Context, method, path string) (*http.Response, error) {
	if c.session == nil {
		return nil, fmt.Errorf("%w: client has no session", ErrAuthentication)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("sharepoint: request canceled: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.siteURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("sharepoint: creating request: %w", err)
	}

	req.Header.Set("X-RequestDigest", c.session.FormDigest())
	req.Header.Set("Cookie", c.session.cookieHeader())
	req.Header.Set("Accept", "application/atom+xml")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("sharepoint: request canceled: %w", ctx.Err())
		}

		return nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, err)
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		c.logger.Debug("request succeeded",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
		)

		return resp, nil
	}

	errBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	resp.Body.Close()

	if readErr != nil {
		errBody = []byte("(failed to read response body)")
	}

	httpErr := &HTTPError{
		Method:     method,
		Path:       path,
		StatusCode: resp.StatusCode,
		RequestID:  resp.Header.Get("SPRequestGuid"),
		Message:    errorMessage(errBody),
		Err:        classifyStatus(resp.StatusCode),
	}

	c.logger.Debug("request failed",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.String("request_id", httpErr.RequestID),
	)

	return nil, httpErr
}

// getBody performs a GET and returns the full response body.
func (c *Client) getBody(ctx context.Context, path string) ([]byte, error) {
	resp, err := c.Do(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrTransport, path, err)
	}

	return body, nil
}

// errorMessage extracts m:message from an OData error body, falling back
// to the raw (truncated) body.
func errorMessage(body []byte) string {
	if msg, err := findElementText(body, nsMetadata, "message"); err == nil && msg != "" {
		return msg
	}

	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorMessage {
		msg = msg[:maxErrorMessage] + "..."
	}

	return msg
}

// encodePathSegments URL-encodes each segment of a slash-separated path.
// Characters like #, ?, %, and spaces are encoded per-segment so the
// resulting path is safe for interpolation into REST URLs.
func encodePathSegments(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}

	return strings.Join(segments, "/")
}

// odataPath prepares a server-relative path for use inside a quoted OData
// string literal: single quotes are doubled, then segments are encoded.
func odataPath(path string) string {
	return encodePathSegments(strings.ReplaceAll(path, "'", "''"))
}
