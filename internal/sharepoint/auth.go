package sharepoint

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
)

// Defaults for AuthConfig.
const (
	DefaultSTSEndpoint = "https://login.microsoftonline.com/extSTS.srf"
	DefaultUserAgent   = "Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:17.0) Gecko/20100101 Firefox/17.0"
)

// Handshake step names, as reported in AuthError.Step.
const (
	StepConfig    = "config"
	StepBootstrap = "bootstrap"
	StepToken     = "security token"
	StepSignIn    = "sign-in"
	StepDigest    = "digest"
)

// Cookies issued by the sign-in endpoint.
const (
	cookieRtFa    = "rtFa"
	cookieFedAuth = "FedAuth"
)

// maxAuthBodySize caps how much of a handshake response is read.
const maxAuthBodySize = 1 << 20

//go:embed sts_request.xml
var stsRequestTemplate string

// AuthConfig carries everything Authenticate needs.
type AuthConfig struct {
	ServiceURL  string // e.g. https://contoso.sharepoint.com
	UserAgent   string // empty means DefaultUserAgent
	STSEndpoint string // empty means DefaultSTSEndpoint
	Username    string
	Password    string
}

// handshake owns the state of a single sign-in attempt. The cookie jar
// lives and dies with it.
type handshake struct {
	cfg     AuthConfig
	service *url.URL
	jar     http.CookieJar
	client  *http.Client
	logger  *slog.Logger
}

// Authenticate performs the federated sign-in handshake against
// cfg.ServiceURL and returns the resulting Session. The four steps run
// strictly in order; the first failure ends the attempt with an *AuthError
// and no further request is sent.
func Authenticate(ctx context.Context, httpClient *http.Client, cfg AuthConfig, logger *slog.Logger) (*Session, error) {
	h, err := newHandshake(httpClient, cfg, logger)
	if err != nil {
		return nil, &AuthError{Step: StepConfig, Err: err}
	}

	h.logger.Info("authenticating",
		slog.String("service", cfg.ServiceURL),
		slog.String("username", cfg.Username),
	)

	if err := h.bootstrap(ctx); err != nil {
		return nil, &AuthError{Step: StepBootstrap, Err: err}
	}

	token, err := h.securityToken(ctx)
	if err != nil {
		return nil, &AuthError{Step: StepToken, Err: err}
	}

	rtFa, fedAuth, err := h.signIn(ctx, token)
	if err != nil {
		return nil, &AuthError{Step: StepSignIn, Err: err}
	}

	digest, err := h.formDigest(ctx, token)
	if err != nil {
		return nil, &AuthError{Step: StepDigest, Err: err}
	}

	session := NewSession(h.cfg.ServiceURL, rtFa, fedAuth, token, digest)
	h.logger.Info("authenticated", slog.Any("session", session))

	return session, nil
}

func newHandshake(httpClient *http.Client, cfg AuthConfig, logger *slog.Logger) (*handshake, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	cfg.ServiceURL = strings.TrimRight(cfg.ServiceURL, "/")

	service, err := url.Parse(cfg.ServiceURL)
	if err != nil {
		return nil, fmt.Errorf("parsing service URL: %w", err)
	}

	if service.Scheme == "" || service.Host == "" {
		return nil, fmt.Errorf("service URL %q must be absolute", cfg.ServiceURL)
	}

	if cfg.Username == "" {
		return nil, errors.New("username is required")
	}

	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	if cfg.STSEndpoint == "" {
		cfg.STSEndpoint = DefaultSTSEndpoint
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	// Each step inspects its own response, so redirects are not followed.
	client := *httpClient
	client.Jar = jar
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &handshake{
		cfg:     cfg,
		service: service,
		jar:     jar,
		client:  &client,
		logger:  logger,
	}, nil
}

// bootstrap fetches the sign-in entry page so the service can seed the jar.
func (h *handshake) bootstrap(ctx context.Context) error {
	status, _, err := h.send(ctx, http.MethodGet,
		h.cfg.ServiceURL+"/_layouts/15/Authenticate.aspx?Source=sharepoint", "", nil)
	if err != nil {
		return err
	}

	if status >= http.StatusBadRequest {
		return fmt.Errorf("%w: HTTP %d", ErrTransport, status)
	}

	return nil
}

// securityToken exchanges the credentials for a binary security token at
// the STS endpoint.
func (h *handshake) securityToken(ctx context.Context) (string, error) {
	if strings.TrimSpace(stsRequestTemplate) == "" {
		return "", errors.New("security token request template is empty")
	}

	replacer := strings.NewReplacer(
		"${USERNAME}", xmlEscape(h.cfg.Username),
		"${PASSWORD}", xmlEscape(h.cfg.Password),
		"${ENDPOINT}", xmlEscape(h.cfg.ServiceURL),
	)

	_, body, err := h.send(ctx, http.MethodPost, h.cfg.STSEndpoint,
		"application/soap+xml; charset=utf-8", strings.NewReader(replacer.Replace(stsRequestTemplate)))
	if err != nil {
		return "", err
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return "", errors.New("empty response from security token service")
	}

	token, err := findElementText(body, nsWSSE, "BinarySecurityToken")
	if err != nil && !errors.Is(err, errElementNotFound) {
		return "", malformed("security token response: %v", err)
	}

	if token == "" {
		if reason, ferr := findElementText(body, nsSOAP, "Text"); ferr == nil && reason != "" {
			return "", fmt.Errorf("response has no wsse:BinarySecurityToken (fault: %s)", reason)
		}

		return "", errors.New("response has no wsse:BinarySecurityToken")
	}

	return token, nil
}

// signIn posts the token to the sign-in endpoint and returns the rtFa and
// FedAuth cookie values it sets.
func (h *handshake) signIn(ctx context.Context, token string) (rtFa, fedAuth string, err error) {
	status, _, err := h.send(ctx, http.MethodPost,
		h.cfg.ServiceURL+"/_forms/default.aspx?wa=wsignin1.0",
		"application/x-www-form-urlencoded", strings.NewReader(token))
	if err != nil {
		return "", "", err
	}

	for _, c := range h.jar.Cookies(h.service) {
		switch c.Name {
		case cookieRtFa:
			rtFa = c.Value
		case cookieFedAuth:
			fedAuth = c.Value
		}
	}

	if rtFa == "" {
		return "", "", fmt.Errorf("cookie %s not set (HTTP %d)", cookieRtFa, status)
	}

	if fedAuth == "" {
		return "", "", fmt.Errorf("cookie %s not set (HTTP %d)", cookieFedAuth, status)
	}

	return rtFa, fedAuth, nil
}

// formDigest reads d:FormDigestValue from the context info endpoint.
func (h *handshake) formDigest(ctx context.Context, token string) (string, error) {
	status, body, err := h.send(ctx, http.MethodPost, h.cfg.ServiceURL+"/_api/contextinfo",
		"application/x-www-form-urlencoded", strings.NewReader(token))
	if err != nil {
		return "", err
	}

	if status >= http.StatusBadRequest {
		return "", fmt.Errorf("%w: HTTP %d", ErrTransport, status)
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return "", errors.New("empty context info response")
	}

	digest, err := findElementText(body, nsData, "FormDigestValue")
	if err != nil && !errors.Is(err, errElementNotFound) {
		return "", malformed("context info response: %v", err)
	}

	if digest == "" {
		return "", errors.New("response has no d:FormDigestValue")
	}

	return digest, nil
}

// send issues one handshake request and returns its status and body.
func (h *handshake) send(ctx context.Context, method, rawURL, contentType string, body io.Reader) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", h.cfg.UserAgent)

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, nil, fmt.Errorf("request canceled: %w", ctx.Err())
		}

		return 0, nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, method, redactQuery(rawURL), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAuthBodySize))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: reading response: %w", ErrTransport, err)
	}

	h.logger.Debug("handshake response",
		slog.String("method", method),
		slog.String("url", redactQuery(rawURL)),
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(data)),
	)

	return resp.StatusCode, data, nil
}

// redactQuery drops the query string from a URL for logging.
func redactQuery(rawURL string) string {
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		return rawURL[:i]
	}

	return rawURL
}

func xmlEscape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))

	return b.String()
}
