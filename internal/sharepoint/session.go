package sharepoint

import (
	"fmt"
	"log/slog"
)

// Session is the authenticated state produced by Authenticate. It is a
// credential: it is never written to disk and its secrets never appear in
// logs or fmt output.
type Session struct {
	serviceURL    string
	rtFa          string
	fedAuth       string
	securityToken string
	formDigest    string
}

// NewSession builds a Session from already obtained values. Authenticate
// is the normal way to get one.
func NewSession(serviceURL, rtFa, fedAuth, securityToken, formDigest string) *Session {
	return &Session{
		serviceURL:    serviceURL,
		rtFa:          rtFa,
		fedAuth:       fedAuth,
		securityToken: securityToken,
		formDigest:    formDigest,
	}
}

func (s *Session) ServiceURL() string    { return s.serviceURL }
func (s *Session) RtFa() string          { return s.rtFa }
func (s *Session) FedAuth() string       { return s.fedAuth }
func (s *Session) SecurityToken() string { return s.securityToken }
func (s *Session) FormDigest() string    { return s.formDigest }

// cookieHeader renders the two session cookies for a Cookie header.
func (s *Session) cookieHeader() string {
	return "rtFa=" + s.rtFa + "; FedAuth=" + s.fedAuth
}

// String implements fmt.Stringer without exposing secrets.
func (s *Session) String() string {
	return fmt.Sprintf("Session{service=%s rtFa=%s fedAuth=%s token=%s digest=%s}",
		s.serviceURL, redact(s.rtFa), redact(s.fedAuth), redact(s.securityToken), redact(s.formDigest))
}

// LogValue implements slog.LogValuer so a Session passed to a logger is
// rendered with its secrets redacted.
func (s *Session) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("service", s.serviceURL),
		slog.String("rtfa", redact(s.rtFa)),
		slog.String("fedauth", redact(s.fedAuth)),
		slog.String("token", redact(s.securityToken)),
		slog.String("digest", redact(s.formDigest)),
	)
}

// redact reports only whether a secret is present and its length.
func redact(secret string) string {
	if secret == "" {
		return "<empty>"
	}

	return fmt.Sprintf("<redacted len=%d>", len(secret))
}
