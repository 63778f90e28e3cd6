package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// Validation range constants.
const (
	minRequestTimeout = 1 * time.Second
	unlimitedDepth    = -1
)

// Validate checks all configuration values and returns all errors found.
// It accumulates every error rather than stopping at the first, so users
// see a complete report and can fix all issues in one pass.
func Validate(cfg *Config) error {
	var errs []error

	errs = append(errs, validateAuth(&cfg.Auth)...)
	errs = append(errs, validateNetwork(&cfg.Network)...)
	errs = append(errs, validateReport(&cfg.Report)...)
	errs = append(errs, validateLogging(&cfg.Logging)...)

	return errors.Join(errs...)
}

func validateAuth(a *AuthConfig) []error {
	var errs []error

	u, err := url.Parse(a.STSEndpoint)
	if err != nil || !u.IsAbs() || u.Host == "" {
		errs = append(errs, fmt.Errorf("sts_endpoint: must be an absolute URL, got %q", a.STSEndpoint))
	}

	if strings.TrimSpace(a.UserAgent) == "" {
		errs = append(errs, errors.New("user_agent: must not be empty"))
	}

	return errs
}

func validateNetwork(n *NetworkConfig) []error {
	var errs []error

	errs = append(errs, validateDurationMin("request_timeout", n.RequestTimeout, minRequestTimeout)...)

	if n.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("requests_per_second: must be >= 0, got %g", n.RequestsPerSecond))
	}

	return errs
}

var validFormats = map[string]bool{
	"xlsx":   true,
	"csv":    true,
	"sqlite": true,
}

func validateReport(r *ReportConfig) []error {
	var errs []error

	if !validFormats[strings.ToLower(r.Format)] {
		errs = append(errs, fmt.Errorf("format: must be one of xlsx, csv, sqlite; got %q", r.Format))
	}

	if r.MaxDepth < unlimitedDepth {
		errs = append(errs, fmt.Errorf("max_depth: must be >= 0 or -1 for unlimited, got %d", r.MaxDepth))
	}

	for _, ext := range r.OfficeExtensions {
		if e := strings.TrimPrefix(strings.TrimSpace(ext), "."); e == "" || strings.ContainsAny(e, "/\\.") {
			errs = append(errs, fmt.Errorf("office_extensions: invalid extension %q", ext))
		}
	}

	for _, p := range r.SkipFiles {
		if !doublestar.ValidatePattern(p) {
			errs = append(errs, fmt.Errorf("skip_files: invalid glob pattern %q", p))
		}
	}

	return errs
}

func validateDurationMin(field, value string, minimum time.Duration) []error {
	d, err := time.ParseDuration(value)
	if err != nil {
		return []error{fmt.Errorf("%s: invalid duration %q: %w", field, value, err)}
	}

	if d < minimum {
		return []error{fmt.Errorf("%s: must be >= %s, got %s", field, minimum, d)}
	}

	return nil
}

func validateLogging(l *LoggingConfig) []error {
	var errs []error

	errs = append(errs, validateLogLevel(l.LogLevel)...)
	errs = append(errs, validateLogFormat(l.LogFormat)...)

	return errs
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

func validateLogLevel(level string) []error {
	if !validLogLevels[level] {
		return []error{fmt.Errorf("log_level: must be one of debug, info, warn, error; got %q", level)}
	}

	return nil
}

var validLogFormats = map[string]bool{
	"auto": true,
	"text": true,
	"json": true,
}

func validateLogFormat(format string) []error {
	if !validLogFormats[format] {
		return []error{fmt.Errorf("log_format: must be one of auto, text, json; got %q", format)}
	}

	return nil
}
