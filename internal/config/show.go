package config

import (
	"fmt"
	"io"
	"strings"
)

// RenderEffective writes the resolved configuration as an annotated summary
// to w. This powers the "config show" command.
func RenderEffective(r *Resolved, w io.Writer) error {
	ew := &errWriter{w: w}

	ew.printf("# Effective configuration (file: %s)\n\n", r.ConfigPath)

	renderAuthSection(ew, &r.Auth)
	renderNetworkSection(ew, &r.Network)
	renderReportSection(ew, &r.Report)
	renderLoggingSection(ew, &r.Logging)

	return ew.err
}

// errWriter wraps an io.Writer and captures the first write error.
// Subsequent writes after an error are no-ops.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}

	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func renderAuthSection(ew *errWriter, a *AuthConfig) {
	ew.printf("[auth]\n")
	ew.printf("  sts_endpoint = %q\n", a.STSEndpoint)
	ew.printf("  user_agent   = %q\n", a.UserAgent)

	if a.Username != "" {
		ew.printf("  username     = %q\n", a.Username)
	}

	ew.printf("\n")
}

func renderNetworkSection(ew *errWriter, n *NetworkConfig) {
	ew.printf("[network]\n")
	ew.printf("  request_timeout     = %q\n", n.RequestTimeout)
	ew.printf("  requests_per_second = %g\n", n.RequestsPerSecond)
	ew.printf("\n")
}

func renderReportSection(ew *errWriter, r *ReportConfig) {
	ew.printf("[report]\n")
	ew.printf("  format    = %q\n", r.Format)

	if r.Output != "" {
		ew.printf("  output    = %q\n", r.Output)
	}

	ew.printf("  max_depth = %d\n", r.MaxDepth)
	ew.printf("  office_extensions = [%s]\n", joinQuoted(r.OfficeExtensions))

	if len(r.SkipFiles) > 0 {
		ew.printf("  skip_files = [%s]\n", joinQuoted(r.SkipFiles))
	}

	ew.printf("\n")
}

func renderLoggingSection(ew *errWriter, l *LoggingConfig) {
	ew.printf("[logging]\n")
	ew.printf("  log_level  = %q\n", l.LogLevel)
	ew.printf("  log_format = %q\n", l.LogFormat)
}

// joinQuoted formats a string slice as comma-separated quoted values.
func joinQuoted(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("%q", item)
	}

	return strings.Join(quoted, ", ")
}
