// Package testutil provides shared test environment helpers for E2E and
// integration tests. It depends only on stdlib so that E2E tests (which
// cannot import internal/) can use it.
package testutil

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Environment variables read by the live tests.
const (
	EnvTestURL      = "SPREPORT_TEST_URL"
	EnvTestUsername = "SPREPORT_TEST_USERNAME"
	EnvTestPassword = "SPREPORT_TEST_PASSWORD"
	EnvAllowedSites = "SPREPORT_ALLOWED_TEST_SITES"
)

// LoadDotEnv reads KEY=VALUE pairs from a .env file at the given path.
// Missing file is not an error (CI sets env vars directly).
// Existing env vars take precedence over .env values.
func LoadDotEnv(envPath string) {
	f, err := os.Open(envPath)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}

		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		value = strings.Trim(value, "\"'")

		// Env vars take precedence over .env file.
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}

// LiveSite is the SharePoint folder and account the live tests run against.
type LiveSite struct {
	URL      string
	Username string
	Password string
}

// LookupLiveSite returns the configured live site, or false when the
// address or credentials are missing.
func LookupLiveSite() (LiveSite, bool) {
	s := LiveSite{
		URL:      os.Getenv(EnvTestURL),
		Username: os.Getenv(EnvTestUsername),
		Password: os.Getenv(EnvTestPassword),
	}

	return s, s.URL != "" && s.Username != "" && s.Password != ""
}

// ValidateAllowlist crashes the process if SPREPORT_ALLOWED_TEST_SITES is
// not set or does not list siteURL. Live tests only read, but they sign in
// with real credentials and must never hit a site nobody approved.
func ValidateAllowlist(siteURL string) {
	allowlist := os.Getenv(EnvAllowedSites)
	if allowlist == "" {
		fmt.Fprintf(os.Stderr, "FATAL: %s not set\n", EnvAllowedSites)
		fmt.Fprintln(os.Stderr, "Set it in .env or as an environment variable.")
		fmt.Fprintf(os.Stderr, "Example: %s=https://contoso.sharepoint.com/sites/test\n", EnvAllowedSites)
		os.Exit(1)
	}

	for _, a := range strings.Split(allowlist, ",") {
		if strings.TrimRight(strings.TrimSpace(a), "/") == strings.TrimRight(siteURL, "/") {
			return
		}
	}

	fmt.Fprintf(os.Stderr, "FATAL: %s=%q is not in %s=%q\n", EnvTestURL, siteURL, EnvAllowedSites, allowlist)
	os.Exit(1)
}

// FindModuleRoot walks up from the current directory to find go.mod.
// Returns the fallback if the root is not found.
func FindModuleRoot(fallback string) string {
	dir, err := os.Getwd()
	if err != nil {
		return fallback
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return fallback
		}

		dir = parent
	}
}
