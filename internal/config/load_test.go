package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	err := os.WriteFile(path, []byte(content), 0o600)
	require.NoError(t, err)

	return path
}

func ptr[T any](v T) *T {
	return &v
}

func TestLoad_ValidFullConfig(t *testing.T) {
	tomlContent := `
[auth]
sts_endpoint = "https://login.example.com/extSTS.srf"
user_agent = "spreport-test/1.0"
username = "user@contoso.onmicrosoft.com"

[network]
request_timeout = "2m"
requests_per_second = 4.5

[report]
format = "sqlite"
output = "/tmp/report.db"
max_depth = 3
office_extensions = [".docx", ".pdf"]
skip_files = ["~$*", "**/Forms/**"]

[logging]
log_level = "debug"
log_format = "json"
`
	cfg, err := Load(writeTestConfig(t, tomlContent))
	require.NoError(t, err)

	assert.Equal(t, "https://login.example.com/extSTS.srf", cfg.Auth.STSEndpoint)
	assert.Equal(t, "spreport-test/1.0", cfg.Auth.UserAgent)
	assert.Equal(t, "user@contoso.onmicrosoft.com", cfg.Auth.Username)
	assert.Equal(t, "2m", cfg.Network.RequestTimeout)
	assert.InDelta(t, 4.5, cfg.Network.RequestsPerSecond, 0.001)
	assert.Equal(t, "sqlite", cfg.Report.Format)
	assert.Equal(t, "/tmp/report.db", cfg.Report.Output)
	assert.Equal(t, 3, cfg.Report.MaxDepth)
	assert.Equal(t, []string{".docx", ".pdf"}, cfg.Report.OfficeExtensions)
	assert.Equal(t, []string{"~$*", "**/Forms/**"}, cfg.Report.SkipFiles)
	assert.Equal(t, "debug", cfg.Logging.LogLevel)
	assert.Equal(t, "json", cfg.Logging.LogFormat)
}

func TestLoad_PartialConfig_UsesDefaults(t *testing.T) {
	cfg, err := Load(writeTestConfig(t, "[report]\nformat = \"csv\"\n"))
	require.NoError(t, err)

	assert.Equal(t, "csv", cfg.Report.Format)
	assert.Equal(t, -1, cfg.Report.MaxDepth)
	assert.Equal(t, "60s", cfg.Network.RequestTimeout)
	assert.Equal(t, "info", cfg.Logging.LogLevel)
}

func TestLoad_MalformedTOML(t *testing.T) {
	_, err := Load(writeTestConfig(t, "[report\nformat = "))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestLoad_ValidationError(t *testing.T) {
	_, err := Load(writeTestConfig(t, "[report]\nmax_depth = -5\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
	assert.Contains(t, err.Error(), "max_depth")
}

func TestLoadOrDefault_FileExists(t *testing.T) {
	cfg, err := LoadOrDefault(writeTestConfig(t, "[logging]\nlog_level = \"warn\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.LogLevel)
}

func TestLoadOrDefault_FileNotFound(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestResolve_NoConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")

	r, err := Resolve(EnvOverrides{}, CLIOverrides{ConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, path, r.ConfigPath)
	assert.Equal(t, *DefaultConfig(), r.Config)
}

func TestResolve_CLIConfigPathOverridesEnv(t *testing.T) {
	envPath := writeTestConfig(t, "[report]\nformat = \"csv\"\n")
	cliPath := writeTestConfig(t, "[report]\nformat = \"sqlite\"\n")

	r, err := Resolve(EnvOverrides{ConfigPath: envPath}, CLIOverrides{ConfigPath: cliPath})
	require.NoError(t, err)
	assert.Equal(t, cliPath, r.ConfigPath)
	assert.Equal(t, "sqlite", r.Report.Format)
}

func TestResolve_EnvConfigPath(t *testing.T) {
	envPath := writeTestConfig(t, "[report]\nformat = \"csv\"\n")

	r, err := Resolve(EnvOverrides{ConfigPath: envPath}, CLIOverrides{})
	require.NoError(t, err)
	assert.Equal(t, "csv", r.Report.Format)
}

func TestResolve_LayerPrecedence(t *testing.T) {
	path := writeTestConfig(t, `
[auth]
username = "file@contoso.onmicrosoft.com"

[report]
format = "csv"
output = "file.csv"
max_depth = 2
`)

	// File only.
	r, err := Resolve(EnvOverrides{}, CLIOverrides{ConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, "file@contoso.onmicrosoft.com", r.Auth.Username)

	// Env beats file.
	env := EnvOverrides{Username: "env@contoso.onmicrosoft.com"}
	r, err = Resolve(env, CLIOverrides{ConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, "env@contoso.onmicrosoft.com", r.Auth.Username)

	// CLI beats env and file.
	r, err = Resolve(env, CLIOverrides{
		ConfigPath: path,
		Username:   ptr("cli@contoso.onmicrosoft.com"),
		Format:     ptr("xlsx"),
		Output:     ptr("cli.xlsx"),
		MaxDepth:   ptr(0),
	})
	require.NoError(t, err)
	assert.Equal(t, "cli@contoso.onmicrosoft.com", r.Auth.Username)
	assert.Equal(t, "xlsx", r.Report.Format)
	assert.Equal(t, "cli.xlsx", r.Report.Output)
	assert.Equal(t, 0, r.Report.MaxDepth, "explicit zero overrides the file")
}

func TestResolve_InvalidCLIValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")

	_, err := Resolve(EnvOverrides{}, CLIOverrides{ConfigPath: path, Format: ptr("pdf")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "format")
}

func TestResolve_InvalidConfigFile(t *testing.T) {
	path := writeTestConfig(t, "[report]\nfromat = \"csv\"\n")

	_, err := Resolve(EnvOverrides{}, CLIOverrides{ConfigPath: path})
	require.Error(t, err)
}
