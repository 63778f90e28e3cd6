// Package config implements TOML configuration loading, validation, and
// platform-specific path resolution for spreport. It supports a four-layer
// override chain (defaults -> config file -> environment -> CLI flags).
package config

import "time"

// Config is the top-level configuration structure parsed from a TOML file.
type Config struct {
	Auth    AuthConfig    `toml:"auth"`
	Network NetworkConfig `toml:"network"`
	Report  ReportConfig  `toml:"report"`
	Logging LoggingConfig `toml:"logging"`
}

// AuthConfig controls the federated sign-in handshake. The password is never
// read from the config file.
type AuthConfig struct {
	STSEndpoint string `toml:"sts_endpoint"`
	UserAgent   string `toml:"user_agent"`
	Username    string `toml:"username"`
}

// NetworkConfig controls HTTP timeouts and request pacing.
// RequestsPerSecond of 0 disables pacing.
type NetworkConfig struct {
	RequestTimeout    string  `toml:"request_timeout"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// Timeout returns the parsed request timeout. Unparsable values yield 0;
// Validate rejects them.
func (n *NetworkConfig) Timeout() time.Duration {
	d, err := time.ParseDuration(n.RequestTimeout)
	if err != nil {
		return 0
	}

	return d
}

// ReportConfig controls the traversal bound and the report output.
type ReportConfig struct {
	Format           string   `toml:"format"`
	Output           string   `toml:"output"`
	MaxDepth         int      `toml:"max_depth"`
	OfficeExtensions []string `toml:"office_extensions"`
	SkipFiles        []string `toml:"skip_files"`
}

// LoggingConfig controls log output behavior.
type LoggingConfig struct {
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

// CLIOverrides holds values from command-line flags that override config
// file and environment settings. Pointer fields distinguish "not specified"
// (nil) from "specified as zero value".
type CLIOverrides struct {
	ConfigPath string
	Username   *string
	Format     *string
	Output     *string
	MaxDepth   *int
}
