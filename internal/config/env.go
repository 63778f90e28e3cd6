package config

import "os"

// Environment variable names for overrides.
const (
	EnvConfig   = "SPREPORT_CONFIG"
	EnvUsername = "SPREPORT_USERNAME"
	EnvPassword = "SPREPORT_PASSWORD"
)

// EnvOverrides holds values derived from environment variables.
type EnvOverrides struct {
	ConfigPath string // SPREPORT_CONFIG: override config file path
	Username   string // SPREPORT_USERNAME: account name
	Password   string // SPREPORT_PASSWORD: account password, never stored in Config
}

// ReadEnvOverrides reads environment variables and returns any overrides found.
// This does not modify the Config; callers apply the relevant fields.
func ReadEnvOverrides() EnvOverrides {
	return EnvOverrides{
		ConfigPath: os.Getenv(EnvConfig),
		Username:   os.Getenv(EnvUsername),
		Password:   os.Getenv(EnvPassword),
	}
}
