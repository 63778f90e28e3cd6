package config

// Default values for configuration options. These are "layer 0" of the
// override chain.
const (
	defaultSTSEndpoint       = "https://login.microsoftonline.com/extSTS.srf"
	defaultUserAgent         = "Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:17.0) Gecko/20100101 Firefox/17.0"
	defaultRequestTimeout    = "60s"
	defaultRequestsPerSecond = 0
	defaultFormat            = "xlsx"
	defaultMaxDepth          = -1
	defaultLogLevel          = "info"
	defaultLogFormat         = "auto"
)

// defaultOfficeExtensions are the file extensions whose document
// properties are fetched.
var defaultOfficeExtensions = []string{".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx"}

// DefaultConfig returns a Config populated with all default values.
// It is the starting point for TOML decoding, so unset fields keep their
// defaults, and the fallback when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Auth:    defaultAuthConfig(),
		Network: defaultNetworkConfig(),
		Report:  defaultReportConfig(),
		Logging: defaultLoggingConfig(),
	}
}

func defaultAuthConfig() AuthConfig {
	return AuthConfig{
		STSEndpoint: defaultSTSEndpoint,
		UserAgent:   defaultUserAgent,
	}
}

func defaultNetworkConfig() NetworkConfig {
	return NetworkConfig{
		RequestTimeout:    defaultRequestTimeout,
		RequestsPerSecond: defaultRequestsPerSecond,
	}
}

func defaultReportConfig() ReportConfig {
	return ReportConfig{
		Format:           defaultFormat,
		MaxDepth:         defaultMaxDepth,
		OfficeExtensions: append([]string(nil), defaultOfficeExtensions...),
	}
}

func defaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		LogLevel:  defaultLogLevel,
		LogFormat: defaultLogFormat,
	}
}
