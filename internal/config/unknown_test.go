package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_UnknownKey_TopLevel(t *testing.T) {
	path := writeTestConfig(t, `
unknown_section = "value"
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config key")
}

func TestLoad_UnknownKey_InSection(t *testing.T) {
	path := writeTestConfig(t, "[report]\nfromat = \"csv\"\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown config key "fromat" in [report]`)
	assert.Contains(t, err.Error(), `did you mean "format"?`)
}

func TestLoad_UnknownKey_TypoInReport(t *testing.T) {
	path := writeTestConfig(t, `
[report]
skip_file = ["*.tmp"]
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "skip_files")
}

func TestLoad_UnknownKey_NoSuggestion(t *testing.T) {
	path := writeTestConfig(t, `
[report]
completely_unrelated_key = true
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config key")
	assert.Contains(t, err.Error(), "valid: ")
	assert.NotContains(t, err.Error(), "did you mean")
}

func TestLoad_UnknownKey_MissingSection(t *testing.T) {
	path := writeTestConfig(t, `format = "csv"`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "it belongs in [report]")
}

func TestLoad_UnknownKey_MisspelledSection(t *testing.T) {
	path := writeTestConfig(t, `
[reprot]
format = "csv"
output = "x.csv"
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did you mean [report]?")
	assert.Equal(t, 1, strings.Count(err.Error(), "reprot"), "reported once per section")
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"abc", "abc", 0},
		{"abc", "abd", 1},
		{"skip_file", "skip_files", 1},
		{"fromat", "format", 2},
		{"completely_different", "xyz", 19},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.expected, levenshtein(tt.a, tt.b))
		})
	}
}

func TestClosestMatch_Found(t *testing.T) {
	known := []string{"max_depth", "office_extensions", "skip_files"}
	assert.Equal(t, "skip_files", closestMatch("skip_file", known))
	assert.Equal(t, "max_depth", closestMatch("maxdepth", known))
}

func TestClosestMatch_NotFound(t *testing.T) {
	known := []string{"skip_files", "max_depth"}
	assert.Equal(t, "", closestMatch("completely_unrelated", known))
}

func TestSectionOf(t *testing.T) {
	assert.Equal(t, "logging", sectionOf("log_level"))
	assert.Equal(t, "network", sectionOf("requests_per_second"))
	assert.Equal(t, "", sectionOf("password"))
}
