package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// maxLevenshteinDistance is the maximum edit distance for "did you mean?"
// suggestions when unknown config keys are detected.
const maxLevenshteinDistance = 3

// knownKeys maps each section to the keys valid inside it.
var knownKeys = map[string][]string{
	"auth":    {"sts_endpoint", "user_agent", "username"},
	"network": {"request_timeout", "requests_per_second"},
	"report":  {"format", "output", "max_depth", "office_extensions", "skip_files"},
	"logging": {"log_level", "log_format"},
}

// knownSectionsList is sorted for deterministic suggestions when two
// candidates have the same edit distance.
var knownSectionsList = func() []string {
	sections := make([]string, 0, len(knownKeys))
	for s := range knownKeys {
		sections = append(sections, s)
	}

	sort.Strings(sections)

	return sections
}()

// checkUnknownKeys inspects TOML metadata for undecoded keys and returns
// an error with "did you mean?" suggestions for each unknown key.
func checkUnknownKeys(md *toml.MetaData) error {
	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}

	var errs []error

	// An unknown table shows up once per key inside it; report it once.
	reported := make(map[string]bool)

	for _, key := range undecoded {
		if _, known := knownKeys[key[0]]; !known {
			if reported[key[0]] {
				continue
			}

			reported[key[0]] = true
			key = key[:1]
		}

		errs = append(errs, buildKeyError(key))
	}

	return errors.Join(errs...)
}

// buildKeyError describes an unknown key, suggesting the closest known key
// within its section, or the closest section for unknown sections and
// top-level keys.
func buildKeyError(key toml.Key) error {
	section := key[0]

	keys, known := knownKeys[section]
	if !known {
		if owner := sectionOf(section); owner != "" {
			return fmt.Errorf("unknown config key %q, it belongs in [%s]", section, owner)
		}
	}

	if !known || len(key) == 1 {
		if suggestion := closestMatch(section, knownSectionsList); suggestion != "" {
			return fmt.Errorf("unknown config key %q, did you mean [%s]?", key.String(), suggestion)
		}

		return fmt.Errorf("unknown config key %q", key.String())
	}

	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)

	if suggestion := closestMatch(key[1], sorted); suggestion != "" {
		return fmt.Errorf("unknown config key %q in [%s], did you mean %q?", key[1], section, suggestion)
	}

	return fmt.Errorf("unknown config key %q in [%s] (valid: %s)", key[1], section, strings.Join(sorted, ", "))
}

// sectionOf returns the section that defines key, or "".
func sectionOf(key string) string {
	for _, section := range knownSectionsList {
		for _, k := range knownKeys[section] {
			if k == key {
				return section
			}
		}
	}

	return ""
}

// closestMatch finds the closest known key by Levenshtein distance.
// Returns empty string if no match is within maxLevenshteinDistance.
func closestMatch(unknown string, known []string) string {
	best := ""
	bestDist := maxLevenshteinDistance + 1

	for _, k := range known {
		d := levenshtein(unknown, k)
		if d < bestDist {
			bestDist = d
			best = k
		}
	}

	if bestDist <= maxLevenshteinDistance {
		return best
	}

	return ""
}

// levenshtein computes the edit distance between two strings.
func levenshtein(a, b string) int {
	if a == "" {
		return len(b)
	}

	if b == "" {
		return len(a)
	}

	// Single-row optimization avoids allocating a full matrix.
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for j := range prev {
		prev[j] = j
	}

	for i := 0; i < len(a); i++ {
		curr[0] = i + 1

		for j := 0; j < len(b); j++ {
			cost := 1
			if a[i] == b[j] {
				cost = 0
			}

			curr[j+1] = min(curr[j]+1, prev[j+1]+1, prev[j]+cost)
		}

		prev, curr = curr, prev
	}

	return prev[len(b)]
}
