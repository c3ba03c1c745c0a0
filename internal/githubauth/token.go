package githubauth

import (
	"strings"
)

// Environment variable names used by GitHub authentication helpers.
const (
	EnvGitHubCLIToken = "GH_TOKEN"
	EnvGitHubToken    = "GITHUB_TOKEN"
	EnvGitHubAPIToken = "GITHUB_API_TOKEN"
	EnvGitHubUsername = "GITHUB_USERNAME"
	EnvGitHubPassword = "GITHUB_PASSWORD"
)

var tokenPreference = []string{
	EnvGitHubCLIToken,
	EnvGitHubToken,
	EnvGitHubAPIToken,
}

// EnvironmentLookup obtains an environment variable value.
type EnvironmentLookup func(key string) (string, bool)

// ResolveToken returns the first non-empty GitHub authentication token observed
// through the provided lookup, following GH_TOKEN, GITHUB_TOKEN, GITHUB_API_TOKEN order.
func ResolveToken(environmentLookup EnvironmentLookup) (string, bool) {
	for _, key := range tokenPreference {
		if value, ok := lookup(environmentLookup, key); ok {
			return value, true
		}
	}
	return "", false
}

// MapLookup adapts a static map into an EnvironmentLookup.
func MapLookup(environment map[string]string) EnvironmentLookup {
	return func(key string) (string, bool) {
		if environment == nil {
			return "", false
		}
		value, exists := environment[key]
		return value, exists
	}
}

func lookup(environmentLookup EnvironmentLookup, key string) (string, bool) {
	if environmentLookup == nil {
		return "", false
	}
	value, exists := environmentLookup(key)
	if !exists {
		return "", false
	}
	value = strings.TrimSpace(value)
	if len(value) == 0 {
		return "", false
	}
	return value, true
}
