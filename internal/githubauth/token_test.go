package githubauth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveTokenPreference(testInstance *testing.T) {
	testCases := []struct {
		name          string
		environment   map[string]string
		expectedToken string
		expectedFound bool
	}{
		{
			name:          "cli_token_preferred",
			environment:   map[string]string{EnvGitHubCLIToken: "cli", EnvGitHubToken: "gh", EnvGitHubAPIToken: "api"},
			expectedToken: "cli",
			expectedFound: true,
		},
		{
			name:          "github_token_fallback",
			environment:   map[string]string{EnvGitHubToken: "gh", EnvGitHubAPIToken: "api"},
			expectedToken: "gh",
			expectedFound: true,
		},
		{
			name:          "api_token_fallback",
			environment:   map[string]string{EnvGitHubCLIToken: "   ", EnvGitHubAPIToken: " api "},
			expectedToken: "api",
			expectedFound: true,
		},
		{
			name:          "no_token",
			environment:   map[string]string{},
			expectedFound: false,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			token, found := ResolveToken(MapLookup(testCase.environment))
			require.Equal(subtest, testCase.expectedFound, found)
			require.Equal(subtest, testCase.expectedToken, token)
		})
	}
}

func TestParseTokenSource(testInstance *testing.T) {
	testCases := []struct {
		name           string
		value          string
		expectedSource TokenSourceConfiguration
		expectError    bool
	}{
		{name: "bare_environment", value: "MY_TOKEN", expectedSource: TokenSourceConfiguration{Type: TokenSourceTypeEnvironment, Reference: "MY_TOKEN"}},
		{name: "explicit_environment", value: "env:MY_TOKEN", expectedSource: TokenSourceConfiguration{Type: TokenSourceTypeEnvironment, Reference: "MY_TOKEN"}},
		{name: "file", value: "FILE: /tmp/token ", expectedSource: TokenSourceConfiguration{Type: TokenSourceTypeFile, Reference: "/tmp/token"}},
		{name: "empty", value: "  ", expectError: true},
		{name: "missing_environment_name", value: "env:", expectError: true},
		{name: "missing_file_path", value: "file:", expectError: true},
		{name: "unsupported", value: "vault:secret", expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			source, parseError := ParseTokenSource(testCase.value)
			if testCase.expectError {
				require.Error(subtest, parseError)
				return
			}
			require.NoError(subtest, parseError)
			require.Equal(subtest, testCase.expectedSource, source)
		})
	}
}
