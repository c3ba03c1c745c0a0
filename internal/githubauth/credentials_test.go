package githubauth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCredentialsResolverResolve(testInstance *testing.T) {
	fileContents := map[string]string{
		"/secrets/token": "  file-token\n",
		"/secrets/empty": "\n",
	}
	fileReader := func(path string) ([]byte, error) {
		contents, exists := fileContents[path]
		if !exists {
			return nil, errors.New("missing file")
		}
		return []byte(contents), nil
	}

	testCases := []struct {
		name                string
		environment         map[string]string
		configuration       CredentialsConfiguration
		expectedCredentials Credentials
		expectedMethod      AuthenticationMethod
		expectError         bool
	}{
		{
			name:                "token_source_file",
			environment:         map[string]string{EnvGitHubToken: "env-token"},
			configuration:       CredentialsConfiguration{TokenSource: "file:/secrets/token"},
			expectedCredentials: Credentials{Token: "file-token"},
			expectedMethod:      AuthenticationMethodToken,
		},
		{
			name:                "token_source_environment",
			environment:         map[string]string{"CUSTOM_TOKEN": "custom"},
			configuration:       CredentialsConfiguration{TokenSource: "env:CUSTOM_TOKEN"},
			expectedCredentials: Credentials{Token: "custom"},
			expectedMethod:      AuthenticationMethodToken,
		},
		{
			name:          "token_source_missing_environment",
			environment:   map[string]string{},
			configuration: CredentialsConfiguration{TokenSource: "env:CUSTOM_TOKEN"},
			expectError:   true,
		},
		{
			name:          "token_source_empty_file",
			configuration: CredentialsConfiguration{TokenSource: "file:/secrets/empty"},
			expectError:   true,
		},
		{
			name:          "token_source_unreadable_file",
			configuration: CredentialsConfiguration{TokenSource: "file:/secrets/absent"},
			expectError:   true,
		},
		{
			name:                "environment_token_beats_basic",
			environment:         map[string]string{EnvGitHubToken: "env-token"},
			configuration:       CredentialsConfiguration{Username: "octocat", Password: "secret"},
			expectedCredentials: Credentials{Token: "env-token"},
			expectedMethod:      AuthenticationMethodToken,
		},
		{
			name:                "configured_basic",
			environment:         map[string]string{},
			configuration:       CredentialsConfiguration{Username: "octocat", Password: "secret"},
			expectedCredentials: Credentials{Username: "octocat", Password: "secret"},
			expectedMethod:      AuthenticationMethodBasic,
		},
		{
			name:                "environment_basic",
			environment:         map[string]string{EnvGitHubUsername: "octocat", EnvGitHubPassword: "secret"},
			expectedCredentials: Credentials{Username: "octocat", Password: "secret"},
			expectedMethod:      AuthenticationMethodBasic,
		},
		{
			name:                "username_without_password",
			environment:         map[string]string{},
			configuration:       CredentialsConfiguration{Username: "octocat"},
			expectedCredentials: Credentials{Username: "octocat"},
			expectedMethod:      AuthenticationMethodAnonymous,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			resolver := NewCredentialsResolver(MapLookup(testCase.environment), fileReader)
			credentials, resolveError := resolver.Resolve(testCase.configuration)
			if testCase.expectError {
				require.Error(subtest, resolveError)
				return
			}
			require.NoError(subtest, resolveError)
			require.Equal(subtest, testCase.expectedCredentials, credentials)
			require.Equal(subtest, testCase.expectedMethod, credentials.Method())
		})
	}
}

func TestNewHTTPClientAuthenticatesRequests(testInstance *testing.T) {
	testCases := []struct {
		name             string
		credentials      Credentials
		expectedToken    string
		expectedUsername string
		expectedPassword string
	}{
		{name: "token", credentials: Credentials{Token: "abc123"}, expectedToken: "Bearer abc123"},
		{name: "basic", credentials: Credentials{Username: "octocat", Password: "secret"}, expectedUsername: "octocat", expectedPassword: "secret"},
		{name: "anonymous", credentials: Credentials{}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			var observedRequest *http.Request
			server := httptest.NewServer(http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
				observedRequest = request.Clone(context.Background())
				responseWriter.WriteHeader(http.StatusNoContent)
			}))
			defer server.Close()

			httpClient := NewHTTPClient(context.Background(), testCase.credentials)
			response, requestError := httpClient.Get(server.URL)
			require.NoError(subtest, requestError)
			require.NoError(subtest, response.Body.Close())
			require.NotNil(subtest, observedRequest)

			username, password, hasBasic := observedRequest.BasicAuth()
			switch {
			case len(testCase.expectedToken) > 0:
				require.Equal(subtest, testCase.expectedToken, observedRequest.Header.Get("Authorization"))
			case len(testCase.expectedUsername) > 0:
				require.True(subtest, hasBasic)
				require.Equal(subtest, testCase.expectedUsername, username)
				require.Equal(subtest, testCase.expectedPassword, password)
			default:
				require.Empty(subtest, observedRequest.Header.Get("Authorization"))
			}
		})
	}
}
