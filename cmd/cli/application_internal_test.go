package cli

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/libkeeper/internal/githubapi"
	"github.com/temirov/libkeeper/internal/githubapi/githubapitest"
	"github.com/temirov/libkeeper/internal/shared/sharedtest"
	"github.com/temirov/libkeeper/internal/utils"
)

const (
	testAccountConstant                  = "octo-org"
	testEnvironmentAccountConstant       = "env-org"
	testAccountEnvironmentVariable       = "LIBKEEPER_GITHUB_ACCOUNT"
	testListTypeEnvironmentVariable      = "LIBKEEPER_TOOLS_LIST_TYPE"
	testRepositoryNamesInputConstant     = "blink\n"
	testBlinkRepositoryBodyConstant      = `{"name":"blink","clone_url":"https://github.com/octo-org/blink.git","default_branch":"main","owner":{"login":"octo-org"}}`
	testConfigurationFileNameConstant    = "libkeeper.yaml"
	testConfigurationFileContentConstant = "github:\n  api_url: https://github.example.com/api/v3/\ntools:\n  list:\n    type: Recommended\n"
)

type applicationHarness struct {
	application   *Application
	clientFactory *sharedtest.ClientFactory
	logBuffer     *bytes.Buffer
	fileSystem    afero.Fs
}

func newApplicationHarness(testInstance *testing.T, routes map[string]githubapitest.Route) applicationHarness {
	testInstance.Helper()

	clientFactory := &sharedtest.ClientFactory{Transport: githubapitest.NewTransport(routes)}
	logBuffer := &bytes.Buffer{}
	fileSystem := afero.NewMemMapFs()

	application, applicationError := newApplication(applicationDependencies{
		clientFactory: clientFactory,
		fileSystem:    fileSystem,
		loggerFactory: utils.NewLoggerFactoryWithSink(zapcore.AddSync(logBuffer)),
	})
	require.NoError(testInstance, applicationError)

	return applicationHarness{application: application, clientFactory: clientFactory, logBuffer: logBuffer, fileSystem: fileSystem}
}

func (harness applicationHarness) execute(arguments []string, input string) (string, error) {
	outputBuffer := &bytes.Buffer{}
	harness.application.rootCommand.SetArgs(arguments)
	harness.application.rootCommand.SetIn(strings.NewReader(input))
	harness.application.rootCommand.SetOut(outputBuffer)
	harness.application.rootCommand.SetErr(&bytes.Buffer{})
	executionError := harness.application.Execute()
	return outputBuffer.String(), executionError
}

func blinkRoutes() map[string]githubapitest.Route {
	return map[string]githubapitest.Route{
		githubapitest.RouteKey(http.MethodGet, "repos/octo-org/blink"): {Body: testBlinkRepositoryBodyConstant},
		githubapitest.RouteKey(http.MethodGet, "repos/env-org/blink"):  {Body: testBlinkRepositoryBodyConstant},
	}
}

func TestApplicationRegistersCommands(testInstance *testing.T) {
	harness := newApplicationHarness(testInstance, nil)

	registeredCommands := make([]string, 0)
	for _, subcommand := range harness.application.rootCommand.Commands() {
		registeredCommands = append(registeredCommands, subcommand.Name())
	}
	require.Subset(testInstance, registeredCommands, []string{"find", "properties", "release", "list"})

	for _, flagName := range []string{"config", "log-level", "log-format", "account", "token-source", "username", "password", "api-url"} {
		require.NotNil(testInstance, harness.application.rootCommand.PersistentFlags().Lookup(flagName), flagName)
	}
}

func TestApplicationAccountFlagOverridesEnvironment(testInstance *testing.T) {
	testInstance.Setenv(testAccountEnvironmentVariable, testEnvironmentAccountConstant)

	testCases := []struct {
		name            string
		arguments       []string
		expectedAccount string
	}{
		{
			name:            "environment_account",
			arguments:       []string{"list"},
			expectedAccount: testEnvironmentAccountConstant,
		},
		{
			name:            "flag_account",
			arguments:       []string{"--account", testAccountConstant, "list"},
			expectedAccount: testAccountConstant,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			harness := newApplicationHarness(subtest, blinkRoutes())

			output, executionError := harness.execute(testCase.arguments, testRepositoryNamesInputConstant)
			require.NoError(subtest, executionError)
			require.Equal(subtest, "https://github.com/octo-org/blink.git\tContributed\n", output)
			require.Len(subtest, harness.clientFactory.ObservedConfigurations, 1)
			require.Equal(subtest, testCase.expectedAccount, harness.clientFactory.ObservedConfigurations[0].Account)
			require.Equal(subtest, "https://api.github.com/", harness.clientFactory.ObservedConfigurations[0].APIURL)
		})
	}
}

func TestApplicationLayersConfigurationFileAndEnvironment(testInstance *testing.T) {
	configurationPath := filepath.Join(testInstance.TempDir(), testConfigurationFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationPath, []byte(testConfigurationFileContentConstant), 0o600))

	testCases := []struct {
		name                string
		environmentListType string
		arguments           []string
		expectedOutput      string
		expectedAPIURL      string
	}{
		{
			name:           "file_values",
			arguments:      []string{"--config", configurationPath, "--account", testAccountConstant, "list"},
			expectedOutput: "https://github.com/octo-org/blink.git\tRecommended\n",
			expectedAPIURL: "https://github.example.com/api/v3/",
		},
		{
			name:                "environment_beats_file",
			environmentListType: "Partner",
			arguments:           []string{"--config", configurationPath, "--account", testAccountConstant, "list"},
			expectedOutput:      "https://github.com/octo-org/blink.git\tPartner\n",
			expectedAPIURL:      "https://github.example.com/api/v3/",
		},
		{
			name:           "flags_beat_file",
			arguments:      []string{"--config", configurationPath, "--account", testAccountConstant, "--api-url", "https://ghe.internal/api/v3/", "list", "--type", "Official"},
			expectedOutput: "https://github.com/octo-org/blink.git\tOfficial\n",
			expectedAPIURL: "https://ghe.internal/api/v3/",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			if len(testCase.environmentListType) > 0 {
				subtest.Setenv(testListTypeEnvironmentVariable, testCase.environmentListType)
			}
			harness := newApplicationHarness(subtest, blinkRoutes())

			output, executionError := harness.execute(testCase.arguments, testRepositoryNamesInputConstant)
			require.NoError(subtest, executionError)
			require.Equal(subtest, testCase.expectedOutput, output)
			require.Equal(subtest, configurationPath, harness.application.configurationMetadata.ConfigFileUsed)
			require.Equal(subtest, testCase.expectedAPIURL, harness.clientFactory.ObservedConfigurations[0].APIURL)
		})
	}
}

func TestApplicationLogLevelFlag(testInstance *testing.T) {
	harness := newApplicationHarness(testInstance, blinkRoutes())

	_, executionError := harness.execute([]string{"--log-level", "debug", "--account", testAccountConstant, "list"}, testRepositoryNamesInputConstant)
	require.NoError(testInstance, executionError)
	require.Contains(testInstance, harness.logBuffer.String(), configurationInitializedMessageConstant)
	require.Equal(testInstance, "debug", harness.application.configuration.Common.LogLevel)
}

func TestApplicationRejectsUnsupportedLogFormat(testInstance *testing.T) {
	harness := newApplicationHarness(testInstance, blinkRoutes())

	_, executionError := harness.execute([]string{"--log-format", "xml", "--account", testAccountConstant, "list"}, testRepositoryNamesInputConstant)
	require.Error(testInstance, executionError)
	require.Contains(testInstance, executionError.Error(), "unsupported log format")
	require.Empty(testInstance, harness.clientFactory.ObservedConfigurations)
}

func TestApplicationRequiresAccount(testInstance *testing.T) {
	harness := newApplicationHarness(testInstance, nil)

	_, executionError := harness.execute([]string{"find"}, "")
	require.Error(testInstance, executionError)

	var inputError githubapi.InvalidInputError
	require.ErrorAs(testInstance, executionError, &inputError)
	require.Empty(testInstance, harness.clientFactory.ObservedConfigurations)
}

func TestApplicationGeneratesPropertiesIntoFileSystem(testInstance *testing.T) {
	routes := blinkRoutes()
	routes[githubapitest.RouteKey(http.MethodGet, "users/octo-org")] = githubapitest.Route{Body: `{"login":"octo-org","name":"Octo Org"}`}
	harness := newApplicationHarness(testInstance, routes)

	output, executionError := harness.execute([]string{"--account", testAccountConstant, "properties", "generate", "--output", "generated"}, testRepositoryNamesInputConstant)
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, "Processing blink...\n", output)

	content, readError := afero.ReadFile(harness.fileSystem, filepath.Join("generated", "blink", "library.properties"))
	require.NoError(testInstance, readError)
	require.Contains(testInstance, string(content), "author=Octo Org\n")
}
