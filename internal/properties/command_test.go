package properties_test

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/libkeeper/internal/githubapi/githubapitest"
	"github.com/temirov/libkeeper/internal/properties"
	"github.com/temirov/libkeeper/internal/shared"
	"github.com/temirov/libkeeper/internal/shared/sharedtest"
)

const (
	blinkRepositoryBodyConstant = `{"name":"blink","owner":{"login":"octo-org"},"description":"Blinks an LED","html_url":"https://github.com/octo-org/blink","clone_url":"https://github.com/octo-org/blink.git","default_branch":"main"}`
	coolRepositoryBodyConstant  = `{"name":"My-Cool_Lib","owner":{"login":"octo-org"},"description":"","html_url":"https://github.com/octo-org/My-Cool_Lib","clone_url":"https://github.com/octo-org/My-Cool_Lib.git","default_branch":"master"}`
	fadeRepositoryBodyConstant  = `{"name":"fade","owner":{"login":"octo-org"},"html_url":"https://github.com/octo-org/fade","clone_url":"https://github.com/octo-org/fade.git","default_branch":"main"}`
)

func executePropertiesCommand(testInstance *testing.T, builder properties.CommandBuilder, input string, arguments ...string) (string, error) {
	testInstance.Helper()
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(&bytes.Buffer{})
	command.SetIn(strings.NewReader(input))
	command.SetContext(context.Background())
	command.SetArgs(arguments)

	executionError := command.Execute()
	return outputBuffer.String(), executionError
}

func newPropertiesBuilder(transport *githubapitest.Transport, fileSystem afero.Fs, configuration properties.Configuration) properties.CommandBuilder {
	return properties.CommandBuilder{
		LoggerProvider: func() *zap.Logger { return zap.NewNop() },
		GitHubConfigurationProvider: func() shared.GitHubConfiguration {
			return shared.GitHubConfiguration{Account: "octo-org"}
		},
		ConfigurationProvider: func() properties.Configuration { return configuration },
		ClientFactory:         &sharedtest.ClientFactory{Transport: transport},
		FileSystem:            fileSystem,
	}
}

func TestPropertiesGenerateWritesRecords(testInstance *testing.T) {
	transport := githubapitest.NewTransport(map[string]githubapitest.Route{
		githubapitest.RouteKey(http.MethodGet, "users/octo-org"):             {Body: `{"login":"octo-org","name":"Octo Org"}`},
		githubapitest.RouteKey(http.MethodGet, "repos/octo-org/blink"):       {Body: blinkRepositoryBodyConstant},
		githubapitest.RouteKey(http.MethodGet, "repos/octo-org/My-Cool_Lib"): {Body: coolRepositoryBodyConstant},
	})
	fileSystem := afero.NewMemMapFs()
	builder := newPropertiesBuilder(transport, fileSystem, properties.DefaultConfiguration())

	output, executionError := executePropertiesCommand(testInstance, builder, "blink\n\n  My-Cool_Lib  \n", "generate", "--output", "/out", "--maintainer", "Maintainers")
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, "Processing blink...\nProcessing My-Cool_Lib...\n", output)

	blinkContent, blinkReadError := afero.ReadFile(fileSystem, "/out/blink/library.properties")
	require.NoError(testInstance, blinkReadError)
	require.Equal(testInstance, "name=blink\n"+
		"version=1.0.0\n"+
		"author=Octo Org\n"+
		"maintainer=Maintainers\n"+
		"sentence=Blinks an LED\n"+
		"paragraph=Blinks an LED\n"+
		"category=Other\n"+
		"url=https://github.com/octo-org/blink\n"+
		"architectures=*\n", string(blinkContent))

	coolContent, coolReadError := afero.ReadFile(fileSystem, "/out/My-Cool_Lib/library.properties")
	require.NoError(testInstance, coolReadError)
	coolRecord, parseError := properties.ParseRecord(string(coolContent))
	require.NoError(testInstance, parseError)
	require.Equal(testInstance, "My Cool Lib", coolRecord.Value(properties.KeyName))
	require.Equal(testInstance, "My Cool Lib", coolRecord.Value(properties.KeySentence))
}

func TestPropertiesGenerateSkipsAccountLookupWhenNamesProvided(testInstance *testing.T) {
	transport := githubapitest.NewTransport(map[string]githubapitest.Route{
		githubapitest.RouteKey(http.MethodGet, "repos/octo-org/blink"): {Body: blinkRepositoryBodyConstant},
	})
	fileSystem := afero.NewMemMapFs()
	configuration := properties.Configuration{Version: "0.9.0", Author: "Ada", OutputPath: "/generated"}
	builder := newPropertiesBuilder(transport, fileSystem, configuration)

	_, executionError := executePropertiesCommand(testInstance, builder, "blink\n", "generate", "--maintainer", "Grace", "--version", "2.0.0")
	require.NoError(testInstance, executionError)

	content, readError := afero.ReadFile(fileSystem, "/generated/blink/library.properties")
	require.NoError(testInstance, readError)
	record, parseError := properties.ParseRecord(string(content))
	require.NoError(testInstance, parseError)
	require.Equal(testInstance, "2.0.0", record.Value(properties.KeyVersion))
	require.Equal(testInstance, "Ada", record.Value(properties.KeyAuthor))
	require.Equal(testInstance, "Grace", record.Value(properties.KeyMaintainer))

	for _, request := range transport.Requests() {
		require.NotEqual(testInstance, "users/octo-org", request.Path)
	}
}

func TestPropertiesGenerateStopsOnMissingRepository(testInstance *testing.T) {
	transport := githubapitest.NewTransport(map[string]githubapitest.Route{
		githubapitest.RouteKey(http.MethodGet, "repos/octo-org/blink"): {Body: blinkRepositoryBodyConstant},
	})
	fileSystem := afero.NewMemMapFs()
	builder := newPropertiesBuilder(transport, fileSystem, properties.Configuration{Author: "Ada", Maintainer: "Ada", OutputPath: "/out"})

	output, executionError := executePropertiesCommand(testInstance, builder, "ghost\nblink\n", "generate")
	require.ErrorContains(testInstance, executionError, "resolve repository ghost")
	require.Equal(testInstance, "Processing ghost...\n", output)

	exists, existsError := afero.Exists(fileSystem, "/out/blink/library.properties")
	require.NoError(testInstance, existsError)
	require.False(testInstance, exists)
}

func TestPropertiesUploadPublishesMissingFiles(testInstance *testing.T) {
	fileSystem := afero.NewMemMapFs()
	require.NoError(testInstance, fileSystem.MkdirAll("/libs/blink", 0o755))
	require.NoError(testInstance, fileSystem.MkdirAll("/libs/fade", 0o755))
	require.NoError(testInstance, fileSystem.MkdirAll("/libs/drafts", 0o755))
	require.NoError(testInstance, afero.WriteFile(fileSystem, "/libs/blink/library.properties", []byte("name=blink\n"), 0o644))
	require.NoError(testInstance, afero.WriteFile(fileSystem, "/libs/fade/library.properties", []byte("name=fade\n"), 0o644))
	require.NoError(testInstance, afero.WriteFile(fileSystem, "/libs/readme.txt", []byte("notes"), 0o644))

	transport := githubapitest.NewTransport(map[string]githubapitest.Route{
		githubapitest.RouteKey(http.MethodGet, "repos/octo-org/blink"):                             {Body: blinkRepositoryBodyConstant},
		githubapitest.RouteKey(http.MethodGet, "repos/octo-org/fade"):                              {Body: fadeRepositoryBodyConstant},
		githubapitest.RouteKey(http.MethodGet, "repos/octo-org/blink/contents/library.properties"): {Body: `{"path":"library.properties","sha":"abc"}`},
		githubapitest.RouteKey(http.MethodPut, "repos/octo-org/fade/contents/library.properties"):  {Body: `{"commit":{"sha":"c0ffee"}}`},
	})
	builder := newPropertiesBuilder(transport, fileSystem, properties.DefaultConfiguration())

	output, executionError := executePropertiesCommand(testInstance, builder, "", "upload", "--root", "/libs")
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, "Found existing library.properties for blink on GitHub, skipping...\n"+
		"Skipping drafts because it is not a directory with library.properties...\n"+
		"Processing fade...\n"+
		"Skipping readme.txt because it is not a directory with library.properties...\n", output)

	createRequests := transport.RequestsFor(http.MethodPut)
	require.Len(testInstance, createRequests, 1)
	require.Equal(testInstance, "repos/octo-org/fade/contents/library.properties", createRequests[0].Path)
}

func TestPropertiesCommandRequiresAccount(testInstance *testing.T) {
	for _, subcommand := range []string{"generate", "upload"} {
		testInstance.Run(subcommand, func(subtest *testing.T) {
			transport := githubapitest.NewTransport(nil)
			builder := properties.CommandBuilder{
				ClientFactory: &sharedtest.ClientFactory{Transport: transport},
				FileSystem:    afero.NewMemMapFs(),
			}
			_, executionError := executePropertiesCommand(subtest, builder, "blink\n", subcommand)
			require.ErrorContains(subtest, executionError, "account")
			require.Empty(subtest, transport.Requests())
		})
	}
}

func TestPropertiesCommandRegistersSubcommands(testInstance *testing.T) {
	builder := properties.CommandBuilder{}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	names := make([]string, 0)
	for _, subcommand := range command.Commands() {
		names = append(names, subcommand.Name())
	}
	require.ElementsMatch(testInstance, []string{"generate", "upload"}, names)
}
