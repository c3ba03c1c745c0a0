package registry_test

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/libkeeper/internal/githubapi/githubapitest"
	"github.com/temirov/libkeeper/internal/registry"
	"github.com/temirov/libkeeper/internal/shared"
	"github.com/temirov/libkeeper/internal/shared/sharedtest"
)

func TestListCommandPrintsCloneURLs(testInstance *testing.T) {
	testCases := []struct {
		name           string
		configuration  registry.Configuration
		arguments      []string
		expectedOutput string
	}{
		{
			name:           "default_type",
			configuration:  registry.DefaultConfiguration(),
			arguments:      []string{},
			expectedOutput: "https://github.com/octo-org/blink.git\tContributed\nhttps://github.com/octo-org/fade.git\tContributed\n",
		},
		{
			name:           "flag_type",
			configuration:  registry.DefaultConfiguration(),
			arguments:      []string{"--type", "Recommended"},
			expectedOutput: "https://github.com/octo-org/blink.git\tRecommended\nhttps://github.com/octo-org/fade.git\tRecommended\n",
		},
		{
			name:           "blank_configured_type",
			configuration:  registry.Configuration{LibraryType: "  "},
			arguments:      []string{},
			expectedOutput: "https://github.com/octo-org/blink.git\tContributed\nhttps://github.com/octo-org/fade.git\tContributed\n",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			transport := githubapitest.NewTransport(map[string]githubapitest.Route{
				githubapitest.RouteKey(http.MethodGet, "repos/octo-org/blink"): {Body: `{"name":"blink","clone_url":"https://github.com/octo-org/blink.git"}`},
				githubapitest.RouteKey(http.MethodGet, "repos/octo-org/fade"):  {Body: `{"name":"fade","clone_url":"https://github.com/octo-org/fade.git"}`},
			})
			builder := registry.CommandBuilder{
				GitHubConfigurationProvider: func() shared.GitHubConfiguration {
					return shared.GitHubConfiguration{Account: "octo-org"}
				},
				ConfigurationProvider: func() registry.Configuration { return testCase.configuration },
				ClientFactory:         &sharedtest.ClientFactory{Transport: transport},
			}

			command, buildError := builder.Build()
			require.NoError(subtest, buildError)
			outputBuffer := &bytes.Buffer{}
			command.SetOut(outputBuffer)
			command.SetErr(&bytes.Buffer{})
			command.SetIn(strings.NewReader("blink\n\n fade \n"))
			command.SetContext(context.Background())
			command.SetArgs(testCase.arguments)

			require.NoError(subtest, command.Execute())
			require.Equal(subtest, testCase.expectedOutput, outputBuffer.String())
		})
	}
}

func TestListerStopsOnUnknownRepository(testInstance *testing.T) {
	transport := githubapitest.NewTransport(map[string]githubapitest.Route{
		githubapitest.RouteKey(http.MethodGet, "repos/octo-org/blink"): {Body: `{"name":"blink","clone_url":"https://github.com/octo-org/blink.git"}`},
	})
	factory := &sharedtest.ClientFactory{Transport: transport}
	client, clientError := factory.Create(context.Background(), nil, shared.GitHubConfiguration{})
	require.NoError(testInstance, clientError)

	outputBuffer := &bytes.Buffer{}
	lister, listerError := registry.NewLister(client, shared.NewWriterReporter(outputBuffer))
	require.NoError(testInstance, listerError)

	entries, listError := lister.List(context.Background(), "octo-org", "Contributed", strings.NewReader("blink\nghost\nblink\n"))
	require.ErrorContains(testInstance, listError, "resolve repository ghost")
	require.Equal(testInstance, []registry.Entry{{CloneURL: "https://github.com/octo-org/blink.git", LibraryType: "Contributed"}}, entries)
	require.Equal(testInstance, "https://github.com/octo-org/blink.git\tContributed\n", outputBuffer.String())
}
