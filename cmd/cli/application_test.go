package cli_test

import (
	"testing"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/libkeeper/cmd/cli"
	"github.com/temirov/libkeeper/internal/libraries"
	"github.com/temirov/libkeeper/internal/properties"
	"github.com/temirov/libkeeper/internal/registry"
	"github.com/temirov/libkeeper/internal/releases"
	"github.com/temirov/libkeeper/internal/shared"
)

func decodeEmbeddedConfiguration(testInstance *testing.T) cli.ApplicationConfiguration {
	testInstance.Helper()

	configurationData, configurationType := cli.EmbeddedDefaultConfiguration()
	require.Equal(testInstance, "yaml", configurationType)

	rawConfiguration := map[string]any{}
	require.NoError(testInstance, yaml.Unmarshal(configurationData, &rawConfiguration))

	var configuration cli.ApplicationConfiguration
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "mapstructure",
		Result:      &configuration,
		ErrorUnused: true,
	})
	require.NoError(testInstance, decoderError)
	require.NoError(testInstance, decoder.Decode(rawConfiguration))

	return configuration
}

func TestEmbeddedDefaultsMatchCommandDefaults(testInstance *testing.T) {
	configuration := decodeEmbeddedConfiguration(testInstance)

	require.Equal(testInstance, "info", configuration.Common.LogLevel)
	require.Equal(testInstance, "structured", configuration.Common.LogFormat)
	require.Equal(testInstance, shared.DefaultGitHubConfiguration(), configuration.GitHub)
	require.Equal(testInstance, libraries.DefaultConfiguration(), configuration.Library)
	require.Equal(testInstance, libraries.DefaultFindConfiguration(), configuration.Tools.Find)
	require.Equal(testInstance, properties.DefaultConfiguration(), configuration.Tools.Properties)
	require.Equal(testInstance, releases.DefaultConfiguration(), configuration.Tools.Release)
	require.Equal(testInstance, registry.DefaultConfiguration(), configuration.Tools.List)
}

func TestEmbeddedDefaultConfigurationReturnsCopy(testInstance *testing.T) {
	firstCopy, _ := cli.EmbeddedDefaultConfiguration()
	require.NotEmpty(testInstance, firstCopy)
	firstCopy[0] = '#'

	secondCopy, _ := cli.EmbeddedDefaultConfiguration()
	require.NotEqual(testInstance, firstCopy[0], secondCopy[0])
}
