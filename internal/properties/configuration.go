package properties

import (
	"strings"

	pathutils "github.com/temirov/libkeeper/internal/utils/path"
)

var propertiesConfigurationPathResolver = pathutils.NewPathResolver()

const (
	defaultVersionConstant                = "1.0.0"
	defaultDirectoryConstant              = "."
	defaultCommitMessageConstant          = "Automatic library.properties generation."
	versionConfigurationKeyConstant       = "version"
	authorConfigurationKeyConstant        = "author"
	maintainerConfigurationKeyConstant    = "maintainer"
	outputConfigurationKeyConstant        = "output"
	rootConfigurationKeyConstant          = "root"
	commitMessageConfigurationKeyConstant = "commit_message"
	configurationKeySeparatorConstant     = "."
)

// Configuration stores defaults for the properties commands.
type Configuration struct {
	Version       string `mapstructure:"version"`
	Author        string `mapstructure:"author"`
	Maintainer    string `mapstructure:"maintainer"`
	OutputPath    string `mapstructure:"output"`
	RootPath      string `mapstructure:"root"`
	CommitMessage string `mapstructure:"commit_message"`
}

// ConfigurationProvider returns the current properties configuration.
type ConfigurationProvider func() Configuration

// DefaultConfiguration supplies baseline values for the properties commands.
func DefaultConfiguration() Configuration {
	return Configuration{
		Version:       defaultVersionConstant,
		OutputPath:    defaultDirectoryConstant,
		RootPath:      defaultDirectoryConstant,
		CommitMessage: defaultCommitMessageConstant,
	}
}

// DefaultConfigurationValues exposes viper defaults for the configuration rooted at prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultConfiguration()
	return map[string]any{
		prefix + configurationKeySeparatorConstant + versionConfigurationKeyConstant:       defaults.Version,
		prefix + configurationKeySeparatorConstant + authorConfigurationKeyConstant:        defaults.Author,
		prefix + configurationKeySeparatorConstant + maintainerConfigurationKeyConstant:    defaults.Maintainer,
		prefix + configurationKeySeparatorConstant + outputConfigurationKeyConstant:        defaults.OutputPath,
		prefix + configurationKeySeparatorConstant + rootConfigurationKeyConstant:          defaults.RootPath,
		prefix + configurationKeySeparatorConstant + commitMessageConfigurationKeyConstant: defaults.CommitMessage,
	}
}

// Sanitize trims values, expands home directories, and restores defaults for blank entries.
func (configuration Configuration) Sanitize() Configuration {
	defaults := DefaultConfiguration()
	sanitized := configuration

	sanitized.Version = strings.TrimSpace(configuration.Version)
	if len(sanitized.Version) == 0 {
		sanitized.Version = defaults.Version
	}
	sanitized.Author = strings.TrimSpace(configuration.Author)
	sanitized.Maintainer = strings.TrimSpace(configuration.Maintainer)
	sanitized.OutputPath = propertiesConfigurationPathResolver.Resolve(configuration.OutputPath, defaults.OutputPath)
	sanitized.RootPath = propertiesConfigurationPathResolver.Resolve(configuration.RootPath, defaults.RootPath)
	sanitized.CommitMessage = strings.TrimSpace(configuration.CommitMessage)
	if len(sanitized.CommitMessage) == 0 {
		sanitized.CommitMessage = defaults.CommitMessage
	}

	return sanitized
}
