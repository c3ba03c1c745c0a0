package releases

import (
	"strings"

	"github.com/temirov/libkeeper/internal/githubapi"
)

const (
	// VersionPlaceholder is replaced by the release version in title templates.
	VersionPlaceholder = "{version}"

	defaultVersionConstant                = "1.0.0"
	defaultTitleTemplateConstant          = VersionPlaceholder + " release for Arduino"
	defaultBodyConstant                   = "Automated initial release for Arduino library system."
	versionConfigurationKeyConstant       = "version"
	titleTemplateConfigurationKeyConstant = "title_template"
	bodyConfigurationKeyConstant          = "body"
	configurationKeySeparatorConstant     = "."
)

// Configuration stores defaults for the release command.
type Configuration struct {
	Version       string `mapstructure:"version"`
	TitleTemplate string `mapstructure:"title_template"`
	Body          string `mapstructure:"body"`
}

// ConfigurationProvider returns the current release configuration.
type ConfigurationProvider func() Configuration

// DefaultConfiguration supplies baseline values for the release command.
func DefaultConfiguration() Configuration {
	return Configuration{
		Version:       defaultVersionConstant,
		TitleTemplate: defaultTitleTemplateConstant,
		Body:          defaultBodyConstant,
	}
}

// DefaultConfigurationValues exposes viper defaults for the configuration rooted at prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultConfiguration()
	return map[string]any{
		prefix + configurationKeySeparatorConstant + versionConfigurationKeyConstant:       defaults.Version,
		prefix + configurationKeySeparatorConstant + titleTemplateConfigurationKeyConstant: defaults.TitleTemplate,
		prefix + configurationKeySeparatorConstant + bodyConfigurationKeyConstant:          defaults.Body,
	}
}

// Sanitize trims values and restores defaults for blank entries.
func (configuration Configuration) Sanitize() Configuration {
	defaults := DefaultConfiguration()
	sanitized := Configuration{
		Version:       strings.TrimSpace(configuration.Version),
		TitleTemplate: strings.TrimSpace(configuration.TitleTemplate),
		Body:          strings.TrimSpace(configuration.Body),
	}
	if len(sanitized.Version) == 0 {
		sanitized.Version = defaults.Version
	}
	if len(sanitized.TitleTemplate) == 0 {
		sanitized.TitleTemplate = defaults.TitleTemplate
	}
	if len(sanitized.Body) == 0 {
		sanitized.Body = defaults.Body
	}
	return sanitized
}

// Descriptor builds the release descriptor: the tag is the version and the title is the expanded template.
func (configuration Configuration) Descriptor() githubapi.ReleaseDescriptor {
	return githubapi.ReleaseDescriptor{
		TagName: configuration.Version,
		Title:   strings.ReplaceAll(configuration.TitleTemplate, VersionPlaceholder, configuration.Version),
		Body:    configuration.Body,
	}
}
