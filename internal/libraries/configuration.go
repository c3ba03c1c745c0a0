package libraries

import (
	"strings"
)

const (
	defaultExamplesFolderConstant                = "examples"
	defaultMetadataFileConstant                  = "library.properties"
	defaultInoSuffixConstant                     = ".ino"
	defaultPdeSuffixConstant                     = ".pde"
	examplesFolderConfigurationKeyConstant       = "examples_folder"
	sketchSuffixesConfigurationKeyConstant       = "sketch_suffixes"
	metadataFileConfigurationKeyConstant         = "metadata_file"
	configurationKeySeparatorConstant            = "."
	suffixSeparatorConstant                      = "."
	configurationPathSeparatorCharactersConstant = "/"
)

// Configuration describes how a repository is recognized as a library.
type Configuration struct {
	ExamplesFolder string   `mapstructure:"examples_folder"`
	SketchSuffixes []string `mapstructure:"sketch_suffixes"`
	MetadataFile   string   `mapstructure:"metadata_file"`
}

// ConfigurationProvider returns the current library configuration.
type ConfigurationProvider func() Configuration

// DefaultConfiguration recognizes Arduino libraries by examples/<sketch>/<file>.ino|.pde.
func DefaultConfiguration() Configuration {
	return Configuration{
		ExamplesFolder: defaultExamplesFolderConstant,
		SketchSuffixes: []string{defaultInoSuffixConstant, defaultPdeSuffixConstant},
		MetadataFile:   defaultMetadataFileConstant,
	}
}

// DefaultConfigurationValues exposes viper defaults for the configuration rooted at prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultConfiguration()
	return map[string]any{
		prefix + configurationKeySeparatorConstant + examplesFolderConfigurationKeyConstant: defaults.ExamplesFolder,
		prefix + configurationKeySeparatorConstant + sketchSuffixesConfigurationKeyConstant: defaults.SketchSuffixes,
		prefix + configurationKeySeparatorConstant + metadataFileConfigurationKeyConstant:   defaults.MetadataFile,
	}
}

// Sanitize trims values, lower-cases suffixes, and restores defaults for blank entries.
func (configuration Configuration) Sanitize() Configuration {
	defaults := DefaultConfiguration()
	sanitized := configuration

	sanitized.ExamplesFolder = strings.Trim(strings.TrimSpace(configuration.ExamplesFolder), configurationPathSeparatorCharactersConstant)
	if len(sanitized.ExamplesFolder) == 0 {
		sanitized.ExamplesFolder = defaults.ExamplesFolder
	}

	sanitized.MetadataFile = strings.Trim(strings.TrimSpace(configuration.MetadataFile), configurationPathSeparatorCharactersConstant)
	if len(sanitized.MetadataFile) == 0 {
		sanitized.MetadataFile = defaults.MetadataFile
	}

	sanitized.SketchSuffixes = sanitizeSuffixes(configuration.SketchSuffixes)
	if len(sanitized.SketchSuffixes) == 0 {
		sanitized.SketchSuffixes = defaults.SketchSuffixes
	}

	return sanitized
}

// ResolveConfiguration returns the provider's configuration or the defaults, sanitized.
func ResolveConfiguration(provider ConfigurationProvider) Configuration {
	if provider == nil {
		return DefaultConfiguration()
	}
	return provider().Sanitize()
}

func sanitizeSuffixes(candidateSuffixes []string) []string {
	sanitizedSuffixes := make([]string, 0, len(candidateSuffixes))
	seen := make(map[string]struct{}, len(candidateSuffixes))
	for _, candidateSuffix := range candidateSuffixes {
		normalizedSuffix := strings.ToLower(strings.TrimSpace(candidateSuffix))
		if len(normalizedSuffix) == 0 {
			continue
		}
		if !strings.HasPrefix(normalizedSuffix, suffixSeparatorConstant) {
			normalizedSuffix = suffixSeparatorConstant + normalizedSuffix
		}
		if _, exists := seen[normalizedSuffix]; exists {
			continue
		}
		seen[normalizedSuffix] = struct{}{}
		sanitizedSuffixes = append(sanitizedSuffixes, normalizedSuffix)
	}
	return sanitizedSuffixes
}
