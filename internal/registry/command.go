package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/libkeeper/internal/shared"
)

const (
	commandUseConstant                      = "list"
	commandShortDescriptionConstant         = "Print registry entries for libraries read from standard input"
	commandLongDescriptionConstant          = "list reads repository names from standard input and prints one tab separated clone URL and library type per line, ready for submission to the Arduino library registry."
	unexpectedArgumentsErrorMessageConstant = "list does not accept positional arguments"
	commandExecutionErrorTemplateConstant   = "list failed: %w"
	typeFlagNameConstant                    = "type"
	typeFlagDescriptionConstant             = "Library type assigned to every entry"
	defaultLibraryTypeConstant              = "Contributed"
	typeConfigurationKeyConstant            = "type"
	configurationKeySeparatorConstant       = "."
)

// Configuration stores defaults for the list command.
type Configuration struct {
	LibraryType string `mapstructure:"type"`
}

// ConfigurationProvider returns the current list configuration.
type ConfigurationProvider func() Configuration

// DefaultConfiguration marks every library as contributed.
func DefaultConfiguration() Configuration {
	return Configuration{LibraryType: defaultLibraryTypeConstant}
}

// DefaultConfigurationValues exposes viper defaults for the configuration rooted at prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	return map[string]any{
		prefix + configurationKeySeparatorConstant + typeConfigurationKeyConstant: DefaultConfiguration().LibraryType,
	}
}

// CommandBuilder assembles the list command.
type CommandBuilder struct {
	LoggerProvider              shared.LoggerProvider
	GitHubConfigurationProvider shared.GitHubConfigurationProvider
	ConfigurationProvider       ConfigurationProvider
	ClientFactory               shared.ClientFactory
}

// Build constructs the list command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	listCommand := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}
	listCommand.Flags().String(typeFlagNameConstant, "", typeFlagDescriptionConstant)
	return listCommand, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errors.New(unexpectedArgumentsErrorMessageConstant)
	}

	configuration := DefaultConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	if command.Flags().Changed(typeFlagNameConstant) {
		typeValue, typeFlagError := command.Flags().GetString(typeFlagNameConstant)
		if typeFlagError != nil {
			return typeFlagError
		}
		configuration.LibraryType = typeValue
	}
	libraryType := strings.TrimSpace(configuration.LibraryType)
	if len(libraryType) == 0 {
		libraryType = defaultLibraryTypeConstant
	}

	logger := shared.ResolveLogger(builder.LoggerProvider)
	githubConfiguration := shared.ResolveGitHubConfiguration(builder.GitHubConfigurationProvider)
	account, accountError := githubConfiguration.RequireAccount()
	if accountError != nil {
		return accountError
	}

	client, clientError := shared.ResolveClientFactory(builder.ClientFactory).Create(command.Context(), logger, githubConfiguration)
	if clientError != nil {
		return clientError
	}

	lister, listerError := NewLister(client, shared.NewWriterReporter(command.OutOrStdout()))
	if listerError != nil {
		return listerError
	}

	if _, listError := lister.List(command.Context(), account, libraryType, command.InOrStdin()); listError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, listError)
	}
	return nil
}
