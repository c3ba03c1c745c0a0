package libraries

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/libkeeper/internal/githubapi"
	"github.com/temirov/libkeeper/internal/shared"
	"github.com/temirov/libkeeper/internal/utils/flags"
)

const (
	findCommandUseConstant                   = "find"
	findCommandShortDescriptionConstant      = "List repositories that look like Arduino libraries"
	findCommandLongDescriptionConstant       = "find scans every repository of the account and prints the names of those with sketch files under the examples folder."
	unexpectedArgumentsErrorMessageConstant  = "find does not accept positional arguments"
	commandExecutionErrorTemplateConstant    = "find failed: %w"
	typeFlagNameConstant                     = "type"
	typeFlagDescriptionConstant              = "Repository type to scan."
	newOnlyFlagNameConstant                  = "new"
	newOnlyFlagDescriptionConstant           = "Only list libraries without a metadata file"
	typeConfigurationKeyConstant             = "type"
	newOnlyConfigurationKeyConstant          = "new_only"
	repositoryTypeParseErrorTemplateConstant = "invalid repository type: %w"
)

// FindConfiguration stores defaults for the find command.
type FindConfiguration struct {
	RepositoryType string `mapstructure:"type"`
	NewOnly        bool   `mapstructure:"new_only"`
}

// FindConfigurationProvider returns the current find configuration.
type FindConfigurationProvider func() FindConfiguration

// DefaultFindConfiguration scans every repository type.
func DefaultFindConfiguration() FindConfiguration {
	return FindConfiguration{RepositoryType: string(githubapi.RepositoryTypeAll)}
}

// DefaultFindConfigurationValues exposes viper defaults for the configuration rooted at prefix.
func DefaultFindConfigurationValues(prefix string) map[string]any {
	defaults := DefaultFindConfiguration()
	return map[string]any{
		prefix + configurationKeySeparatorConstant + typeConfigurationKeyConstant:    defaults.RepositoryType,
		prefix + configurationKeySeparatorConstant + newOnlyConfigurationKeyConstant: defaults.NewOnly,
	}
}

// CommandBuilder assembles the find command.
type CommandBuilder struct {
	LoggerProvider               shared.LoggerProvider
	GitHubConfigurationProvider  shared.GitHubConfigurationProvider
	LibraryConfigurationProvider ConfigurationProvider
	ConfigurationProvider        FindConfigurationProvider
	ClientFactory                shared.ClientFactory
}

// Build constructs the find command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	findCommand := &cobra.Command{
		Use:   findCommandUseConstant,
		Short: findCommandShortDescriptionConstant,
		Long:  findCommandLongDescriptionConstant,
		RunE:  builder.run,
	}

	defaults := builder.resolveConfiguration()
	findCommand.Flags().String(typeFlagNameConstant, "", flags.FormatChoiceUsage(defaults.RepositoryType, githubapi.RepositoryTypeChoices(), typeFlagDescriptionConstant))
	findCommand.Flags().Bool(newOnlyFlagNameConstant, false, newOnlyFlagDescriptionConstant)

	return findCommand, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errors.New(unexpectedArgumentsErrorMessageConstant)
	}

	findOptions, optionsError := builder.parseOptions(command)
	if optionsError != nil {
		return optionsError
	}

	logger := shared.ResolveLogger(builder.LoggerProvider)
	githubConfiguration := shared.ResolveGitHubConfiguration(builder.GitHubConfigurationProvider)
	account, accountError := githubConfiguration.RequireAccount()
	if accountError != nil {
		return accountError
	}
	findOptions.Account = account

	client, clientError := shared.ResolveClientFactory(builder.ClientFactory).Create(command.Context(), logger, githubConfiguration)
	if clientError != nil {
		return clientError
	}

	classifier, classifierError := NewClassifier(client, ResolveConfiguration(builder.LibraryConfigurationProvider), logger)
	if classifierError != nil {
		return classifierError
	}

	finder, finderError := NewFinder(client, classifier, shared.NewWriterReporter(command.OutOrStdout()), logger)
	if finderError != nil {
		return finderError
	}

	if _, findError := finder.Find(command.Context(), findOptions); findError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, findError)
	}
	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) (FindOptions, error) {
	configuration := builder.resolveConfiguration()

	typeValue := configuration.RepositoryType
	if command.Flags().Changed(typeFlagNameConstant) {
		typeFlagValue, typeFlagError := command.Flags().GetString(typeFlagNameConstant)
		if typeFlagError != nil {
			return FindOptions{}, typeFlagError
		}
		typeValue = typeFlagValue
	}
	repositoryType, parseError := githubapi.ParseRepositoryType(typeValue)
	if parseError != nil {
		return FindOptions{}, fmt.Errorf(repositoryTypeParseErrorTemplateConstant, parseError)
	}

	newOnlyValue := configuration.NewOnly
	if command.Flags().Changed(newOnlyFlagNameConstant) {
		newOnlyFlagValue, newOnlyFlagError := command.Flags().GetBool(newOnlyFlagNameConstant)
		if newOnlyFlagError != nil {
			return FindOptions{}, newOnlyFlagError
		}
		newOnlyValue = newOnlyFlagValue
	}

	return FindOptions{RepositoryType: repositoryType, NewOnly: newOnlyValue}, nil
}

func (builder *CommandBuilder) resolveConfiguration() FindConfiguration {
	configuration := DefaultFindConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	configuration.RepositoryType = strings.TrimSpace(configuration.RepositoryType)
	if len(configuration.RepositoryType) == 0 {
		configuration.RepositoryType = string(githubapi.RepositoryTypeAll)
	}
	return configuration
}
