package releases

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/libkeeper/internal/libraries"
	"github.com/temirov/libkeeper/internal/shared"
)

const (
	commandUseConstant                      = "release"
	commandShortDescriptionConstant         = "Create a first release for libraries read from standard input"
	commandLongDescriptionConstant          = "release reads repository names from standard input and creates a tagged release for every library that has a metadata file and no release yet."
	unexpectedArgumentsErrorMessageConstant = "release does not accept positional arguments"
	commandExecutionErrorTemplateConstant   = "release failed: %w"
	versionFlagNameConstant                 = "version"
	versionFlagDescriptionConstant          = "Release tag to create for each library"
)

// CommandBuilder assembles the release command.
type CommandBuilder struct {
	LoggerProvider               shared.LoggerProvider
	GitHubConfigurationProvider  shared.GitHubConfigurationProvider
	LibraryConfigurationProvider libraries.ConfigurationProvider
	ConfigurationProvider        ConfigurationProvider
	ClientFactory                shared.ClientFactory
}

// Build constructs the release command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	releaseCommand := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}
	releaseCommand.Flags().String(versionFlagNameConstant, "", versionFlagDescriptionConstant)
	return releaseCommand, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errors.New(unexpectedArgumentsErrorMessageConstant)
	}

	configuration := DefaultConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	if command.Flags().Changed(versionFlagNameConstant) {
		versionValue, versionFlagError := command.Flags().GetString(versionFlagNameConstant)
		if versionFlagError != nil {
			return versionFlagError
		}
		configuration.Version = versionValue
	}
	configuration = configuration.Sanitize()

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

	classifier, classifierError := libraries.NewClassifier(client, libraries.ResolveConfiguration(builder.LibraryConfigurationProvider), logger)
	if classifierError != nil {
		return classifierError
	}

	ensurer, ensurerError := NewEnsurer(client, logger)
	if ensurerError != nil {
		return ensurerError
	}

	service, serviceError := NewService(ServiceDependencies{
		Repositories: client,
		Metadata:     classifier,
		Ensurer:      ensurer,
		Reporter:     shared.NewWriterReporter(command.OutOrStdout()),
		Logger:       logger,
	})
	if serviceError != nil {
		return serviceError
	}

	if _, releaseError := service.Release(command.Context(), Options{Account: account, Descriptor: configuration.Descriptor()}, command.InOrStdin()); releaseError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, releaseError)
	}
	return nil
}
