package properties

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/temirov/libkeeper/internal/libraries"
	"github.com/temirov/libkeeper/internal/shared"
)

const (
	propertiesCommandUseConstant              = "properties"
	propertiesCommandShortDescriptionConstant = "Generate and upload library.properties files"
	propertiesCommandLongDescriptionConstant  = "properties synthesizes library.properties files from repository metadata and uploads them to repositories that lack one."
	generateCommandUseConstant                = "generate"
	generateCommandShortDescriptionConstant   = "Write library.properties files for repositories read from standard input"
	generateCommandLongDescriptionConstant    = "generate reads repository names from standard input and writes <output>/<name>/library.properties for each one."
	uploadCommandUseConstant                  = "upload"
	uploadCommandShortDescriptionConstant     = "Upload generated library.properties files"
	uploadCommandLongDescriptionConstant      = "upload publishes <root>/<name>/library.properties to every matching repository that does not already have the file."
	generateArgumentsErrorMessageConstant     = "properties generate does not accept positional arguments"
	uploadArgumentsErrorMessageConstant       = "properties upload does not accept positional arguments"
	generateExecutionErrorTemplateConstant    = "properties generate failed: %w"
	uploadExecutionErrorTemplateConstant      = "properties upload failed: %w"
	versionFlagNameConstant                   = "version"
	versionFlagDescriptionConstant            = "Version to assign to each library"
	authorFlagNameConstant                    = "author"
	authorFlagDescriptionConstant             = "Author to assign to each library (defaults to the account name)"
	maintainerFlagNameConstant                = "maintainer"
	maintainerFlagDescriptionConstant         = "Maintainer to assign to each library (defaults to the account name)"
	outputFlagNameConstant                    = "output"
	outputFlagDescriptionConstant             = "Directory that receives one folder per library"
	rootFlagNameConstant                      = "root"
	rootFlagDescriptionConstant               = "Directory holding generated library folders"
	createOutputErrorTemplateConstant         = "create output directory %s: %w"
)

// CommandBuilder assembles the properties command hierarchy.
type CommandBuilder struct {
	LoggerProvider               shared.LoggerProvider
	GitHubConfigurationProvider  shared.GitHubConfigurationProvider
	LibraryConfigurationProvider libraries.ConfigurationProvider
	ConfigurationProvider        ConfigurationProvider
	ClientFactory                shared.ClientFactory
	FileSystem                   afero.Fs
}

// Build constructs the properties command with the generate and upload subcommands.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	propertiesCommand := &cobra.Command{
		Use:   propertiesCommandUseConstant,
		Short: propertiesCommandShortDescriptionConstant,
		Long:  propertiesCommandLongDescriptionConstant,
	}

	generateCommand := &cobra.Command{
		Use:   generateCommandUseConstant,
		Short: generateCommandShortDescriptionConstant,
		Long:  generateCommandLongDescriptionConstant,
		RunE:  builder.runGenerate,
	}
	generateCommand.Flags().String(versionFlagNameConstant, "", versionFlagDescriptionConstant)
	generateCommand.Flags().String(authorFlagNameConstant, "", authorFlagDescriptionConstant)
	generateCommand.Flags().String(maintainerFlagNameConstant, "", maintainerFlagDescriptionConstant)
	generateCommand.Flags().String(outputFlagNameConstant, "", outputFlagDescriptionConstant)

	uploadCommand := &cobra.Command{
		Use:   uploadCommandUseConstant,
		Short: uploadCommandShortDescriptionConstant,
		Long:  uploadCommandLongDescriptionConstant,
		RunE:  builder.runUpload,
	}
	uploadCommand.Flags().String(rootFlagNameConstant, "", rootFlagDescriptionConstant)

	propertiesCommand.AddCommand(generateCommand)
	propertiesCommand.AddCommand(uploadCommand)

	return propertiesCommand, nil
}

func (builder *CommandBuilder) runGenerate(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errors.New(generateArgumentsErrorMessageConstant)
	}

	configuration := builder.resolveConfiguration()
	if overrideError := applyStringFlag(command, versionFlagNameConstant, &configuration.Version); overrideError != nil {
		return overrideError
	}
	if overrideError := applyStringFlag(command, authorFlagNameConstant, &configuration.Author); overrideError != nil {
		return overrideError
	}
	if overrideError := applyStringFlag(command, maintainerFlagNameConstant, &configuration.Maintainer); overrideError != nil {
		return overrideError
	}
	if overrideError := applyStringFlag(command, outputFlagNameConstant, &configuration.OutputPath); overrideError != nil {
		return overrideError
	}
	configuration = configuration.Sanitize()

	logger := shared.ResolveLogger(builder.LoggerProvider)
	githubConfiguration := shared.ResolveGitHubConfiguration(builder.GitHubConfigurationProvider)
	account, accountError := githubConfiguration.RequireAccount()
	if accountError != nil {
		return accountError
	}

	fileSystem := builder.resolveFileSystem()
	if mkdirError := fileSystem.MkdirAll(configuration.OutputPath, directoryPermissionsConstant); mkdirError != nil {
		return fmt.Errorf(createOutputErrorTemplateConstant, configuration.OutputPath, mkdirError)
	}
	store, storeError := NewStore(fileSystem, configuration.OutputPath, libraries.ResolveConfiguration(builder.LibraryConfigurationProvider).MetadataFile)
	if storeError != nil {
		return storeError
	}

	client, clientError := shared.ResolveClientFactory(builder.ClientFactory).Create(command.Context(), logger, githubConfiguration)
	if clientError != nil {
		return clientError
	}

	generator, generatorError := NewGenerator(client, store, shared.NewWriterReporter(command.OutOrStdout()), logger)
	if generatorError != nil {
		return generatorError
	}

	_, generateError := generator.Generate(command.Context(), GenerateOptions{
		Account:    account,
		Version:    configuration.Version,
		Author:     configuration.Author,
		Maintainer: configuration.Maintainer,
	}, command.InOrStdin())
	if generateError != nil {
		return fmt.Errorf(generateExecutionErrorTemplateConstant, generateError)
	}
	return nil
}

func (builder *CommandBuilder) runUpload(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errors.New(uploadArgumentsErrorMessageConstant)
	}

	configuration := builder.resolveConfiguration()
	if overrideError := applyStringFlag(command, rootFlagNameConstant, &configuration.RootPath); overrideError != nil {
		return overrideError
	}
	configuration = configuration.Sanitize()

	logger := shared.ResolveLogger(builder.LoggerProvider)
	githubConfiguration := shared.ResolveGitHubConfiguration(builder.GitHubConfigurationProvider)
	account, accountError := githubConfiguration.RequireAccount()
	if accountError != nil {
		return accountError
	}

	store, storeError := NewStore(builder.resolveFileSystem(), configuration.RootPath, libraries.ResolveConfiguration(builder.LibraryConfigurationProvider).MetadataFile)
	if storeError != nil {
		return storeError
	}

	client, clientError := shared.ResolveClientFactory(builder.ClientFactory).Create(command.Context(), logger, githubConfiguration)
	if clientError != nil {
		return clientError
	}

	publisher, publisherError := NewPublisher(client, logger)
	if publisherError != nil {
		return publisherError
	}

	uploader, uploaderError := NewUploader(client, store, publisher, shared.NewWriterReporter(command.OutOrStdout()), logger)
	if uploaderError != nil {
		return uploaderError
	}

	if _, uploadError := uploader.Upload(command.Context(), UploadOptions{Account: account, CommitMessage: configuration.CommitMessage}); uploadError != nil {
		return fmt.Errorf(uploadExecutionErrorTemplateConstant, uploadError)
	}
	return nil
}

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	if builder.ConfigurationProvider == nil {
		return DefaultConfiguration()
	}
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) resolveFileSystem() afero.Fs {
	if builder.FileSystem == nil {
		return afero.NewOsFs()
	}
	return builder.FileSystem
}

func applyStringFlag(command *cobra.Command, flagName string, target *string) error {
	if !command.Flags().Changed(flagName) {
		return nil
	}
	flagValue, flagError := command.Flags().GetString(flagName)
	if flagError != nil {
		return flagError
	}
	*target = flagValue
	return nil
}
