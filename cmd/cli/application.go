package cli

import (
	"context"
	"errors"
	"fmt"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/libkeeper/internal/libraries"
	"github.com/temirov/libkeeper/internal/properties"
	"github.com/temirov/libkeeper/internal/registry"
	"github.com/temirov/libkeeper/internal/releases"
	"github.com/temirov/libkeeper/internal/shared"
	"github.com/temirov/libkeeper/internal/utils"
	"github.com/temirov/libkeeper/internal/utils/flags"
)

const (
	applicationNameConstant                 = "libkeeper"
	applicationShortDescriptionConstant     = "Bookkeeping for Arduino library repositories on GitHub"
	applicationLongDescriptionConstant      = "libkeeper finds library repositories of a GitHub account, generates and uploads library.properties files, creates initial releases, and prints registry listings."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a YAML configuration file."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format."
	accountFlagNameConstant                 = "account"
	accountFlagUsageConstant                = "GitHub user or organization owning the libraries."
	tokenSourceFlagNameConstant             = "token-source"
	tokenSourceFlagUsageConstant            = "Token location as env:NAME or file:PATH."
	usernameFlagNameConstant                = "username"
	usernameFlagUsageConstant               = "GitHub username for basic authentication."
	passwordFlagNameConstant                = "password"
	passwordFlagUsageConstant               = "GitHub password for basic authentication."
	apiURLFlagNameConstant                  = "api-url"
	apiURLFlagUsageConstant                 = "GitHub REST API base URL."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	githubConfigurationKeyConstant          = "github"
	libraryConfigurationKeyConstant         = "library"
	toolsConfigurationKeyConstant           = "tools"
	findConfigurationKeyConstant            = toolsConfigurationKeyConstant + ".find"
	propertiesConfigurationKeyConstant      = toolsConfigurationKeyConstant + ".properties"
	releaseConfigurationKeyConstant         = toolsConfigurationKeyConstant + ".release"
	listConfigurationKeyConstant            = toolsConfigurationKeyConstant + ".list"
	environmentPrefixConstant               = "LIBKEEPER"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	defaultConfigurationSearchPathConstant  = "."
	environmentFileNameConstant             = ".env"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	environmentFilesFieldConstant           = "environment_files"
	accountFieldConstant                    = "account"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	commandBuildErrorTemplateConstant       = "unable to build %s command: %w"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common  ApplicationCommonConfiguration `mapstructure:"common"`
	GitHub  shared.GitHubConfiguration     `mapstructure:"github"`
	Library libraries.Configuration        `mapstructure:"library"`
	Tools   ApplicationToolsConfiguration  `mapstructure:"tools"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ApplicationToolsConfiguration holds per-command configuration.
type ApplicationToolsConfiguration struct {
	Find       libraries.FindConfiguration `mapstructure:"find"`
	Properties properties.Configuration    `mapstructure:"properties"`
	Release    releases.Configuration      `mapstructure:"release"`
	List       registry.Configuration      `mapstructure:"list"`
}

type applicationDependencies struct {
	clientFactory shared.ClientFactory
	fileSystem    afero.Fs
	loggerFactory *utils.LoggerFactory
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand           *cobra.Command
	configurationLoader   *utils.ConfigurationLoader
	loggerFactory         *utils.LoggerFactory
	logger                *zap.Logger
	configuration         ApplicationConfiguration
	configurationMetadata utils.LoadedConfiguration
	configurationFilePath string
	logLevelFlagValue     string
	logFormatFlagValue    string
	githubFlagValues      shared.GitHubConfiguration
}

// NewApplication assembles a CLI application talking to GitHub and the local file system.
func NewApplication() (*Application, error) {
	return newApplication(applicationDependencies{
		clientFactory: shared.DefaultClientFactory{},
		fileSystem:    afero.NewOsFs(),
		loggerFactory: utils.NewLoggerFactory(),
	})
}

func newApplication(dependencies applicationDependencies) (*Application, error) {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		[]string{defaultConfigurationSearchPathConstant},
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())
	configurationLoader.SetEnvironmentFiles(environmentFileNameConstant)

	application := &Application{
		configurationLoader: configurationLoader,
		loggerFactory:       dependencies.loggerFactory,
		logger:              zap.NewNop(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	cobraCommand.SetContext(context.Background())
	persistentFlags := cobraCommand.PersistentFlags()
	persistentFlags.StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	persistentFlags.StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", flags.FormatChoiceUsage(string(utils.LogLevelInfo), utils.LogLevelChoices(), logLevelFlagUsageConstant))
	persistentFlags.StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", flags.FormatChoiceUsage(string(utils.LogFormatStructured), utils.LogFormatChoices(), logFormatFlagUsageConstant))
	persistentFlags.StringVar(&application.githubFlagValues.Account, accountFlagNameConstant, "", accountFlagUsageConstant)
	persistentFlags.StringVar(&application.githubFlagValues.TokenSource, tokenSourceFlagNameConstant, "", tokenSourceFlagUsageConstant)
	persistentFlags.StringVar(&application.githubFlagValues.Username, usernameFlagNameConstant, "", usernameFlagUsageConstant)
	persistentFlags.StringVar(&application.githubFlagValues.Password, passwordFlagNameConstant, "", passwordFlagUsageConstant)
	persistentFlags.StringVar(&application.githubFlagValues.APIURL, apiURLFlagNameConstant, "", apiURLFlagUsageConstant)

	loggerProvider := func() *zap.Logger {
		return application.logger
	}
	githubConfigurationProvider := func() shared.GitHubConfiguration {
		return application.configuration.GitHub
	}
	libraryConfigurationProvider := func() libraries.Configuration {
		return application.configuration.Library
	}

	findBuilder := libraries.CommandBuilder{
		LoggerProvider:               loggerProvider,
		GitHubConfigurationProvider:  githubConfigurationProvider,
		LibraryConfigurationProvider: libraryConfigurationProvider,
		ConfigurationProvider: func() libraries.FindConfiguration {
			return application.configuration.Tools.Find
		},
		ClientFactory: dependencies.clientFactory,
	}
	propertiesBuilder := properties.CommandBuilder{
		LoggerProvider:               loggerProvider,
		GitHubConfigurationProvider:  githubConfigurationProvider,
		LibraryConfigurationProvider: libraryConfigurationProvider,
		ConfigurationProvider: func() properties.Configuration {
			return application.configuration.Tools.Properties
		},
		ClientFactory: dependencies.clientFactory,
		FileSystem:    dependencies.fileSystem,
	}
	releaseBuilder := releases.CommandBuilder{
		LoggerProvider:               loggerProvider,
		GitHubConfigurationProvider:  githubConfigurationProvider,
		LibraryConfigurationProvider: libraryConfigurationProvider,
		ConfigurationProvider: func() releases.Configuration {
			return application.configuration.Tools.Release
		},
		ClientFactory: dependencies.clientFactory,
	}
	listBuilder := registry.CommandBuilder{
		LoggerProvider:              loggerProvider,
		GitHubConfigurationProvider: githubConfigurationProvider,
		ConfigurationProvider: func() registry.Configuration {
			return application.configuration.Tools.List
		},
		ClientFactory: dependencies.clientFactory,
	}

	commandBuilders := []struct {
		name  string
		build func() (*cobra.Command, error)
	}{
		{name: "find", build: findBuilder.Build},
		{name: "properties", build: propertiesBuilder.Build},
		{name: "release", build: releaseBuilder.Build},
		{name: "list", build: listBuilder.Build},
	}
	for _, commandBuilder := range commandBuilders {
		subcommand, buildError := commandBuilder.build()
		if buildError != nil {
			return nil, fmt.Errorf(commandBuildErrorTemplateConstant, commandBuilder.name, buildError)
		}
		cobraCommand.AddCommand(subcommand)
	}

	application.rootCommand = cobraCommand

	return application, nil
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil && executionError == nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	application, applicationError := NewApplication()
	if applicationError != nil {
		return applicationError
	}
	return application.Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultConfigurationValues(), &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}
	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}
	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}
	application.applyGitHubFlagOverrides(command)

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}
	application.logger = logger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
		zap.Strings(environmentFilesFieldConstant, application.configurationMetadata.EnvironmentFilesApplied),
		zap.String(accountFieldConstant, application.configuration.GitHub.Account),
	)

	return nil
}

func (application *Application) applyGitHubFlagOverrides(command *cobra.Command) {
	overrides := []struct {
		flagName string
		source   string
		target   *string
	}{
		{flagName: accountFlagNameConstant, source: application.githubFlagValues.Account, target: &application.configuration.GitHub.Account},
		{flagName: tokenSourceFlagNameConstant, source: application.githubFlagValues.TokenSource, target: &application.configuration.GitHub.TokenSource},
		{flagName: usernameFlagNameConstant, source: application.githubFlagValues.Username, target: &application.configuration.GitHub.Username},
		{flagName: passwordFlagNameConstant, source: application.githubFlagValues.Password, target: &application.configuration.GitHub.Password},
		{flagName: apiURLFlagNameConstant, source: application.githubFlagValues.APIURL, target: &application.configuration.GitHub.APIURL},
	}
	for _, override := range overrides {
		if application.persistentFlagChanged(command, override.flagName) {
			*override.target = override.source
		}
	}
}

func defaultConfigurationValues() map[string]any {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatStructured),
	}
	defaultSets := []map[string]any{
		shared.DefaultGitHubConfigurationValues(githubConfigurationKeyConstant),
		libraries.DefaultConfigurationValues(libraryConfigurationKeyConstant),
		libraries.DefaultFindConfigurationValues(findConfigurationKeyConstant),
		properties.DefaultConfigurationValues(propertiesConfigurationKeyConstant),
		releases.DefaultConfigurationValues(releaseConfigurationKeyConstant),
		registry.DefaultConfigurationValues(listConfigurationKeyConstant),
	}
	for _, defaultSet := range defaultSets {
		for configurationKey, configurationValue := range defaultSet {
			defaultValues[configurationKey] = configurationValue
		}
	}
	return defaultValues
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}
	if rootCommand := command.Root(); rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet != nil && flagSet.Changed(flagName) {
			return true
		}
	}
	return false
}
