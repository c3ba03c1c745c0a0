package shared

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/libkeeper/internal/githubapi"
	"github.com/temirov/libkeeper/internal/githubauth"
)

const (
	// DefaultGitHubAPIURL is the public GitHub REST endpoint.
	DefaultGitHubAPIURL = "https://api.github.com/"

	accountConfigurationKeyConstant       = "account"
	tokenSourceConfigurationKeyConstant   = "token_source"
	usernameConfigurationKeyConstant      = "username"
	passwordConfigurationKeyConstant      = "password"
	apiURLConfigurationKeyConstant        = "api_url"
	configurationKeySeparatorConstant     = "."
	accountFieldNameConstant              = "account"
	accountRequiredMessageConstant        = "GitHub user or organization must be provided (--account or github.account)"
	anonymousAccessWarningMessageConstant = "no GitHub credentials configured, using anonymous access"
	authenticationMethodMessageConstant   = "GitHub authentication resolved"
	authenticationMethodFieldConstant     = "method"
	apiURLFieldConstant                   = "api_url"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// GitHubConfiguration stores the account and connection settings shared by all commands.
type GitHubConfiguration struct {
	Account     string `mapstructure:"account"`
	TokenSource string `mapstructure:"token_source"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	APIURL      string `mapstructure:"api_url"`
}

// GitHubConfigurationProvider returns the current GitHub configuration.
type GitHubConfigurationProvider func() GitHubConfiguration

// DefaultGitHubConfiguration supplies baseline connection settings.
func DefaultGitHubConfiguration() GitHubConfiguration {
	return GitHubConfiguration{APIURL: DefaultGitHubAPIURL}
}

// DefaultGitHubConfigurationValues exposes viper defaults for the configuration rooted at prefix.
func DefaultGitHubConfigurationValues(prefix string) map[string]any {
	defaults := DefaultGitHubConfiguration()
	return map[string]any{
		joinConfigurationKey(prefix, accountConfigurationKeyConstant):     defaults.Account,
		joinConfigurationKey(prefix, tokenSourceConfigurationKeyConstant): defaults.TokenSource,
		joinConfigurationKey(prefix, usernameConfigurationKeyConstant):    defaults.Username,
		joinConfigurationKey(prefix, passwordConfigurationKeyConstant):    defaults.Password,
		joinConfigurationKey(prefix, apiURLConfigurationKeyConstant):      defaults.APIURL,
	}
}

// Sanitize trims configured values and restores the default API URL when blank.
func (configuration GitHubConfiguration) Sanitize() GitHubConfiguration {
	sanitized := configuration
	sanitized.Account = strings.TrimSpace(configuration.Account)
	sanitized.TokenSource = strings.TrimSpace(configuration.TokenSource)
	sanitized.Username = strings.TrimSpace(configuration.Username)
	sanitized.APIURL = strings.TrimSpace(configuration.APIURL)
	if len(sanitized.APIURL) == 0 {
		sanitized.APIURL = DefaultGitHubAPIURL
	}
	return sanitized
}

// RequireAccount returns the configured account or an input error when it is missing.
func (configuration GitHubConfiguration) RequireAccount() (string, error) {
	account := strings.TrimSpace(configuration.Account)
	if len(account) == 0 {
		return "", githubapi.InvalidInputError{FieldName: accountFieldNameConstant, Message: accountRequiredMessageConstant}
	}
	return account, nil
}

// ClientFactory creates GitHub API clients for the provided configuration.
type ClientFactory interface {
	Create(executionContext context.Context, logger *zap.Logger, configuration GitHubConfiguration) (*githubapi.Client, error)
}

// DefaultClientFactory resolves credentials and builds a go-github backed client.
type DefaultClientFactory struct {
	EnvironmentLookup githubauth.EnvironmentLookup
	FileReader        githubauth.FileReader
}

// Create implements ClientFactory.
func (factory DefaultClientFactory) Create(executionContext context.Context, logger *zap.Logger, configuration GitHubConfiguration) (*githubapi.Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	sanitized := configuration.Sanitize()

	resolver := githubauth.NewCredentialsResolver(factory.EnvironmentLookup, factory.FileReader)
	credentials, resolveError := resolver.Resolve(githubauth.CredentialsConfiguration{
		TokenSource: sanitized.TokenSource,
		Username:    sanitized.Username,
		Password:    sanitized.Password,
	})
	if resolveError != nil {
		return nil, resolveError
	}

	authenticationMethod := credentials.Method()
	if authenticationMethod == githubauth.AuthenticationMethodAnonymous {
		logger.Warn(anonymousAccessWarningMessageConstant)
	}
	logger.Debug(
		authenticationMethodMessageConstant,
		zap.String(authenticationMethodFieldConstant, string(authenticationMethod)),
		zap.String(apiURLFieldConstant, sanitized.APIURL),
	)

	transport, transportError := githubapi.NewRESTTransport(logger, githubauth.NewHTTPClient(executionContext, credentials), sanitized.APIURL)
	if transportError != nil {
		return nil, transportError
	}
	return githubapi.NewClient(transport)
}

// ResolveLogger returns the provider's logger or a no-op logger.
func ResolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// ResolveGitHubConfiguration returns the provider's configuration or the defaults, sanitized.
func ResolveGitHubConfiguration(provider GitHubConfigurationProvider) GitHubConfiguration {
	configuration := DefaultGitHubConfiguration()
	if provider != nil {
		configuration = provider()
	}
	return configuration.Sanitize()
}

// ResolveClientFactory returns the factory or the default one.
func ResolveClientFactory(factory ClientFactory) ClientFactory {
	if factory == nil {
		return DefaultClientFactory{}
	}
	return factory
}

func joinConfigurationKey(prefix string, key string) string {
	trimmedPrefix := strings.TrimSpace(prefix)
	if len(trimmedPrefix) == 0 {
		return key
	}
	return trimmedPrefix + configurationKeySeparatorConstant + key
}
