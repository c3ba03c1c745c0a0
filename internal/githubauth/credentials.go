package githubauth

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/google/go-github/v75/github"
	"golang.org/x/oauth2"
)

const (
	authenticationMethodTokenConstant     = "token"
	authenticationMethodBasicConstant     = "basic"
	authenticationMethodAnonymousConstant = "anonymous"
)

// AuthenticationMethod names how requests are authenticated.
type AuthenticationMethod string

// Supported authentication methods.
const (
	AuthenticationMethodToken     AuthenticationMethod = AuthenticationMethod(authenticationMethodTokenConstant)
	AuthenticationMethodBasic     AuthenticationMethod = AuthenticationMethod(authenticationMethodBasicConstant)
	AuthenticationMethodAnonymous AuthenticationMethod = AuthenticationMethod(authenticationMethodAnonymousConstant)
)

// CredentialsConfiguration carries the user-supplied authentication settings.
type CredentialsConfiguration struct {
	TokenSource string
	Username    string
	Password    string
}

// Credentials are the resolved secrets used to authenticate API requests.
type Credentials struct {
	Token    string
	Username string
	Password string
}

// Method reports which authentication method the credentials select.
func (credentials Credentials) Method() AuthenticationMethod {
	switch {
	case len(credentials.Token) > 0:
		return AuthenticationMethodToken
	case len(credentials.Username) > 0 && len(credentials.Password) > 0:
		return AuthenticationMethodBasic
	default:
		return AuthenticationMethodAnonymous
	}
}

// CredentialsResolver turns configuration into credentials.
type CredentialsResolver struct {
	environmentLookup EnvironmentLookup
	fileReader        FileReader
}

// NewCredentialsResolver creates a resolver with optional dependency overrides.
func NewCredentialsResolver(environmentLookup EnvironmentLookup, fileReader FileReader) *CredentialsResolver {
	if environmentLookup == nil {
		environmentLookup = os.LookupEnv
	}
	if fileReader == nil {
		fileReader = os.ReadFile
	}
	return &CredentialsResolver{environmentLookup: environmentLookup, fileReader: fileReader}
}

// Resolve applies the precedence: explicit token source, token environment variables,
// then username and password (configured or GITHUB_USERNAME / GITHUB_PASSWORD).
func (resolver *CredentialsResolver) Resolve(configuration CredentialsConfiguration) (Credentials, error) {
	if len(strings.TrimSpace(configuration.TokenSource)) > 0 {
		source, parseError := ParseTokenSource(configuration.TokenSource)
		if parseError != nil {
			return Credentials{}, parseError
		}
		token, readError := readTokenSource(source, resolver.environmentLookup, resolver.fileReader)
		if readError != nil {
			return Credentials{}, readError
		}
		return Credentials{Token: token}, nil
	}

	if token, found := ResolveToken(resolver.environmentLookup); found {
		return Credentials{Token: token}, nil
	}

	username := strings.TrimSpace(configuration.Username)
	if len(username) == 0 {
		username, _ = lookup(resolver.environmentLookup, EnvGitHubUsername)
	}
	password := configuration.Password
	if len(strings.TrimSpace(password)) == 0 {
		password, _ = lookup(resolver.environmentLookup, EnvGitHubPassword)
	}

	return Credentials{Username: username, Password: password}, nil
}

// NewHTTPClient builds an HTTP client that authenticates every request with the credentials.
func NewHTTPClient(executionContext context.Context, credentials Credentials) *http.Client {
	switch credentials.Method() {
	case AuthenticationMethodToken:
		tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: credentials.Token})
		return oauth2.NewClient(executionContext, tokenSource)
	case AuthenticationMethodBasic:
		basicTransport := &github.BasicAuthTransport{
			Username: credentials.Username,
			Password: credentials.Password,
		}
		return basicTransport.Client()
	default:
		return &http.Client{}
	}
}
