package githubapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v75/github"
	"go.uber.org/zap"
)

const (
	queryPrefixConstant                    = "?"
	urlPathSeparatorConstant               = "/"
	baseURLParseErrorTemplateConstant      = "invalid GitHub API URL %q: %w"
	requestBuildErrorTemplateConstant      = "unable to build %s %s request: %w"
	requestNotFoundTemplateConstant        = "%s %s: %w"
	transportRequestDebugMessage           = "executing GitHub API request"
	transportResponseDebugMessage          = "GitHub API request completed"
	transportFailureDebugMessage           = "GitHub API request failed"
	logFieldMethodConstant                 = "method"
	logFieldPathConstant                   = "path"
	logFieldStatusConstant                 = "status"
	logFieldElapsedConstant                = "elapsed"
	httpClientNotConfiguredMessageConstant = "http client not configured"
)

// Request describes a single REST call relative to the API base URL.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// Response captures the transport-level details callers may need after a request.
type Response struct {
	StatusCode int
	NextPage   int
}

// Transport issues authenticated REST requests and decodes JSON responses into result.
// A missing resource is reported as an error wrapping ErrNotFound.
type Transport interface {
	Do(executionContext context.Context, request Request, result any) (Response, error)
}

// RESTTransport implements Transport on top of the go-github client.
type RESTTransport struct {
	client *github.Client
	logger *zap.Logger
}

// NewRESTTransport builds a transport using the provided authenticated HTTP client.
// An empty baseURL keeps the public GitHub API endpoint.
func NewRESTTransport(logger *zap.Logger, httpClient *http.Client, baseURL string) (*RESTTransport, error) {
	if httpClient == nil {
		return nil, errors.New(httpClientNotConfiguredMessageConstant)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	githubClient := github.NewClient(httpClient)

	trimmedBaseURL := strings.TrimSpace(baseURL)
	if len(trimmedBaseURL) > 0 {
		if !strings.HasSuffix(trimmedBaseURL, urlPathSeparatorConstant) {
			trimmedBaseURL += urlPathSeparatorConstant
		}
		parsedBaseURL, parseError := url.Parse(trimmedBaseURL)
		if parseError != nil {
			return nil, fmt.Errorf(baseURLParseErrorTemplateConstant, baseURL, parseError)
		}
		githubClient.BaseURL = parsedBaseURL
	}

	return &RESTTransport{client: githubClient, logger: logger}, nil
}

// Do executes the request and decodes the response body into result when result is not nil.
func (transport *RESTTransport) Do(executionContext context.Context, request Request, result any) (Response, error) {
	requestURL := request.Path
	if len(request.Query) > 0 {
		requestURL += queryPrefixConstant + request.Query.Encode()
	}

	httpRequest, buildError := transport.client.NewRequest(request.Method, requestURL, request.Body)
	if buildError != nil {
		return Response{}, fmt.Errorf(requestBuildErrorTemplateConstant, request.Method, request.Path, buildError)
	}

	transport.logger.Debug(
		transportRequestDebugMessage,
		zap.String(logFieldMethodConstant, request.Method),
		zap.String(logFieldPathConstant, requestURL),
	)

	startTime := time.Now()
	githubResponse, doError := transport.client.Do(executionContext, httpRequest, result)

	response := Response{}
	if githubResponse != nil && githubResponse.Response != nil {
		response.StatusCode = githubResponse.StatusCode
		response.NextPage = githubResponse.NextPage
	}

	if doError != nil {
		transport.logger.Debug(
			transportFailureDebugMessage,
			zap.String(logFieldMethodConstant, request.Method),
			zap.String(logFieldPathConstant, requestURL),
			zap.Int(logFieldStatusConstant, response.StatusCode),
			zap.Duration(logFieldElapsedConstant, time.Since(startTime)),
			zap.Error(doError),
		)

		var errorResponse *github.ErrorResponse
		if errors.As(doError, &errorResponse) && errorResponse.Response != nil && errorResponse.Response.StatusCode == http.StatusNotFound {
			return response, fmt.Errorf(requestNotFoundTemplateConstant, request.Method, request.Path, ErrNotFound)
		}
		return response, doError
	}

	transport.logger.Debug(
		transportResponseDebugMessage,
		zap.String(logFieldMethodConstant, request.Method),
		zap.String(logFieldPathConstant, requestURL),
		zap.Int(logFieldStatusConstant, response.StatusCode),
		zap.Duration(logFieldElapsedConstant, time.Since(startTime)),
	)

	return response, nil
}
