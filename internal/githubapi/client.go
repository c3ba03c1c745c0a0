package githubapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/go-github/v75/github"
)

const (
	usersEndpointTemplateConstant           = "users/%s"
	userRepositoriesEndpointTemplate        = "users/%s/repos"
	repositoryEndpointTemplateConstant      = "repos/%s/%s"
	contentsEndpointTemplateConstant        = "repos/%s/%s/contents/%s"
	latestReleaseEndpointTemplateConstant   = "repos/%s/%s/releases/latest"
	releasesEndpointTemplateConstant        = "repos/%s/%s/releases"
	typeQueryParameterConstant              = "type"
	perPageQueryParameterConstant           = "per_page"
	pageQueryParameterConstant              = "page"
	refQueryParameterConstant               = "ref"
	repositoryPageSizeConstant              = 100
	contentPathSeparatorConstant            = "/"
	loginFieldNameConstant                  = "login"
	ownerFieldNameConstant                  = "owner"
	repositoryFieldNameConstant             = "repository"
	pathFieldNameConstant                   = "path"
	tagFieldNameConstant                    = "tag_name"
	messageFieldNameConstant                = "message"
	visitorFieldNameConstant                = "visitor"
	requiredValueMessageConstant            = "value required"
	directoryListingExpectedMessage         = "expected a directory listing"
	resolveAccountOperationNameConstant     = OperationName("ResolveAccount")
	listRepositoriesOperationNameConstant   = OperationName("ListRepositories")
	getRepositoryOperationNameConstant      = OperationName("GetRepository")
	listDirectoryOperationNameConstant      = OperationName("ListDirectory")
	getFileOperationNameConstant            = OperationName("GetFile")
	latestReleaseOperationNameConstant      = OperationName("LatestRelease")
	createReleaseOperationNameConstant      = OperationName("CreateRelease")
	createFileOperationNameConstant         = OperationName("CreateFile")
	directoryListingPrefixCharacterConstant = '['
)

// Client exposes the GitHub operations used by libkeeper commands.
type Client struct {
	transport Transport
}

type releasePayload struct {
	TagName string `json:"tag_name"`
	Name    string `json:"name"`
	Body    string `json:"body"`
}

type createFilePayload struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch,omitempty"`
}

// NewClient constructs a Client around the provided transport.
func NewClient(transport Transport) (*Client, error) {
	if transport == nil {
		return nil, ErrTransportNotConfigured
	}
	return &Client{transport: transport}, nil
}

// ResolveAccount retrieves the user or organization identified by login.
func (client *Client) ResolveAccount(executionContext context.Context, login string) (Account, error) {
	trimmedLogin := strings.TrimSpace(login)
	if len(trimmedLogin) == 0 {
		return Account{}, InvalidInputError{FieldName: loginFieldNameConstant, Message: requiredValueMessageConstant}
	}

	var user github.User
	_, requestError := client.transport.Do(executionContext, Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf(usersEndpointTemplateConstant, url.PathEscape(trimmedLogin)),
	}, &user)
	if requestError != nil {
		return Account{}, OperationError{Operation: resolveAccountOperationNameConstant, Cause: requestError}
	}

	resolvedLogin := user.GetLogin()
	if len(resolvedLogin) == 0 {
		resolvedLogin = trimmedLogin
	}

	return Account{Login: resolvedLogin, Name: user.GetName()}, nil
}

// ListRepositories visits every repository of the account, one page at a time, in API order.
// Iteration stops at the first visitor error.
func (client *Client) ListRepositories(executionContext context.Context, login string, repositoryType RepositoryType, visit func(Repository) error) error {
	trimmedLogin := strings.TrimSpace(login)
	if len(trimmedLogin) == 0 {
		return InvalidInputError{FieldName: loginFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if visit == nil {
		return InvalidInputError{FieldName: visitorFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if len(repositoryType) == 0 {
		repositoryType = RepositoryTypeAll
	}

	pageNumber := 1
	for {
		query := url.Values{}
		query.Set(typeQueryParameterConstant, string(repositoryType))
		query.Set(perPageQueryParameterConstant, strconv.Itoa(repositoryPageSizeConstant))
		query.Set(pageQueryParameterConstant, strconv.Itoa(pageNumber))

		var pageRepositories []*github.Repository
		response, requestError := client.transport.Do(executionContext, Request{
			Method: http.MethodGet,
			Path:   fmt.Sprintf(userRepositoriesEndpointTemplate, url.PathEscape(trimmedLogin)),
			Query:  query,
		}, &pageRepositories)
		if requestError != nil {
			return OperationError{Operation: listRepositoriesOperationNameConstant, Cause: requestError}
		}

		for _, githubRepository := range pageRepositories {
			if githubRepository == nil {
				continue
			}
			if visitError := visit(convertRepository(githubRepository, trimmedLogin)); visitError != nil {
				return visitError
			}
		}

		if response.NextPage == 0 || response.NextPage == pageNumber {
			return nil
		}
		pageNumber = response.NextPage
	}
}

// GetRepository resolves repository details for the reference.
func (client *Client) GetRepository(executionContext context.Context, reference RepositoryRef) (Repository, error) {
	if validationError := validateReference(reference); validationError != nil {
		return Repository{}, validationError
	}

	var githubRepository github.Repository
	_, requestError := client.transport.Do(executionContext, Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf(repositoryEndpointTemplateConstant, url.PathEscape(reference.Owner), url.PathEscape(reference.Name)),
	}, &githubRepository)
	if requestError != nil {
		return Repository{}, OperationError{Operation: getRepositoryOperationNameConstant, Cause: requestError}
	}

	repository := convertRepository(&githubRepository, reference.Owner)
	if len(repository.Ref.Name) == 0 {
		repository.Ref.Name = reference.Name
	}
	return repository, nil
}

// ListDirectory lists the immediate entries of a directory on the default branch.
// A missing path, or a file where a directory was expected, yields an absent lookup.
func (client *Client) ListDirectory(executionContext context.Context, repository Repository, directoryPath string) (Lookup[[]DirectoryEntry], error) {
	if validationError := validateReference(repository.Ref); validationError != nil {
		return Absent[[]DirectoryEntry](), validationError
	}

	var rawListing json.RawMessage
	_, requestError := client.transport.Do(executionContext, client.contentsRequest(repository, directoryPath), &rawListing)
	if requestError != nil {
		if IsNotFound(requestError) {
			return Absent[[]DirectoryEntry](), nil
		}
		return Absent[[]DirectoryEntry](), OperationError{Operation: listDirectoryOperationNameConstant, Cause: requestError}
	}

	trimmedListing := strings.TrimSpace(string(rawListing))
	if len(trimmedListing) == 0 {
		return Absent[[]DirectoryEntry](), ResponseDecodingError{Operation: listDirectoryOperationNameConstant, Cause: errors.New(directoryListingExpectedMessage)}
	}
	// A file at the path answers with a single object: there is no such directory.
	if trimmedListing[0] != directoryListingPrefixCharacterConstant {
		return Absent[[]DirectoryEntry](), nil
	}

	var githubEntries []*github.RepositoryContent
	if decodingError := json.Unmarshal(rawListing, &githubEntries); decodingError != nil {
		return Absent[[]DirectoryEntry](), ResponseDecodingError{Operation: listDirectoryOperationNameConstant, Cause: decodingError}
	}

	entries := make([]DirectoryEntry, 0, len(githubEntries))
	for _, githubEntry := range githubEntries {
		if githubEntry == nil {
			continue
		}
		entries = append(entries, DirectoryEntry{Name: githubEntry.GetName(), Kind: EntryKind(githubEntry.GetType())})
	}

	return Found(entries), nil
}

// GetFile checks for content at the path on the default branch.
// A directory at the path also counts as present.
func (client *Client) GetFile(executionContext context.Context, repository Repository, filePath string) (Lookup[FileContent], error) {
	if validationError := validateReference(repository.Ref); validationError != nil {
		return Absent[FileContent](), validationError
	}
	if len(normalizeContentPath(filePath)) == 0 {
		return Absent[FileContent](), InvalidInputError{FieldName: pathFieldNameConstant, Message: requiredValueMessageConstant}
	}

	var rawContent json.RawMessage
	_, requestError := client.transport.Do(executionContext, client.contentsRequest(repository, filePath), &rawContent)
	if requestError != nil {
		if IsNotFound(requestError) {
			return Absent[FileContent](), nil
		}
		return Absent[FileContent](), OperationError{Operation: getFileOperationNameConstant, Cause: requestError}
	}

	trimmedContent := strings.TrimSpace(string(rawContent))
	if len(trimmedContent) > 0 && trimmedContent[0] == directoryListingPrefixCharacterConstant {
		return Found(FileContent{Path: normalizeContentPath(filePath)}), nil
	}

	var githubContent github.RepositoryContent
	if decodingError := json.Unmarshal(rawContent, &githubContent); decodingError != nil {
		return Absent[FileContent](), ResponseDecodingError{Operation: getFileOperationNameConstant, Cause: decodingError}
	}

	return Found(FileContent{Path: githubContent.GetPath(), SHA: githubContent.GetSHA()}), nil
}

// LatestRelease fetches the most recent published release.
func (client *Client) LatestRelease(executionContext context.Context, repository Repository) (Lookup[Release], error) {
	if validationError := validateReference(repository.Ref); validationError != nil {
		return Absent[Release](), validationError
	}

	var githubRelease github.RepositoryRelease
	_, requestError := client.transport.Do(executionContext, Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf(latestReleaseEndpointTemplateConstant, url.PathEscape(repository.Ref.Owner), url.PathEscape(repository.Ref.Name)),
	}, &githubRelease)
	if requestError != nil {
		if IsNotFound(requestError) {
			return Absent[Release](), nil
		}
		return Absent[Release](), OperationError{Operation: latestReleaseOperationNameConstant, Cause: requestError}
	}

	return Found(convertRelease(&githubRelease)), nil
}

// CreateRelease publishes a new release built from the descriptor.
func (client *Client) CreateRelease(executionContext context.Context, repository Repository, descriptor ReleaseDescriptor) (Release, error) {
	if validationError := validateReference(repository.Ref); validationError != nil {
		return Release{}, validationError
	}
	if len(strings.TrimSpace(descriptor.TagName)) == 0 {
		return Release{}, InvalidInputError{FieldName: tagFieldNameConstant, Message: requiredValueMessageConstant}
	}

	var githubRelease github.RepositoryRelease
	_, requestError := client.transport.Do(executionContext, Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf(releasesEndpointTemplateConstant, url.PathEscape(repository.Ref.Owner), url.PathEscape(repository.Ref.Name)),
		Body: releasePayload{
			TagName: descriptor.TagName,
			Name:    descriptor.Title,
			Body:    descriptor.Body,
		},
	}, &githubRelease)
	if requestError != nil {
		return Release{}, OperationError{Operation: createReleaseOperationNameConstant, Cause: requestError}
	}

	return convertRelease(&githubRelease), nil
}

// CreateFile commits new file content. EncodedContent must already be base64 encoded.
func (client *Client) CreateFile(executionContext context.Context, repository Repository, request CreateFileRequest) (CommitReference, error) {
	if validationError := validateReference(repository.Ref); validationError != nil {
		return CommitReference{}, validationError
	}
	normalizedPath := normalizeContentPath(request.Path)
	if len(normalizedPath) == 0 {
		return CommitReference{}, InvalidInputError{FieldName: pathFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if len(strings.TrimSpace(request.Message)) == 0 {
		return CommitReference{}, InvalidInputError{FieldName: messageFieldNameConstant, Message: requiredValueMessageConstant}
	}

	var contentResponse github.RepositoryContentResponse
	_, requestError := client.transport.Do(executionContext, Request{
		Method: http.MethodPut,
		Path:   fmt.Sprintf(contentsEndpointTemplateConstant, url.PathEscape(repository.Ref.Owner), url.PathEscape(repository.Ref.Name), escapeContentPath(normalizedPath)),
		Body: createFilePayload{
			Message: request.Message,
			Content: request.EncodedContent,
			Branch:  strings.TrimSpace(request.Branch),
		},
	}, &contentResponse)
	if requestError != nil {
		return CommitReference{}, OperationError{Operation: createFileOperationNameConstant, Cause: requestError}
	}

	return CommitReference{
		SHA:     contentResponse.Commit.GetSHA(),
		HTMLURL: contentResponse.Commit.GetHTMLURL(),
	}, nil
}

func (client *Client) contentsRequest(repository Repository, contentPath string) Request {
	request := Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf(contentsEndpointTemplateConstant, url.PathEscape(repository.Ref.Owner), url.PathEscape(repository.Ref.Name), escapeContentPath(normalizeContentPath(contentPath))),
	}
	if defaultBranch := strings.TrimSpace(repository.DefaultBranch); len(defaultBranch) > 0 {
		request.Query = url.Values{refQueryParameterConstant: []string{defaultBranch}}
	}
	return request
}

func validateReference(reference RepositoryRef) error {
	if len(strings.TrimSpace(reference.Owner)) == 0 {
		return InvalidInputError{FieldName: ownerFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if len(strings.TrimSpace(reference.Name)) == 0 {
		return InvalidInputError{FieldName: repositoryFieldNameConstant, Message: requiredValueMessageConstant}
	}
	return nil
}

func normalizeContentPath(contentPath string) string {
	return strings.Trim(strings.TrimSpace(contentPath), contentPathSeparatorConstant)
}

func escapeContentPath(contentPath string) string {
	segments := strings.Split(contentPath, contentPathSeparatorConstant)
	escapedSegments := make([]string, 0, len(segments))
	for _, segment := range segments {
		if len(segment) == 0 {
			continue
		}
		escapedSegments = append(escapedSegments, url.PathEscape(segment))
	}
	return strings.Join(escapedSegments, contentPathSeparatorConstant)
}

func convertRepository(githubRepository *github.Repository, fallbackOwner string) Repository {
	owner := githubRepository.GetOwner().GetLogin()
	if len(owner) == 0 {
		owner = fallbackOwner
	}
	return Repository{
		Ref:           RepositoryRef{Owner: owner, Name: githubRepository.GetName()},
		Description:   githubRepository.GetDescription(),
		HTMLURL:       githubRepository.GetHTMLURL(),
		CloneURL:      githubRepository.GetCloneURL(),
		DefaultBranch: githubRepository.GetDefaultBranch(),
	}
}

func convertRelease(githubRelease *github.RepositoryRelease) Release {
	return Release{
		ID:      githubRelease.GetID(),
		TagName: githubRelease.GetTagName(),
		Name:    githubRelease.GetName(),
		HTMLURL: githubRelease.GetHTMLURL(),
	}
}
