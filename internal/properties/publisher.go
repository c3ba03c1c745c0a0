package properties

import (
	"context"
	"encoding/base64"
	"errors"

	"go.uber.org/zap"

	"github.com/temirov/libkeeper/internal/githubapi"
)

const (
	contentsWriterNotConfiguredMessageConstant = "repository contents writer not configured"
	remoteFileExistsMessageConstant            = "remote file already exists, skipping upload"
	remoteFileCreatedMessageConstant           = "remote file created"
	repositoryFieldConstant                    = "repository"
	pathFieldConstant                          = "path"
	branchFieldConstant                        = "branch"
	commitFieldConstant                        = "commit"
)

// PublishOutcome reports what Publish did.
type PublishOutcome string

// Publish outcomes.
const (
	PublishOutcomePublished     PublishOutcome = "published"
	PublishOutcomeSkippedExists PublishOutcome = "skipped_exists"
)

// ContentsWriter probes and creates repository files on the default branch.
type ContentsWriter interface {
	GetFile(executionContext context.Context, repository githubapi.Repository, filePath string) (githubapi.Lookup[githubapi.FileContent], error)
	CreateFile(executionContext context.Context, repository githubapi.Repository, request githubapi.CreateFileRequest) (githubapi.CommitReference, error)
}

// PublishRequest describes a file to create in a repository.
type PublishRequest struct {
	Path          string
	CommitMessage string
	Content       []byte
}

// Publisher creates a file in a repository unless one already exists at the path.
type Publisher struct {
	contents ContentsWriter
	logger   *zap.Logger
}

// NewPublisher wires a Publisher.
func NewPublisher(contents ContentsWriter, logger *zap.Logger) (*Publisher, error) {
	if contents == nil {
		return nil, errors.New(contentsWriterNotConfiguredMessageConstant)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{contents: contents, logger: logger}, nil
}

// Publish never overwrites: an existing file yields PublishOutcomeSkippedExists with no create request.
func (publisher *Publisher) Publish(executionContext context.Context, repository githubapi.Repository, request PublishRequest) (PublishOutcome, error) {
	existingLookup, lookupError := publisher.contents.GetFile(executionContext, repository, request.Path)
	if lookupError != nil {
		return "", lookupError
	}
	if existingLookup.IsFound() {
		publisher.logger.Info(remoteFileExistsMessageConstant, zap.String(repositoryFieldConstant, repository.Ref.String()), zap.String(pathFieldConstant, request.Path))
		return PublishOutcomeSkippedExists, nil
	}

	commit, createError := publisher.contents.CreateFile(executionContext, repository, githubapi.CreateFileRequest{
		Path:           request.Path,
		Message:        request.CommitMessage,
		EncodedContent: base64.StdEncoding.EncodeToString(request.Content),
		Branch:         repository.DefaultBranch,
	})
	if createError != nil {
		return "", createError
	}

	publisher.logger.Debug(
		remoteFileCreatedMessageConstant,
		zap.String(repositoryFieldConstant, repository.Ref.String()),
		zap.String(pathFieldConstant, request.Path),
		zap.String(branchFieldConstant, repository.DefaultBranch),
		zap.String(commitFieldConstant, commit.SHA),
	)
	return PublishOutcomePublished, nil
}
