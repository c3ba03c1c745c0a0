package properties

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/libkeeper/internal/githubapi"
	"github.com/temirov/libkeeper/internal/shared"
)

const (
	repositoryGetterNotConfiguredMessageConstant = "repository getter not configured"
	publisherNotConfiguredMessageConstant        = "publisher not configured"
	notLibraryOutputTemplateConstant             = "Skipping %s because it is not a directory with %s...\n"
	existingRemoteOutputTemplateConstant         = "Found existing %s for %s on GitHub, skipping...\n"
	emptyContentOutputTemplateConstant           = "No %s data for %s, skipping...\n"
	readPropertiesErrorTemplateConstant          = "read properties for %s: %w"
	publishErrorTemplateConstant                 = "publish properties for %s: %w"
	notLibrarySkipMessageConstant                = "entry is not a library folder, skipping"
	emptyContentSkipMessageConstant              = "properties file is empty, skipping"
	entryFieldConstant                           = "entry"
)

// RepositoryGetter resolves repository details.
type RepositoryGetter interface {
	GetRepository(executionContext context.Context, reference githubapi.RepositoryRef) (githubapi.Repository, error)
}

// ContentPublisher publishes one file to a repository.
type ContentPublisher interface {
	Publish(executionContext context.Context, repository githubapi.Repository, request PublishRequest) (PublishOutcome, error)
}

// UploadOptions configures an upload pass.
type UploadOptions struct {
	Account       string
	CommitMessage string
}

// UploadResult summarizes an upload pass.
type UploadResult struct {
	Published      []string
	SkippedRemote  []string
	SkippedEntries []string
}

// Uploader publishes every stored properties file to the repository named after its folder.
type Uploader struct {
	repositories RepositoryGetter
	store        *Store
	publisher    ContentPublisher
	reporter     shared.Reporter
	logger       *zap.Logger
}

// NewUploader wires an Uploader.
func NewUploader(repositories RepositoryGetter, store *Store, publisher ContentPublisher, reporter shared.Reporter, logger *zap.Logger) (*Uploader, error) {
	if repositories == nil {
		return nil, errors.New(repositoryGetterNotConfiguredMessageConstant)
	}
	if store == nil {
		return nil, errors.New(storeNotConfiguredMessageConstant)
	}
	if publisher == nil {
		return nil, errors.New(publisherNotConfiguredMessageConstant)
	}
	if reporter == nil {
		reporter = shared.NewWriterReporter(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Uploader{repositories: repositories, store: store, publisher: publisher, reporter: reporter, logger: logger}, nil
}

// Upload walks the store root in name order. Entries without a properties file and
// repositories that already have one are reported and skipped.
func (uploader *Uploader) Upload(executionContext context.Context, options UploadOptions) (UploadResult, error) {
	result := UploadResult{}
	fileName := uploader.store.FileName()

	entries, listError := uploader.store.List()
	if listError != nil {
		return result, listError
	}

	for _, entry := range entries {
		if !entry.IsLibrary {
			uploader.reporter.Printf(notLibraryOutputTemplateConstant, entry.Name, fileName)
			uploader.logger.Info(notLibrarySkipMessageConstant, zap.String(entryFieldConstant, entry.Name))
			result.SkippedEntries = append(result.SkippedEntries, entry.Name)
			continue
		}

		content, readError := uploader.store.Read(entry.Name)
		if readError != nil {
			return result, fmt.Errorf(readPropertiesErrorTemplateConstant, entry.Name, readError)
		}
		if len(content) == 0 {
			uploader.reporter.Printf(emptyContentOutputTemplateConstant, fileName, entry.Name)
			uploader.logger.Info(emptyContentSkipMessageConstant, zap.String(entryFieldConstant, entry.Name))
			result.SkippedEntries = append(result.SkippedEntries, entry.Name)
			continue
		}

		repository, repositoryError := uploader.repositories.GetRepository(executionContext, githubapi.RepositoryRef{Owner: options.Account, Name: entry.Name})
		if repositoryError != nil {
			return result, fmt.Errorf(resolveRepositoryErrorTemplateConstant, entry.Name, repositoryError)
		}

		outcome, publishError := uploader.publisher.Publish(executionContext, repository, PublishRequest{
			Path:          fileName,
			CommitMessage: options.CommitMessage,
			Content:       content,
		})
		if publishError != nil {
			return result, fmt.Errorf(publishErrorTemplateConstant, entry.Name, publishError)
		}

		switch outcome {
		case PublishOutcomeSkippedExists:
			uploader.reporter.Printf(existingRemoteOutputTemplateConstant, fileName, entry.Name)
			result.SkippedRemote = append(result.SkippedRemote, entry.Name)
		default:
			uploader.reporter.Printf(processingOutputTemplateConstant, entry.Name)
			result.Published = append(result.Published, entry.Name)
		}
	}

	return result, nil
}
