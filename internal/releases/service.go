package releases

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/temirov/libkeeper/internal/githubapi"
	"github.com/temirov/libkeeper/internal/inputs"
	"github.com/temirov/libkeeper/internal/shared"
)

const (
	repositoryGetterMissingMessageConstant = "repository getter not configured"
	metadataProbeMissingMessageConstant    = "metadata probe not configured"
	releaseEnsurerMissingMessageConstant   = "release ensurer not configured"
	missingMetadataOutputTemplateConstant  = "No %s file found for %s, skipping...\n"
	existingReleaseOutputTemplateConstant  = "Found a release for %s, skipping...\n"
	processingOutputTemplateConstant       = "Processing %s...\n"
	resolveRepositoryErrorTemplateConstant = "resolve repository %s: %w"
	metadataProbeErrorTemplateConstant     = "check metadata file for %s: %w"
	ensureReleaseErrorTemplateConstant     = "ensure release for %s: %w"
	missingMetadataSkipMessageConstant     = "repository has no metadata file, skipping"
)

// RepositoryGetter resolves repository details.
type RepositoryGetter interface {
	GetRepository(executionContext context.Context, reference githubapi.RepositoryRef) (githubapi.Repository, error)
}

// MetadataProbe reports whether a repository carries the library metadata file.
type MetadataProbe interface {
	HasMetadataFile(executionContext context.Context, repository githubapi.Repository) (bool, error)
	MetadataFile() string
}

// ReleaseEnsurer guarantees a release exists.
type ReleaseEnsurer interface {
	Ensure(executionContext context.Context, repository githubapi.Repository, descriptor githubapi.ReleaseDescriptor) (Outcome, error)
}

// ServiceDependencies enumerates collaborators required by Service.
type ServiceDependencies struct {
	Repositories RepositoryGetter
	Metadata     MetadataProbe
	Ensurer      ReleaseEnsurer
	Reporter     shared.Reporter
	Logger       *zap.Logger
}

// Options configures a release pass.
type Options struct {
	Account    string
	Descriptor githubapi.ReleaseDescriptor
}

// Result summarizes a release pass.
type Result struct {
	Created         []string
	AlreadyReleased []string
	MissingMetadata []string
}

// Service ensures a first release for every library named on its input.
type Service struct {
	repositories RepositoryGetter
	metadata     MetadataProbe
	ensurer      ReleaseEnsurer
	reporter     shared.Reporter
	logger       *zap.Logger
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Repositories == nil {
		return nil, errors.New(repositoryGetterMissingMessageConstant)
	}
	if dependencies.Metadata == nil {
		return nil, errors.New(metadataProbeMissingMessageConstant)
	}
	if dependencies.Ensurer == nil {
		return nil, errors.New(releaseEnsurerMissingMessageConstant)
	}
	reporter := dependencies.Reporter
	if reporter == nil {
		reporter = shared.NewWriterReporter(nil)
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repositories: dependencies.Repositories,
		metadata:     dependencies.Metadata,
		ensurer:      dependencies.Ensurer,
		reporter:     reporter,
		logger:       logger,
	}, nil
}

// Release processes every repository name read from names. Repositories without the
// metadata file are reported and skipped.
func (service *Service) Release(executionContext context.Context, options Options, names io.Reader) (Result, error) {
	result := Result{}
	metadataFile := service.metadata.MetadataFile()

	visitError := inputs.VisitNames(names, func(repositoryName string) error {
		repository, repositoryError := service.repositories.GetRepository(executionContext, githubapi.RepositoryRef{Owner: options.Account, Name: repositoryName})
		if repositoryError != nil {
			return fmt.Errorf(resolveRepositoryErrorTemplateConstant, repositoryName, repositoryError)
		}

		hasMetadata, metadataError := service.metadata.HasMetadataFile(executionContext, repository)
		if metadataError != nil {
			return fmt.Errorf(metadataProbeErrorTemplateConstant, repositoryName, metadataError)
		}
		if !hasMetadata {
			service.reporter.Printf(missingMetadataOutputTemplateConstant, metadataFile, repositoryName)
			service.logger.Info(missingMetadataSkipMessageConstant, zap.String(repositoryFieldConstant, repository.Ref.String()))
			result.MissingMetadata = append(result.MissingMetadata, repositoryName)
			return nil
		}

		outcome, ensureError := service.ensurer.Ensure(executionContext, repository, options.Descriptor)
		if ensureError != nil {
			return fmt.Errorf(ensureReleaseErrorTemplateConstant, repositoryName, ensureError)
		}

		switch outcome {
		case OutcomeAlreadyExists:
			service.reporter.Printf(existingReleaseOutputTemplateConstant, repositoryName)
			result.AlreadyReleased = append(result.AlreadyReleased, repositoryName)
		default:
			service.reporter.Printf(processingOutputTemplateConstant, repositoryName)
			result.Created = append(result.Created, repositoryName)
		}
		return nil
	})
	if visitError != nil {
		return result, visitError
	}
	return result, nil
}
