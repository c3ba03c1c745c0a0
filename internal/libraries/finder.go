package libraries

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/libkeeper/internal/githubapi"
	"github.com/temirov/libkeeper/internal/shared"
)

const (
	repositoryListerNotConfiguredMessageConstant = "repository lister not configured"
	classifierNotConfiguredMessageConstant       = "library classifier not configured"
	libraryNameOutputTemplateConstant            = "%s\n"
	classificationErrorTemplateConstant          = "classify %s: %w"
	metadataProbeErrorTemplateConstant           = "check metadata file for %s: %w"
	existingMetadataSkipMessageConstant          = "library already has a metadata file, skipping"
	scanCompletedMessageConstant                 = "library scan completed"
	accountFieldConstant                         = "account"
	scannedFieldConstant                         = "scanned"
	matchedFieldConstant                         = "matched"
)

// RepositoryLister enumerates repositories owned by an account.
type RepositoryLister interface {
	ListRepositories(executionContext context.Context, login string, repositoryType githubapi.RepositoryType, visit func(githubapi.Repository) error) error
}

// LibraryClassifier decides library membership and metadata presence.
type LibraryClassifier interface {
	IsTargetLibrary(executionContext context.Context, repository githubapi.Repository) (bool, error)
	HasMetadataFile(executionContext context.Context, repository githubapi.Repository) (bool, error)
}

// FindOptions configures a library scan.
type FindOptions struct {
	Account        string
	RepositoryType githubapi.RepositoryType
	NewOnly        bool
}

// FindResult summarizes a library scan.
type FindResult struct {
	ScannedRepositories int
	Libraries           []string
}

// Finder scans an account and reports repository names that classify as libraries.
type Finder struct {
	lister     RepositoryLister
	classifier LibraryClassifier
	reporter   shared.Reporter
	logger     *zap.Logger
}

// NewFinder wires a Finder.
func NewFinder(lister RepositoryLister, classifier LibraryClassifier, reporter shared.Reporter, logger *zap.Logger) (*Finder, error) {
	if lister == nil {
		return nil, errors.New(repositoryListerNotConfiguredMessageConstant)
	}
	if classifier == nil {
		return nil, errors.New(classifierNotConfiguredMessageConstant)
	}
	if reporter == nil {
		reporter = shared.NewWriterReporter(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Finder{lister: lister, classifier: classifier, reporter: reporter, logger: logger}, nil
}

// Find prints the name of every library repository of the account, in listing order.
func (finder *Finder) Find(executionContext context.Context, options FindOptions) (FindResult, error) {
	result := FindResult{Libraries: make([]string, 0)}

	listError := finder.lister.ListRepositories(executionContext, options.Account, options.RepositoryType, func(repository githubapi.Repository) error {
		result.ScannedRepositories++

		isLibrary, classificationError := finder.classifier.IsTargetLibrary(executionContext, repository)
		if classificationError != nil {
			return fmt.Errorf(classificationErrorTemplateConstant, repository.Ref.Name, classificationError)
		}
		if !isLibrary {
			return nil
		}

		if options.NewOnly {
			hasMetadata, metadataError := finder.classifier.HasMetadataFile(executionContext, repository)
			if metadataError != nil {
				return fmt.Errorf(metadataProbeErrorTemplateConstant, repository.Ref.Name, metadataError)
			}
			if hasMetadata {
				finder.logger.Info(existingMetadataSkipMessageConstant, zap.String(repositoryFieldConstant, repository.Ref.String()))
				return nil
			}
		}

		result.Libraries = append(result.Libraries, repository.Ref.Name)
		finder.reporter.Printf(libraryNameOutputTemplateConstant, repository.Ref.Name)
		return nil
	})
	if listError != nil {
		return result, listError
	}

	finder.logger.Info(
		scanCompletedMessageConstant,
		zap.String(accountFieldConstant, options.Account),
		zap.Int(scannedFieldConstant, result.ScannedRepositories),
		zap.Int(matchedFieldConstant, len(result.Libraries)),
	)
	return result, nil
}
