package libraries

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/libkeeper/internal/githubapi"
)

const (
	contentsReaderNotConfiguredMessageConstant = "repository contents reader not configured"
	contentPathSeparatorConstant               = "/"
	examplesFolderMissingMessageConstant       = "examples folder not found"
	sketchFoundMessageConstant                 = "sketch found"
	noSketchFoundMessageConstant               = "no sketch found in examples"
	metadataFileMissingMessageConstant         = "metadata file not found"
	repositoryFieldConstant                    = "repository"
	pathFieldConstant                          = "path"
	entryFieldConstant                         = "entry"
)

// ContentsReader lists and probes repository contents on the default branch.
type ContentsReader interface {
	ListDirectory(executionContext context.Context, repository githubapi.Repository, directoryPath string) (githubapi.Lookup[[]githubapi.DirectoryEntry], error)
	GetFile(executionContext context.Context, repository githubapi.Repository, filePath string) (githubapi.Lookup[githubapi.FileContent], error)
}

// Classifier decides whether a repository looks like a library.
type Classifier struct {
	contents      ContentsReader
	configuration Configuration
	logger        *zap.Logger
}

// NewClassifier builds a classifier over the contents reader.
func NewClassifier(contents ContentsReader, configuration Configuration, logger *zap.Logger) (*Classifier, error) {
	if contents == nil {
		return nil, errors.New(contentsReaderNotConfiguredMessageConstant)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{contents: contents, configuration: configuration.Sanitize(), logger: logger}, nil
}

// IsTargetLibrary reports whether any immediate subdirectory of the examples folder holds a sketch file.
// Enumeration stops at the first subdirectory with a match.
func (classifier *Classifier) IsTargetLibrary(executionContext context.Context, repository githubapi.Repository) (bool, error) {
	examplesFolder := classifier.configuration.ExamplesFolder
	examplesLookup, listError := classifier.contents.ListDirectory(executionContext, repository, examplesFolder)
	if listError != nil {
		return false, listError
	}
	if !examplesLookup.IsFound() {
		classifier.logger.Debug(examplesFolderMissingMessageConstant, zap.String(repositoryFieldConstant, repository.Ref.String()), zap.String(pathFieldConstant, examplesFolder))
		return false, nil
	}

	for _, exampleEntry := range examplesLookup.Value {
		if !exampleEntry.IsDirectory() {
			continue
		}

		sketchDirectory := examplesFolder + contentPathSeparatorConstant + exampleEntry.Name
		sketchLookup, sketchListError := classifier.contents.ListDirectory(executionContext, repository, sketchDirectory)
		if sketchListError != nil {
			return false, sketchListError
		}
		if !sketchLookup.IsFound() {
			continue
		}

		for _, sketchEntry := range sketchLookup.Value {
			if classifier.hasSketchSuffix(sketchEntry.Name) {
				classifier.logger.Debug(sketchFoundMessageConstant, zap.String(repositoryFieldConstant, repository.Ref.String()), zap.String(entryFieldConstant, sketchDirectory+contentPathSeparatorConstant+sketchEntry.Name))
				return true, nil
			}
		}
	}

	classifier.logger.Debug(noSketchFoundMessageConstant, zap.String(repositoryFieldConstant, repository.Ref.String()))
	return false, nil
}

// HasMetadataFile reports whether the metadata file exists at the repository root.
func (classifier *Classifier) HasMetadataFile(executionContext context.Context, repository githubapi.Repository) (bool, error) {
	metadataLookup, lookupError := classifier.contents.GetFile(executionContext, repository, classifier.configuration.MetadataFile)
	if lookupError != nil {
		return false, lookupError
	}
	if !metadataLookup.IsFound() {
		classifier.logger.Debug(metadataFileMissingMessageConstant, zap.String(repositoryFieldConstant, repository.Ref.String()), zap.String(pathFieldConstant, classifier.configuration.MetadataFile))
		return false, nil
	}
	return true, nil
}

// MetadataFile returns the configured metadata file name.
func (classifier *Classifier) MetadataFile() string {
	return classifier.configuration.MetadataFile
}

func (classifier *Classifier) hasSketchSuffix(entryName string) bool {
	lowerCasedName := strings.ToLower(entryName)
	for _, suffix := range classifier.configuration.SketchSuffixes {
		if strings.HasSuffix(lowerCasedName, suffix) {
			return true
		}
	}
	return false
}
