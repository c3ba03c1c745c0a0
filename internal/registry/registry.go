package registry

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/temirov/libkeeper/internal/githubapi"
	"github.com/temirov/libkeeper/internal/inputs"
	"github.com/temirov/libkeeper/internal/shared"
)

const (
	repositoryGetterMissingMessageConstant = "repository getter not configured"
	entryOutputTemplateConstant            = "%s\t%s\n"
	resolveRepositoryErrorTemplateConstant = "resolve repository %s: %w"
)

// RepositoryGetter resolves repository details.
type RepositoryGetter interface {
	GetRepository(executionContext context.Context, reference githubapi.RepositoryRef) (githubapi.Repository, error)
}

// Entry is one line of the library registry listing.
type Entry struct {
	CloneURL    string
	LibraryType string
}

// Lister prints registry entries for the libraries named on its input.
type Lister struct {
	repositories RepositoryGetter
	reporter     shared.Reporter
}

// NewLister wires a Lister.
func NewLister(repositories RepositoryGetter, reporter shared.Reporter) (*Lister, error) {
	if repositories == nil {
		return nil, errors.New(repositoryGetterMissingMessageConstant)
	}
	if reporter == nil {
		reporter = shared.NewWriterReporter(nil)
	}
	return &Lister{repositories: repositories, reporter: reporter}, nil
}

// List prints "<clone url>\t<type>" for every repository name read from names.
func (lister *Lister) List(executionContext context.Context, account string, libraryType string, names io.Reader) ([]Entry, error) {
	entries := make([]Entry, 0)
	visitError := inputs.VisitNames(names, func(repositoryName string) error {
		repository, repositoryError := lister.repositories.GetRepository(executionContext, githubapi.RepositoryRef{Owner: account, Name: repositoryName})
		if repositoryError != nil {
			return fmt.Errorf(resolveRepositoryErrorTemplateConstant, repositoryName, repositoryError)
		}
		entry := Entry{CloneURL: repository.CloneURL, LibraryType: libraryType}
		lister.reporter.Printf(entryOutputTemplateConstant, entry.CloneURL, entry.LibraryType)
		entries = append(entries, entry)
		return nil
	})
	return entries, visitError
}
