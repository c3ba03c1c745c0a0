package properties

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/libkeeper/internal/githubapi"
	"github.com/temirov/libkeeper/internal/inputs"
	"github.com/temirov/libkeeper/internal/shared"
)

const (
	repositoryResolverNotConfiguredMessageConstant = "repository resolver not configured"
	storeNotConfiguredMessageConstant              = "properties store not configured"
	processingOutputTemplateConstant               = "Processing %s...\n"
	resolveAccountErrorTemplateConstant            = "resolve account %s: %w"
	resolveRepositoryErrorTemplateConstant         = "resolve repository %s: %w"
	writePropertiesErrorTemplateConstant           = "write properties for %s: %w"
	propertiesWrittenMessageConstant               = "library properties written"
	fileFieldConstant                              = "file"
)

// RepositoryResolver looks up accounts and repositories.
type RepositoryResolver interface {
	ResolveAccount(executionContext context.Context, login string) (githubapi.Account, error)
	GetRepository(executionContext context.Context, reference githubapi.RepositoryRef) (githubapi.Repository, error)
}

// GenerateOptions configures a generation pass.
type GenerateOptions struct {
	Account    string
	Version    string
	Author     string
	Maintainer string
}

// GenerateResult lists the files written by a generation pass.
type GenerateResult struct {
	WrittenFiles []string
}

// Generator writes a synthesized record into the store for every repository name it reads.
type Generator struct {
	repositories RepositoryResolver
	store        *Store
	reporter     shared.Reporter
	logger       *zap.Logger
}

// NewGenerator wires a Generator.
func NewGenerator(repositories RepositoryResolver, store *Store, reporter shared.Reporter, logger *zap.Logger) (*Generator, error) {
	if repositories == nil {
		return nil, errors.New(repositoryResolverNotConfiguredMessageConstant)
	}
	if store == nil {
		return nil, errors.New(storeNotConfiguredMessageConstant)
	}
	if reporter == nil {
		reporter = shared.NewWriterReporter(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{repositories: repositories, store: store, reporter: reporter, logger: logger}, nil
}

// Generate processes the repository names read from names. Blank author or maintainer
// default to the account display name, resolved once before the first repository.
func (generator *Generator) Generate(executionContext context.Context, options GenerateOptions, names io.Reader) (GenerateResult, error) {
	author := strings.TrimSpace(options.Author)
	maintainer := strings.TrimSpace(options.Maintainer)
	if len(author) == 0 || len(maintainer) == 0 {
		account, accountError := generator.repositories.ResolveAccount(executionContext, options.Account)
		if accountError != nil {
			return GenerateResult{}, fmt.Errorf(resolveAccountErrorTemplateConstant, options.Account, accountError)
		}
		if len(author) == 0 {
			author = account.DisplayName()
		}
		if len(maintainer) == 0 {
			maintainer = account.DisplayName()
		}
	}

	result := GenerateResult{WrittenFiles: make([]string, 0)}
	visitError := inputs.VisitNames(names, func(repositoryName string) error {
		generator.reporter.Printf(processingOutputTemplateConstant, repositoryName)

		repository, repositoryError := generator.repositories.GetRepository(executionContext, githubapi.RepositoryRef{Owner: options.Account, Name: repositoryName})
		if repositoryError != nil {
			return fmt.Errorf(resolveRepositoryErrorTemplateConstant, repositoryName, repositoryError)
		}

		record := Synthesize(SynthesisInput{
			RepositoryName: repository.Ref.Name,
			Description:    repository.Description,
			Version:        options.Version,
			Author:         author,
			Maintainer:     maintainer,
			URL:            repository.HTMLURL,
		})

		filePath, writeError := generator.store.Write(repositoryName, record)
		if writeError != nil {
			return fmt.Errorf(writePropertiesErrorTemplateConstant, repositoryName, writeError)
		}
		result.WrittenFiles = append(result.WrittenFiles, filePath)
		generator.logger.Debug(propertiesWrittenMessageConstant, zap.String(repositoryFieldConstant, repository.Ref.String()), zap.String(fileFieldConstant, filePath))
		return nil
	})
	if visitError != nil {
		return result, visitError
	}
	return result, nil
}
