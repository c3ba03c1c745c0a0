package releases

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/temirov/libkeeper/internal/githubapi"
)

const (
	releaseClientNotConfiguredMessageConstant = "release client not configured"
	releaseExistsMessageConstant              = "release already exists"
	releaseCreatedMessageConstant             = "release created"
	repositoryFieldConstant                   = "repository"
	tagFieldConstant                          = "tag"
	urlFieldConstant                          = "url"
)

// Outcome reports what Ensure did.
type Outcome string

// Ensure outcomes.
const (
	OutcomeCreated       Outcome = "created"
	OutcomeAlreadyExists Outcome = "already_exists"
)

// ReleaseClient queries and creates repository releases.
type ReleaseClient interface {
	LatestRelease(executionContext context.Context, repository githubapi.Repository) (githubapi.Lookup[githubapi.Release], error)
	CreateRelease(executionContext context.Context, repository githubapi.Repository, descriptor githubapi.ReleaseDescriptor) (githubapi.Release, error)
}

// Ensurer guarantees a repository has at least one release.
type Ensurer struct {
	releases ReleaseClient
	logger   *zap.Logger
}

// NewEnsurer wires an Ensurer.
func NewEnsurer(releases ReleaseClient, logger *zap.Logger) (*Ensurer, error) {
	if releases == nil {
		return nil, errors.New(releaseClientNotConfiguredMessageConstant)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ensurer{releases: releases, logger: logger}, nil
}

// Ensure creates a release from the descriptor only when the repository has none.
// An existing latest release short-circuits without any further request.
func (ensurer *Ensurer) Ensure(executionContext context.Context, repository githubapi.Repository, descriptor githubapi.ReleaseDescriptor) (Outcome, error) {
	latestLookup, lookupError := ensurer.releases.LatestRelease(executionContext, repository)
	if lookupError != nil {
		return "", lookupError
	}
	if latestLookup.IsFound() {
		ensurer.logger.Info(releaseExistsMessageConstant, zap.String(repositoryFieldConstant, repository.Ref.String()), zap.String(tagFieldConstant, latestLookup.Value.TagName))
		return OutcomeAlreadyExists, nil
	}

	release, createError := ensurer.releases.CreateRelease(executionContext, repository, descriptor)
	if createError != nil {
		return "", createError
	}
	ensurer.logger.Debug(releaseCreatedMessageConstant, zap.String(repositoryFieldConstant, repository.Ref.String()), zap.String(tagFieldConstant, release.TagName), zap.String(urlFieldConstant, release.HTMLURL))
	return OutcomeCreated, nil
}
