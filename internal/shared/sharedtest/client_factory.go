// Package sharedtest provides command test doubles for the shared package.
package sharedtest

import (
	"context"

	"go.uber.org/zap"

	"github.com/temirov/libkeeper/internal/githubapi"
	"github.com/temirov/libkeeper/internal/shared"
)

// ClientFactory builds clients over a fixed transport and records the configuration it was given.
type ClientFactory struct {
	Transport              githubapi.Transport
	Err                    error
	ObservedConfigurations []shared.GitHubConfiguration
}

// Create implements shared.ClientFactory.
func (factory *ClientFactory) Create(_ context.Context, _ *zap.Logger, configuration shared.GitHubConfiguration) (*githubapi.Client, error) {
	factory.ObservedConfigurations = append(factory.ObservedConfigurations, configuration)
	if factory.Err != nil {
		return nil, factory.Err
	}
	return githubapi.NewClient(factory.Transport)
}
