//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"graphmem/infrastructure/config"

	"github.com/google/wire"
)

// SuperSet is the complete provider set for the application.
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideStateStore,
	ProvideGraphService,
	ProvideJWTValidator,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired application container.
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil
}
