package di

import (
	"context"

	"graphmem/application/ports"
	"graphmem/application/services"
	"graphmem/infrastructure/config"
	dynamostore "graphmem/infrastructure/persistence/dynamodb"
	memorystore "graphmem/infrastructure/persistence/memory"
	"graphmem/interfaces/http/rest"
	"graphmem/pkg/auth"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideStateStore picks the storage backend from configuration
func ProvideStateStore(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.StateStore {
	if cfg.StorageBackend == "memory" {
		logger.Info("using in-memory state store")
		return memorystore.NewStateStore()
	}
	return dynamostore.NewStateStore(client, cfg.DynamoDBTable, logger)
}

// ProvideGraphService creates the graph service
func ProvideGraphService(store ports.StateStore, logger *zap.Logger) *services.GraphService {
	return services.NewGraphService(store, logger)
}

// ProvideJWTValidator creates the token validator used by the auth middleware
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	secret := cfg.JWTSecret
	if secret == "" {
		// Development fallback; Validate() rejects this in production.
		secret = "development-secret-change-in-production"
	}
	return auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: secret,
		Issuer:    cfg.JWTIssuer,
		Audience:  []string{cfg.JWTAudience},
	})
}

// ProvideRouter creates the HTTP router
func ProvideRouter(
	service *services.GraphService,
	validator *auth.JWTValidator,
	cfg *config.Config,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(service, validator, cfg, logger)
}
