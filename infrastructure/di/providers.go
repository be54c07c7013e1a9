package di

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"bookshelf-backend/application/csrf"
	"bookshelf-backend/application/ports"
	"bookshelf-backend/application/session"
	"bookshelf-backend/infrastructure/config"
	"bookshelf-backend/infrastructure/persistence/dynamodb"
	"bookshelf-backend/pkg/clock"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideClock supplies the system clock
func ProvideClock() clock.Clock {
	return clock.System()
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

// ProvideStore creates the single-table key-value store client
func ProvideStore(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) dynamodb.Store {
	return dynamodb.NewClient(client, cfg.DynamoDBTable, logger)
}

// ProvideAuthorRepository creates the author repository
func ProvideAuthorRepository(store dynamodb.Store, clk clock.Clock, logger *zap.Logger) ports.AuthorRepository {
	return dynamodb.NewAuthorRepository(store, clk, logger)
}

// ProvideBookRepository creates the book repository
func ProvideBookRepository(store dynamodb.Store, authors ports.AuthorRepository, clk clock.Clock, cfg *config.Config, logger *zap.Logger) ports.BookRepository {
	return dynamodb.NewBookRepository(store, authors, clk, cfg.RecentBooksScanLimit, logger)
}

// ProvideUserRepository creates the user repository
func ProvideUserRepository(store dynamodb.Store, clk clock.Clock, logger *zap.Logger) ports.UserRepository {
	return dynamodb.NewUserRepository(store, clk, logger)
}

// ProvideSessionStore creates the session repository
func ProvideSessionStore(store dynamodb.Store, clk clock.Clock, cfg *config.Config, logger *zap.Logger) ports.SessionStore {
	return dynamodb.NewSessionRepository(store, clk, cfg.SessionTTL, logger)
}

// ProvideTokenRepository creates the CSRF token repository
func ProvideTokenRepository(store dynamodb.Store, clk clock.Clock, cfg *config.Config, logger *zap.Logger) ports.TokenRepository {
	return dynamodb.NewCSRFRepository(store, clk, cfg.CSRFTokenTTL, logger)
}

// ProvideSessionHandler creates the session lifecycle handler
func ProvideSessionHandler(store ports.SessionStore, logger *zap.Logger) *session.Handler {
	return session.NewHandler(store, logger)
}

// ProvideCSRFStore creates the CSRF token store
func ProvideCSRFStore(repo ports.TokenRepository, logger *zap.Logger) *csrf.Store {
	return csrf.NewStore(repo, logger)
}
