//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"bookshelf-backend/application/csrf"
	"bookshelf-backend/application/ports"
	"bookshelf-backend/application/session"
	"bookshelf-backend/infrastructure/config"
	"bookshelf-backend/pkg/clock"
)

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	Clock      clock.Clock
	AuthorRepo ports.AuthorRepository
	BookRepo   ports.BookRepository
	UserRepo   ports.UserRepository
	Sessions   *session.Handler
	CSRFStore  *csrf.Store
}

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideClock,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideStore,
	ProvideAuthorRepository,
	ProvideBookRepository,
	ProvideUserRepository,
	ProvideSessionStore,
	ProvideTokenRepository,
	ProvideSessionHandler,
	ProvideCSRFStore,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
