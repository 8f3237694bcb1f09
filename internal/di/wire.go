//go:build wireinject
// +build wireinject

package di

import (
	"FlowShift/pkg/config"
	"FlowShift/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideCache,
		ProvideQuotePublisher,

		// Repositories
		ProvideSessionStore,

		// Services
		ProvideQuoteFeed,
		ProvideSimulator,
		ProvideTicker,
		ProvideAdvisor,
		ProvideRateLimiter,

		// Use cases
		ProvideDashboard,
		ProvideSessionService,

		// Transport
		ProvideHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
