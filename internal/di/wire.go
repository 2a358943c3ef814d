//go:build wireinject
// +build wireinject

package di

import (
	"IrisServe/pkg/config"
	"IrisServe/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideS3Client,
		ProvideInvoker,
		ProvideAuditSink,
		ProvideCache,

		// Repositories
		ProvideFeatureSource,

		// Use cases
		ProvidePredictor,

		// HTTP
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
