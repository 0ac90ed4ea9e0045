// Package ports defines the core interfaces for the application.
package ports

import "go.trai.ch/shipmk/internal/core/domain"

// ConfigLoader defines the interface for loading the run configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration from the given working directory and
	// returns the manifest: builtin variables and targets merged with the
	// optional configuration file.
	Load(cwd string) (*domain.Manifest, error)
}
