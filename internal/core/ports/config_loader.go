package ports

import "go.trai.ch/rewatch/internal/core/domain"

// ConfigLoader defines the interface for loading the watch configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load resolves the configuration for a session started in cwd.
	// Defaults are returned when no configuration file exists.
	Load(cwd string) (*domain.Config, error)
}
