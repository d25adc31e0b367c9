package ports

import "go.trai.ch/unitstat/internal/core/domain"

// ConfigLoader defines the interface for loading the unitstat configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load discovers the config file from the given working directory upwards
	// and returns the resolved configuration. Defaults are returned when no file exists.
	Load(cwd string) (*domain.Config, error)
}
