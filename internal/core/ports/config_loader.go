package ports

import "go.trai.ch/kiln/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration file at path and overlays it on the defaults.
	// A missing file yields the defaults.
	Load(path string) (domain.Config, error)
}
