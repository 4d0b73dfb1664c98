// Package config provides the configuration loader for kiln.
package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using an optional YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new configuration loader.
func NewLoader(log ports.Logger) *Loader {
	return &Loader{Logger: log}
}

// Load reads the configuration file at path. A missing file yields the defaults.
func (l *Loader) Load(path string) (domain.Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.DefaultConfig(), nil
		}
		return domain.Config{}, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	cfg, err := Parse(data)
	if err != nil {
		return domain.Config{}, zerr.With(err, "path", path)
	}

	if l.Logger != nil {
		l.Logger.Info("loaded configuration from " + path)
	}
	return cfg, nil
}

// Parse decodes a kiln.yaml document, overlays it on the defaults and validates the result.
func Parse(data []byte) (domain.Config, error) {
	var file Kilnfile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return domain.Config{}, zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}

	cfg := domain.DefaultConfig()
	file.apply(&cfg)

	if err := cfg.Validate(); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

//nolint:cyclop // flat field-by-field overlay
func (f *Kilnfile) apply(cfg *domain.Config) {
	if f.Server != nil {
		if f.Server.Host != nil {
			cfg.Server.Host = *f.Server.Host
		}
		if f.Server.Port != nil {
			cfg.Server.Port = *f.Server.Port
		}
	}
	if f.LineEnding != nil {
		cfg.LineEnding = domain.LineEnding(*f.LineEnding)
	}
	if f.Script != nil && f.Script.Target != nil {
		cfg.Script.Target = *f.Script.Target
	}
	if f.Style != nil {
		if f.Style.SassBinary != nil {
			cfg.Style.SassBinary = *f.Style.SassBinary
		}
		if f.Style.PrefixTargets != nil {
			cfg.Style.PrefixTargets = f.Style.PrefixTargets
		}
	}
	if f.Watch != nil && f.Watch.Delay != nil {
		cfg.Watch.Delay = *f.Watch.Delay
	}
}
