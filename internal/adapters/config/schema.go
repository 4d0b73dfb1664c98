package config

import "time"

// Kilnfile represents the structure of the kiln.yaml configuration file.
// Every field is optional; absent fields keep their default.
type Kilnfile struct {
	Server     *ServerDTO `yaml:"server"`
	LineEnding *string    `yaml:"lineEnding"`
	Script     *ScriptDTO `yaml:"script"`
	Style      *StyleDTO  `yaml:"style"`
	Watch      *WatchDTO  `yaml:"watch"`
}

// ServerDTO represents the development server section.
type ServerDTO struct {
	Host *string `yaml:"host"`
	Port *int    `yaml:"port"`
}

// ScriptDTO represents the script section.
type ScriptDTO struct {
	Target *string `yaml:"target"`
}

// StyleDTO represents the style section.
type StyleDTO struct {
	SassBinary    *string  `yaml:"sassBinary"`
	PrefixTargets []string `yaml:"prefixTargets"`
}

// WatchDTO represents the watch section.
type WatchDTO struct {
	Delay *time.Duration `yaml:"delay"`
}
