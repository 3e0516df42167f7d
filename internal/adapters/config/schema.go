package config

import "time"

// File represents the structure of the rewatch.yaml configuration file.
type File struct {
	Version  string        `yaml:"version"`
	Root     string        `yaml:"root"`
	Debounce time.Duration `yaml:"debounce"`
	Tick     time.Duration `yaml:"tick"`
	TieBreak string        `yaml:"tie_break"`
	Backend  string        `yaml:"backend"`
	Include  []string      `yaml:"include"`
	Ignore   []string      `yaml:"ignore"`
	Priority string        `yaml:"priority"`
	Journal  string        `yaml:"journal"`
	Format   string        `yaml:"format"`
}
