// Package config provides the configuration loader for rewatch.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.trai.ch/rewatch/internal/core/domain"
	"go.trai.ch/rewatch/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings.
const (
	EnvDebounce = "REWATCH_DEBOUNCE"
	EnvTick     = "REWATCH_TICK"
	EnvIgnore   = "REWATCH_IGNORE"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
	// Getenv reads environment overrides. It defaults to os.Getenv.
	Getenv func(string) string
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, Getenv: os.Getenv}
}

// Load finds rewatch.yaml in cwd or a parent directory and resolves it on top of the defaults.
// Without a configuration file the defaults apply, rooted at cwd.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	cfg := domain.DefaultConfig(cwd)

	configPath, err := findConfiguration(cwd)
	switch {
	case err == nil:
		if err := l.loadFile(configPath, cfg); err != nil {
			return nil, err
		}
	default:
		l.Logger.Debug(fmt.Sprintf("no %s found from %s, using defaults", domain.ConfigFileName, cwd))
	}

	if err := l.applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findConfiguration(cwd string) (string, error) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}
	return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
}

func (l *Loader) loadFile(configPath string, cfg *domain.Config) error {
	var file File
	if err := readAndUnmarshalYAML(configPath, &file); err != nil {
		return zerr.With(err, "path", configPath)
	}
	l.Logger.Debug("loaded configuration from " + configPath)

	cfg.Root = resolveRoot(configPath, file.Root)
	if file.Debounce != 0 {
		cfg.Debounce = file.Debounce
	}
	if file.Tick != 0 {
		cfg.Sweep = file.Tick
	}
	if file.TieBreak != "" {
		cfg.TieBreak = domain.TieBreak(file.TieBreak)
	}
	if file.Backend != "" {
		cfg.Backend = domain.Backend(file.Backend)
	}
	if file.Priority != "" {
		cfg.Priority = domain.Priority(file.Priority)
	}
	if file.Format != "" {
		cfg.Format = domain.Format(file.Format)
	}
	cfg.Include = append(cfg.Include, file.Include...)
	cfg.Ignore = append(cfg.Ignore, file.Ignore...)
	if file.Journal != "" {
		cfg.Journal = resolveJournal(cfg.Root, file.Journal)
	}
	return nil
}

func (l *Loader) applyEnv(cfg *domain.Config) error {
	getenv := l.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	if v := getenv(EnvDebounce); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrInvalidConfig.Error()), "env", EnvDebounce)
		}
		cfg.Debounce = d
	}
	if v := getenv(EnvTick); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrInvalidConfig.Error()), "env", EnvTick)
		}
		cfg.Sweep = d
	}
	if v := getenv(EnvIgnore); v != "" {
		for _, pattern := range strings.Split(v, ",") {
			if pattern = strings.TrimSpace(pattern); pattern != "" {
				cfg.Ignore = append(cfg.Ignore, pattern)
			}
		}
	}
	return nil
}

// parseSeconds accepts a Go duration ("750ms") or a plain number of seconds ("0.5").
func parseSeconds(v string) (time.Duration, error) {
	if d, err := time.ParseDuration(v); err == nil {
		return d, nil
	}
	secs, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// resolveRoot returns the watched root relative to the config file's directory.
func resolveRoot(configPath, root string) string {
	dir := filepath.Dir(configPath)
	if root == "" {
		return dir
	}
	if filepath.IsAbs(root) {
		return filepath.Clean(root)
	}
	return filepath.Join(dir, root)
}

func resolveJournal(root, journal string) string {
	if filepath.IsAbs(journal) {
		return filepath.Clean(journal)
	}
	return filepath.Join(root, journal)
}

func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is discovered by findConfiguration
	data, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(data, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}
