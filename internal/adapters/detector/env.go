// Package detector provides environment detection for output format selection.
package detector

import (
	"os"

	"go.trai.ch/rewatch/internal/core/domain"
	"golang.org/x/term"
)

// DetectFormat returns the recommended output format based on the environment.
// It checks if stdout is a TTY and if CI environment variables are set.
func DetectFormat() domain.Format {
	isTTY := term.IsTerminal(int(os.Stdout.Fd())) //nolint:gosec // file descriptors fit in int

	ci := os.Getenv("CI")
	isCI := ci == "true" || ci == "1"

	if !isTTY || isCI {
		return domain.FormatJSON
	}
	return domain.FormatPretty
}

// ResolveFormat applies the configured format to auto-detection.
func ResolveFormat(autoDetected, configured domain.Format) domain.Format {
	switch configured {
	case domain.FormatPretty, domain.FormatJSON:
		return configured
	default:
		return autoDetected
	}
}
