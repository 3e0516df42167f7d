package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rewatch/internal/adapters/config"
	"go.trai.ch/rewatch/internal/core/domain"
	"go.trai.ch/rewatch/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newLoader(t *testing.T, env map[string]string) *config.Loader {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()

	loader := config.NewLoader(log)
	loader.Getenv = func(key string) string { return env[key] }
	return loader
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.ConfigFileName), []byte(content), domain.FilePerm))
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := newLoader(t, nil).Load(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultConfig(tmpDir), cfg)
}

func TestLoad_File(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `
version: "1"
root: data
debounce: 750ms
tick: 100ms
tie_break: reject
backend: fsnotify
include: ["*.go"]
ignore: ["*.tmp"]
priority: include
journal: .rewatch/log.jsonl
format: json
`)

	cfg, err := newLoader(t, nil).Load(tmpDir)
	require.NoError(t, err)

	root := filepath.Join(tmpDir, "data")
	assert.Equal(t, root, cfg.Root)
	assert.Equal(t, 750*time.Millisecond, cfg.Debounce)
	assert.Equal(t, 100*time.Millisecond, cfg.Sweep)
	assert.Equal(t, domain.TieBreakReject, cfg.TieBreak)
	assert.Equal(t, domain.BackendFSNotify, cfg.Backend)
	assert.Equal(t, []string{"*.go"}, cfg.Include)
	assert.Equal(t, append(append([]string(nil), domain.DefaultIgnorePatterns...), "*.tmp"), cfg.Ignore)
	assert.Equal(t, domain.PriorityInclude, cfg.Priority)
	assert.Equal(t, filepath.Join(root, ".rewatch", "log.jsonl"), cfg.Journal)
	assert.Equal(t, domain.FormatJSON, cfg.Format)
}

func TestLoad_WalksUp(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, "debounce: 2s\n")

	nested := filepath.Join(tmpDir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, domain.DirPerm))

	cfg, err := newLoader(t, nil).Load(nested)
	require.NoError(t, err)

	assert.Equal(t, tmpDir, cfg.Root)
	assert.Equal(t, 2*time.Second, cfg.Debounce)
}

func TestLoad_AbsoluteRoot(t *testing.T) {
	tmpDir := t.TempDir()
	other := t.TempDir()
	writeConfig(t, tmpDir, "root: "+other+"\n")

	cfg, err := newLoader(t, nil).Load(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, other, cfg.Root)
}

func TestLoad_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, "debounce: 2s\n")

	cfg, err := newLoader(t, map[string]string{
		config.EnvDebounce: "0.25",
		config.EnvTick:     "50ms",
		config.EnvIgnore:   "*.swp, build ,",
	}).Load(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.Debounce)
	assert.Equal(t, 50*time.Millisecond, cfg.Sweep)
	assert.Equal(t, []string{"*.swp", "build"}, cfg.Ignore[len(domain.DefaultIgnorePatterns):])
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
		wantErr error
	}{
		{
			name:    "malformed yaml",
			content: "debounce: [",
			wantErr: domain.ErrConfigParseFailed,
		},
		{
			name:    "duration without unit",
			content: "debounce: 500\n",
			wantErr: domain.ErrConfigParseFailed,
		},
		{
			name:    "unknown tie break",
			content: "tie_break: random\n",
			wantErr: domain.ErrInvalidConfig,
		},
		{
			name:    "unknown backend",
			content: "backend: kqueue\n",
			wantErr: domain.ErrInvalidConfig,
		},
		{
			name:    "negative debounce",
			content: "debounce: -1s\n",
			wantErr: domain.ErrInvalidConfig,
		},
		{
			name:    "bad env debounce",
			env:     map[string]string{config.EnvDebounce: "soon"},
			wantErr: domain.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			if tt.content != "" {
				writeConfig(t, tmpDir, tt.content)
			}

			cfg, err := newLoader(t, tt.env).Load(tmpDir)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.ErrorContains(t, err, tt.wantErr.Error())
		})
	}
}
