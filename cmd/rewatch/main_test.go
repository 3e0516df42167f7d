package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/rewatch/internal/app"
	"go.trai.ch/rewatch/internal/core/domain"
	"go.trai.ch/rewatch/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type testComponents struct {
	loader *mocks.MockConfigLoader
	logger *mocks.MockLogger
	app    *app.App
}

func newTestComponents(t *testing.T) testComponents {
	t.Helper()
	ctrl := gomock.NewController(t)

	loader := mocks.NewMockConfigLoader(ctrl)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()

	application := app.New(
		loader,
		mocks.NewMockSourceFactory(ctrl),
		mocks.NewMockIdentityProber(ctrl),
		log,
	)
	return testComponents{loader: loader, logger: log, app: application}
}

func (c testComponents) provider() ComponentProvider {
	return func(context.Context) (*app.Components, func(), error) {
		return &app.Components{App: c.app, Logger: c.logger}, func() {}, nil
	}
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	c := newTestComponents(t)

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, c.provider())
	assert.Equal(t, 0, exitCode)
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run returns 1 and logs when the command fails.
func TestRun_ExecutionError(t *testing.T) {
	c := newTestComponents(t)
	c.loader.EXPECT().Load(gomock.Any()).Return(nil, domain.ErrConfigReadFailed)
	c.logger.EXPECT().Error(gomock.Any()).Times(1)

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"watch", t.TempDir()}, stderr, c.provider())

	assert.Equal(t, 1, exitCode)
}

// TestRun_Replay verifies the replay command end to end against a golden file.
func TestRun_Replay(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	c := newTestComponents(t)

	stdout := new(bytes.Buffer)
	exitCode := run(
		context.Background(),
		[]string{"replay", filepath.Join("testdata", "rename.yaml"), "--format", "pretty"},
		new(bytes.Buffer),
		c.provider(),
		func(a *app.App) { a.WithOutput(stdout) },
	)

	assert.Equal(t, 0, exitCode)
	g := goldie.New(t)
	g.Assert(t, "replay_pretty", stdout.Bytes())
}
