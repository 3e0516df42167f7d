package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/rewatch/internal/adapters/logger"
)

func TestPrettyHandler_Attrs(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	h := logger.NewPrettyHandler(buf, nil)
	lg := slog.New(h.WithAttrs([]slog.Attr{slog.String("root", "/srv")}).WithGroup("watch"))

	lg.Info("started", "backend", "inotify")

	assert.Equal(t, "started root=/srv watch.backend=inotify\n", buf.String())
}

func TestPrettyHandler_PathAttrs(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	tests := []struct {
		name string
		args []any
		want string
	}{
		{
			name: "path and identity",
			args: []any{"path", "/srv/a.txt", "identity", 42, "subscriber", "journal"},
			want: "! emit failed /srv/a.txt #42 subscriber=journal\n",
		},
		{
			name: "move",
			args: []any{"path", "/srv/a", "dest", "/srv/b"},
			want: "! emit failed /srv/a /srv/b\n",
		},
		{
			name: "grouped path keeps its key",
			args: []any{slog.Group("event", slog.String("path", "/srv/a.txt"), slog.Int("seq", 3))},
			want: "! emit failed event.path=/srv/a.txt event.seq=3\n",
		},
		{
			name: "empty group is dropped",
			args: []any{slog.Group("event"), "path", "/srv/a.txt"},
			want: "! emit failed /srv/a.txt\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			slog.New(logger.NewPrettyHandler(buf, nil)).Warn("emit failed", tt.args...)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrettyHandler_DynamicLevel(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	level := &slog.LevelVar{}
	level.Set(slog.LevelInfo)
	buf := &bytes.Buffer{}
	lg := slog.New(logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: level}))

	lg.Debug("dropped")
	level.Set(slog.LevelDebug)
	lg.Debug("kept")

	assert.Equal(t, "● kept\n", buf.String())
}
