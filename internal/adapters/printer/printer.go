// Package printer writes semantic events to a terminal or a pipe.
package printer

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/rewatch/internal/core/domain"
	"go.trai.ch/rewatch/internal/core/ports"
	"go.trai.ch/rewatch/internal/ui/output"
	"go.trai.ch/rewatch/internal/ui/style"
	"go.trai.ch/zerr"
)

var _ ports.Sink = (*Printer)(nil)

// Printer implements ports.Sink for human readable or JSON lines output.
type Printer struct {
	mu       sync.Mutex
	w        io.Writer
	format   domain.Format
	renderer *lipgloss.Renderer
	encoder  *json.Encoder
}

// New creates a Printer. Any format other than FormatJSON prints pretty lines.
func New(w io.Writer, format domain.Format) *Printer {
	renderer := lipgloss.NewRenderer(w)
	renderer.SetColorProfile(output.ColorProfile())

	return &Printer{
		w:        w,
		format:   format,
		renderer: renderer,
		encoder:  json.NewEncoder(w),
	}
}

// Emit prints one event.
func (p *Printer) Emit(_ context.Context, event domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.format == domain.FormatJSON {
		if err := p.encoder.Encode(event); err != nil {
			return zerr.Wrap(err, "failed to encode event")
		}
		return nil
	}

	if _, err := io.WriteString(p.w, p.pretty(event)); err != nil {
		return zerr.Wrap(err, "failed to print event")
	}
	return nil
}

func (p *Printer) pretty(event domain.Event) string {
	var b strings.Builder

	switch event.Type {
	case domain.EventCreated:
		b.WriteString(style.Label(p.renderer, string(event.Type), style.Green))
	case domain.EventDeleted:
		b.WriteString(style.Label(p.renderer, string(event.Type), style.Red))
	default:
		b.WriteString(style.Label(p.renderer, string(event.Type), style.Iris))
	}

	b.WriteString(" ")
	b.WriteString(event.Path)

	if event.Identity.Valid {
		b.WriteString(" #")
		b.WriteString(event.Identity.Value.String())
	}

	if event.Type == domain.EventMoved {
		detail := "(" + event.OldParent + " " + style.Arrow + " " + event.NewParent + ")"
		b.WriteString(" ")
		b.WriteString(p.renderer.NewStyle().Foreground(style.Slate).Render(detail))
	}

	b.WriteString("\n")
	return b.String()
}
