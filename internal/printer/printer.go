// Package printer renders user-facing CLI output. Command handlers pull
// a Printer from the context so tests can capture what a command printed.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/aldersky/loom/internal/core/styles"
)

type ctxKey struct{}

// Printer writes styled status lines to a single output stream.
type Printer struct {
	out io.Writer
}

// New creates a printer writing to out.
func New(out io.Writer) *Printer {
	return &Printer{out: out}
}

// WithCtx stores the printer on the context.
func WithCtx(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the printer stored on the context, or a stdout printer when
// none was stored.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stdout)
}

func (p *Printer) line(prefix lipgloss.Style, mark, format string, args ...any) {
	fmt.Fprintf(p.out, "%s %s\n", prefix.Render(mark), fmt.Sprintf(format, args...))
}

// Printf writes an unstyled line.
func (p *Printer) Printf(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Infof writes an informational line.
func (p *Printer) Infof(format string, args ...any) {
	p.line(styles.TextMutedStyle, "•", format, args...)
}

// Successf writes a success line.
func (p *Printer) Successf(format string, args ...any) {
	p.line(styles.TitleStyle, "✓", format, args...)
}

// Warnf writes a warning line.
func (p *Printer) Warnf(format string, args ...any) {
	p.line(styles.SpeakerStyle, "!", format, args...)
}

// Errorf writes an error line.
func (p *Printer) Errorf(format string, args ...any) {
	p.line(styles.ErrorStyle, "✗", format, args...)
}

// Section writes a bold section heading.
func (p *Printer) Section(title string) {
	fmt.Fprintf(p.out, "\n%s\n", styles.TitleStyle.Render(title))
}
