// Package ui renders status lines and progress for the terminal.
package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Printer writes styled status lines. With color disabled it degrades to
// plain text; a Printer with a nil writer is a no-op.
type Printer struct {
	out   io.Writer
	color bool
}

// NewPrinter returns a printer writing to out. Pass nil to silence all
// status output.
func NewPrinter(out io.Writer, color bool) *Printer {
	return &Printer{out: out, color: color}
}

func (p *Printer) print(style lipgloss.Style, format string, args ...any) {
	if p == nil || p.out == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if p.color {
		msg = style.Render(msg)
	}
	fmt.Fprintln(p.out, msg)
}

// Header prints a bold section line.
func (p *Printer) Header(format string, args ...any) { p.print(headerStyle, format, args...) }

// Info prints a plain status line.
func (p *Printer) Info(format string, args ...any) { p.print(lipgloss.NewStyle(), format, args...) }

// Dim prints a de-emphasized line.
func (p *Printer) Dim(format string, args ...any) { p.print(dimStyle, format, args...) }

// Success prints a green line.
func (p *Printer) Success(format string, args ...any) { p.print(successStyle, format, args...) }

// Warn prints a yellow line.
func (p *Printer) Warn(format string, args ...any) { p.print(warnStyle, format, args...) }

// Error prints a red line.
func (p *Printer) Error(format string, args ...any) { p.print(errorStyle, format, args...) }

// Counter is a throttled single-line progress display over a known total.
// It satisfies the archive build/restore Progress interface.
type Counter struct {
	out         io.Writer
	label       string
	total       int
	done        int
	lastPrinted time.Time
}

// NewCounter returns a Counter, or nil when out is nil; a nil Counter is
// safe to use and does nothing.
func NewCounter(out io.Writer, label string, total int) *Counter {
	if out == nil {
		return nil
	}
	return &Counter{out: out, label: label, total: total}
}

// Step records one processed file, repainting at most every 200ms.
func (c *Counter) Step(name string) {
	if c == nil {
		return
	}
	c.done++
	now := time.Now()
	if now.Sub(c.lastPrinted) < 200*time.Millisecond && c.done != c.total {
		return
	}
	c.lastPrinted = now
	fmt.Fprintf(c.out, "\r[%s] %d/%d files", c.label, c.done, c.total)
}

// Done finishes the progress line.
func (c *Counter) Done() {
	if c == nil || c.done == 0 {
		return
	}
	fmt.Fprintf(c.out, "\r[%s] %d/%d files\n", c.label, c.done, c.total)
}
