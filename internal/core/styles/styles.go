// Package styles provides the lipgloss styles used by the pom command line.
//
// Styling lives only at the command surface; the task store and service
// layers never produce decorated text.
package styles

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Mode controls when color escape sequences are emitted.
type Mode string

const (
	ModeAuto   Mode = "auto"   // color when writing to a terminal
	ModeAlways Mode = "always" // color regardless of destination
	ModeNever  Mode = "never"  // plain text
)

// ANSI palette, so the terminal theme decides the exact shades.
var (
	ColorSuccess = lipgloss.Color("2")
	ColorWarning = lipgloss.Color("3")
	ColorMuted   = lipgloss.Color("8")
)

// Styles renders decorated fragments for a single output stream.
type Styles struct {
	renderer *lipgloss.Renderer

	TaskID lipgloss.Style
	Path   lipgloss.Style
	Done   lipgloss.Style
}

// New returns styles bound to w. In ModeAuto color is used only when w is a
// terminal and NO_COLOR is unset.
func New(w io.Writer, mode Mode) *Styles {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile(w, mode))

	return &Styles{
		renderer: r,
		TaskID:   r.NewStyle().Foreground(ColorSuccess),
		Path:     r.NewStyle().Foreground(ColorSuccess),
		Done:     r.NewStyle().Foreground(ColorMuted),
	}
}

// Plain returns styles that never emit escape sequences.
func Plain() *Styles {
	return New(io.Discard, ModeNever)
}

// ID renders a task id.
func (s *Styles) ID(id string) string {
	return s.TaskID.Render(id)
}

// File renders a file system path.
func (s *Styles) File(path string) string {
	return s.Path.Render(path)
}

func profile(w io.Writer, mode Mode) termenv.Profile {
	switch mode {
	case ModeAlways:
		return termenv.ANSI
	case ModeNever:
		return termenv.Ascii
	}

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return termenv.Ascii
	}

	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return termenv.Ascii
	}

	return termenv.ANSI
}
