package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// User-facing output functions with status glyphs.
// These write to userOut (stderr unless redirected) so that stdout
// stays reserved for rendered rules.

var (
	userMu  sync.Mutex
	userOut io.Writer = os.Stderr
	glyphs            = newGlyphs(os.Stderr)
)

type glyphSet struct {
	info, success, warning, failure string
}

func newGlyphs(w io.Writer) glyphSet {
	r := lipgloss.NewRenderer(w)
	return glyphSet{
		info:    r.NewStyle().Foreground(lipgloss.Color("39")).Render("ℹ"),
		success: r.NewStyle().Foreground(lipgloss.Color("42")).Render("✓"),
		warning: r.NewStyle().Foreground(lipgloss.Color("214")).Render("⚠"),
		failure: r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true).Render("✗"),
	}
}

// SetUserOutput redirects user-facing output. A nil writer restores stderr.
func SetUserOutput(w io.Writer) {
	userMu.Lock()
	defer userMu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	userOut = w
	glyphs = newGlyphs(w)
}

func userf(pick func(glyphSet) string, format string, args ...interface{}) {
	userMu.Lock()
	defer userMu.Unlock()
	fmt.Fprintf(userOut, pick(glyphs)+" "+format+"\n", args...)
}

// UserInfo prints an info message.
func UserInfo(format string, args ...interface{}) {
	userf(func(g glyphSet) string { return g.info }, format, args...)
}

// UserSuccess prints a success message.
func UserSuccess(format string, args ...interface{}) {
	userf(func(g glyphSet) string { return g.success }, format, args...)
}

// UserWarning prints a warning message.
func UserWarning(format string, args ...interface{}) {
	userf(func(g glyphSet) string { return g.warning }, format, args...)
}

// UserError prints an error message.
func UserError(format string, args ...interface{}) {
	userf(func(g glyphSet) string { return g.failure }, format, args...)
}
