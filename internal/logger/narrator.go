package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Status markers prefixed to every progress line.
const (
	MarkInfo    = "[*]"
	MarkSuccess = "[+]"
	MarkFailure = "[-]"
)

var (
	styleInfo    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFD7"))
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("#A8B545")).Bold(true)
	styleFailure = lipgloss.NewStyle().Foreground(lipgloss.Color("#E05A3A")).Bold(true)
)

// Narrator prints the human-readable progress of a run. Each line is also
// mirrored to the journal when one is attached.
type Narrator struct {
	out     io.Writer
	errOut  io.Writer
	colored bool
	journal *Journal
	runID   string
	mu      sync.Mutex
}

// NewNarrator writes progress to out and fatal errors to errOut.
func NewNarrator(out, errOut io.Writer, colored bool) *Narrator {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	return &Narrator{out: out, errOut: errOut, colored: colored}
}

// Discard returns a narrator that prints nothing.
func Discard() *Narrator {
	return NewNarrator(io.Discard, io.Discard, false)
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// AttachJournal mirrors subsequent lines to j, tagged with runID.
func (n *Narrator) AttachJournal(j *Journal, runID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.journal = j
	n.runID = runID
}

func (n *Narrator) Info(format string, args ...any) {
	n.line(n.out, MarkInfo, styleInfo, "info", fmt.Sprintf(format, args...))
}

func (n *Narrator) Success(format string, args ...any) {
	n.line(n.out, MarkSuccess, styleSuccess, "success", fmt.Sprintf(format, args...))
}

func (n *Narrator) Failure(format string, args ...any) {
	n.line(n.out, MarkFailure, styleFailure, "failure", fmt.Sprintf(format, args...))
}

// Fatal reports an error that ends the run.
func (n *Narrator) Fatal(err error) {
	n.line(n.errOut, MarkFailure, styleFailure, "fatal", "Fatal error: "+err.Error())
}

// Plain prints msg without a marker (banners, separators).
func (n *Narrator) Plain(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, _ = fmt.Fprintln(n.out, msg)
}

// Rule prints a separator line.
func (n *Narrator) Rule() {
	n.Plain(strings.Repeat("=", 60))
}

func (n *Narrator) line(w io.Writer, mark string, style lipgloss.Style, level, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	label := mark
	if n.colored {
		label = style.Render(mark)
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", label, msg)

	if n.journal != nil {
		if err := n.journal.Log(Event{
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
			RunID:     n.runID,
			Level:     level,
			Message:   msg,
		}); err != nil {
			_, _ = fmt.Fprintf(n.errOut, "warning: failed to write journal: %v\n", err)
		}
	}
}
