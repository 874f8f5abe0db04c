package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/itechmeat/start-vibe-project/internal/contracts"
)

// spinnerFrames are the animation frames for the spinner.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"} //nolint:gochecknoglobals // animation table

// SpinnerInterval is the frame interval.
const SpinnerInterval = 80 * time.Millisecond

// ElapsedTimeThreshold is the duration after which elapsed time is shown.
const ElapsedTimeThreshold = 30 * time.Second

// defaultTerminalWidth is used when the width cannot be determined.
const defaultTerminalWidth = 80

// safeWriter serializes writes from the animation goroutine and the caller.
type safeWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (sw *safeWriter) Write(p []byte) (int, error) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.w.Write(p)
}

// flushWriter sends escape sequences immediately when w supports Sync.
func flushWriter(w io.Writer) {
	type syncer interface {
		Sync() error
	}
	if s, ok := w.(syncer); ok {
		_ = s.Sync()
	}
}

// NewSpinner returns an animated spinner when interactive is true and a
// line-printing spinner otherwise.
func NewSpinner(w io.Writer, interactive bool) contracts.Spinner {
	if interactive {
		return NewTerminalSpinner(w)
	}
	return NewPlainSpinner(w)
}

// TerminalSpinner animates a braille spinner on one terminal line.
type TerminalSpinner struct {
	w      *safeWriter
	styles *OutputStyles
	width  func() int
	now    func() time.Time
}

// NewTerminalSpinner creates a spinner that writes to w.
func NewTerminalSpinner(w io.Writer) *TerminalSpinner {
	return &TerminalSpinner{
		w:      &safeWriter{w: w},
		styles: NewOutputStyles(),
		width:  terminalWidth,
		now:    time.Now,
	}
}

// Start draws the first frame and animates until the handle is stopped or
// ctx is done.
func (s *TerminalSpinner) Start(ctx context.Context, message string) contracts.SpinnerHandle {
	h := &terminalHandle{
		spinner: s,
		message: message,
		started: s.now(),
		done:    make(chan struct{}),
		exited:  make(chan struct{}),
	}
	h.render(0)
	go h.animate(ctx)
	return h
}

type terminalHandle struct {
	spinner *TerminalSpinner
	message string
	started time.Time
	done    chan struct{}
	exited  chan struct{}
	once    sync.Once
}

// Stop halts the animation, clears the line and prints message when it is
// not empty. Safe to call more than once.
func (h *terminalHandle) Stop(message string) {
	h.once.Do(func() {
		close(h.done)
		<-h.exited

		_, _ = fmt.Fprint(h.spinner.w, "\r\033[K")
		if message != "" {
			_, _ = fmt.Fprintln(h.spinner.w, message)
		}
		flushWriter(h.spinner.w)
	})
}

func (h *terminalHandle) animate(ctx context.Context) {
	defer close(h.exited)

	ticker := time.NewTicker(SpinnerInterval)
	defer ticker.Stop()

	frame := 1
	for {
		select {
		case <-h.done:
			return
		case <-ctx.Done():
			// Keep the line until Stop so the final message replaces it.
			<-h.done
			return
		case <-ticker.C:
			h.render(frame)
			frame++
		}
	}
}

func (h *terminalHandle) render(frame int) {
	s := h.spinner
	msg := h.message
	if elapsed := s.now().Sub(h.started); elapsed > ElapsedTimeThreshold {
		msg = fmt.Sprintf("%s %s", msg, formatElapsedTime(elapsed))
	}

	// Frame, space and a safety column.
	if maxWidth := s.width() - 3; maxWidth > 0 {
		msg = truncateToWidth(msg, maxWidth)
	}

	glyph := s.styles.Info.Render(spinnerFrames[frame%len(spinnerFrames)])
	_, _ = fmt.Fprintf(s.w, "\r\033[K%s %s", glyph, msg)
	flushWriter(s.w)
}

// PlainSpinner prints the start and final messages on their own lines. It is
// used when output is not a terminal.
type PlainSpinner struct {
	w *safeWriter
}

// NewPlainSpinner creates a PlainSpinner writing to w.
func NewPlainSpinner(w io.Writer) *PlainSpinner {
	return &PlainSpinner{w: &safeWriter{w: w}}
}

// Start prints message.
func (s *PlainSpinner) Start(_ context.Context, message string) contracts.SpinnerHandle {
	_, _ = fmt.Fprintln(s.w, message)
	return &plainHandle{w: s.w}
}

type plainHandle struct {
	w    io.Writer
	once sync.Once
}

func (h *plainHandle) Stop(message string) {
	h.once.Do(func() {
		if message != "" {
			_, _ = fmt.Fprintln(h.w, message)
		}
	})
}

// NoopSpinner discards everything. Used with --quiet.
type NoopSpinner struct{}

// Start returns a handle that does nothing.
func (NoopSpinner) Start(context.Context, string) contracts.SpinnerHandle {
	return noopHandle{}
}

type noopHandle struct{}

func (noopHandle) Stop(string) {}

// formatElapsedTime formats d as "(42s elapsed)" or "(1m 5s elapsed)".
func formatElapsedTime(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("(%ds elapsed)", int(d.Seconds()))
	}
	return fmt.Sprintf("(%dm %ds elapsed)", int(d.Minutes()), int(d.Seconds())%60)
}

// terminalWidth returns the width of stderr's terminal, or 80.
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stderr.Fd())) //nolint:gosec // G115: file descriptors fit in int
	if err != nil || width <= 0 {
		return defaultTerminalWidth
	}
	return width
}

// truncateToWidth cuts s to maxWidth display cells, ending in "...".
// Wide runes such as emoji count as two cells.
func truncateToWidth(s string, maxWidth int) string {
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return "..."
	}
	return runewidth.Truncate(s, maxWidth, "...")
}
