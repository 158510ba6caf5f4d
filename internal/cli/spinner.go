package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// spinnerInterval is the delay between animation frames.
const spinnerInterval = 80 * time.Millisecond

// spinnerGlyphs are the braille animation frames, drawn in order.
var spinnerGlyphs = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner is a single-line progress indicator for blocking work. Frames
// go to a configurable writer, stderr by default, so they never mix with
// artifact output on stdout. The message can be swapped while the
// spinner runs, which solve uses to show live node counts.
type Spinner struct {
	out    io.Writer
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	exited chan struct{}

	mu      sync.Mutex
	message string
	width   int // widest line drawn so far, so clearing covers it
}

// newSpinner creates a spinner that runs until stopped.
func newSpinner(message string) *Spinner {
	return newSpinnerWithContext(context.Background(), message)
}

// newSpinnerWithContext creates a spinner that also stops when ctx is
// cancelled.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		out:     os.Stderr,
		ctx:     sctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		exited:  make(chan struct{}),
		message: message,
	}
}

// SetOutput redirects spinner frames to w. Must be called before Start.
func (s *Spinner) SetOutput(w io.Writer) {
	s.out = w
}

// SetMessage replaces the spinner text. Safe to call while the spinner
// is running; the next frame picks it up.
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// Start begins the animation in a background goroutine.
func (s *Spinner) Start() {
	go func() {
		defer close(s.exited)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-s.done:
				return
			case <-ticker.C:
				s.drawFrame(spinnerGlyphs[i%len(spinnerGlyphs)])
			}
		}
	}()
}

// drawFrame rewrites the spinner line in place.
func (s *Spinner) drawFrame(glyph string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w := len(s.message) + 4; w > s.width {
		s.width = w
	}
	fmt.Fprintf(s.out, "\r%s %s", styleIconSpinner.Render(glyph), StyleDim.Render(s.message))
}

// Stop halts the animation and clears the line. Calling it more than
// once is safe.
func (s *Spinner) Stop() {
	s.cancel()
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	<-s.exited
	s.clearLine()
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := len(s.message) + 4
	if s.width > w {
		w = s.width
	}
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", w))
}

// StopWithSuccess stops the spinner and prints a success line.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and prints an error line.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the spinner's context was cancelled.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}
