package output

import (
	"fmt"
	"sync"
	"time"

	"github.com/muesli/termenv"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a progress message on the error writer while a slow
// step runs. Off-TTY it degrades to printing the message once.
type Spinner struct {
	r    *Renderer
	term *termenv.Output
	msg  string

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewSpinner builds a spinner bound to the renderer's error writer, so
// stdout stays clean for the actual result.
func (r *Renderer) NewSpinner(msg string) *Spinner {
	return &Spinner{r: r, term: termenv.NewOutput(r.errOut), msg: msg}
}

// Start begins the animation. A second Start while running is a no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return
	}
	if !s.r.isTTY {
		fmt.Fprintln(s.r.errOut, s.msg)
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.term.HideCursor()
	go s.run(s.stop, s.done)
}

func (s *Spinner) run(stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	frame := 0
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.term.ClearLine()
			fmt.Fprintf(s.term, "\r%s %s", spinnerFrames[frame%len(spinnerFrames)], s.msg)
			frame++
		}
	}
}

// Stop halts the animation and clears the spinner line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop == nil {
		return
	}
	close(s.stop)
	<-s.done
	s.stop, s.done = nil, nil
	s.term.ClearLine()
	fmt.Fprint(s.term, "\r")
	s.term.ShowCursor()
}

// Success stops the spinner and prints a final success line.
func (s *Spinner) Success(msg string) {
	s.Stop()
	fmt.Fprintf(s.r.errOut, "%s %s\n", s.r.styles.Success.Render("✓"), msg)
}

// Fail stops the spinner and prints a final failure line.
func (s *Spinner) Fail(msg string) {
	s.Stop()
	fmt.Fprintf(s.r.errOut, "%s %s\n", s.r.styles.Error.Render("✗"), msg)
}
