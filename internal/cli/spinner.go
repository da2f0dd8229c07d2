package cli

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// spinner animates a status line with the elapsed time while a build or
// render runs. It goes quiet on its own once ctx is cancelled.
type spinner struct {
	message string
	start   time.Time
	ctx     context.Context
	quit    chan struct{}
	exited  chan struct{}
	once    sync.Once
	width   int
}

// spin starts a spinner showing message.
func spin(ctx context.Context, message string) *spinner {
	s := &spinner{
		message: message,
		start:   time.Now(),
		ctx:     ctx,
		quit:    make(chan struct{}),
		exited:  make(chan struct{}),
	}
	go s.loop()
	return s
}

func (s *spinner) loop() {
	defer close(s.exited)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			s.clear()
			return
		case <-s.quit:
			s.clear()
			return
		case <-ticker.C:
			frame := spinnerFrames[i%len(spinnerFrames)]
			text := s.message + " " + time.Since(s.start).Round(100*time.Millisecond).String()
			s.width = max(s.width, len(text)+2)
			fmt.Fprintf(uiOut, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(text))
		}
	}
}

func (s *spinner) clear() {
	if s.width > 0 {
		fmt.Fprintf(uiOut, "\r%s\r", strings.Repeat(" ", s.width+2))
	}
}

// stop halts the animation. A non-nil err prints failed as an error line.
// Calling stop more than once is harmless.
func (s *spinner) stop(err error, failed string) {
	s.once.Do(func() { close(s.quit) })
	<-s.exited
	if err != nil && s.ctx.Err() == nil {
		printError("%s", failed)
	}
}

// interrupted reports whether the spinner ended because ctx was cancelled.
func (s *spinner) interrupted() bool {
	return s.ctx.Err() != nil
}
