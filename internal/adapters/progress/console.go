package progress

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/nftmarket/internal/usecase"
)

// ConsoleSink reports workflow progress on a terminal. Interactive sinks animate a spinner
// while a transaction is pending; non-interactive sinks print one line per event.
type ConsoleSink struct {
	mu          sync.Mutex
	out         io.Writer
	interactive bool
	spinner     *spinner.Spinner
	stageStart  time.Time
	stage       string
}

// NewConsoleSink creates a new console progress sink
func NewConsoleSink(out io.Writer, interactive bool) *ConsoleSink {
	return &ConsoleSink{
		out:         out,
		interactive: interactive,
	}
}

// OnProgress handles progress events
func (c *ConsoleSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if event.Stage != c.stage {
		c.completeStage()
		c.stage = event.Stage
		c.stageStart = time.Now()
	}

	if !c.interactive {
		if event.Message != "" {
			fmt.Fprintln(c.out, prefix(event)+event.Message)
		}
		return
	}

	if event.Spinner {
		if c.spinner == nil {
			c.spinner = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(c.out))
			c.spinner.HideCursor = false
			_ = c.spinner.Color("cyan", "bold")
		}
		c.spinner.Suffix = " " + prefix(event) + event.Message
		if !c.spinner.Active() {
			c.spinner.Start()
		}
		return
	}

	c.stopSpinner()
	if event.Message != "" {
		fmt.Fprintf(c.out, "%s %s\n", color.GreenString("✓"), event.Message)
	}
}

// Info prints an info message
func (c *ConsoleSink) Info(message string) {
	c.print(color.New(color.FgCyan), message)
}

// Error prints an error message
func (c *ConsoleSink) Error(message string) {
	c.print(color.New(color.FgRed), message)
}

// Stop halts any running spinner
func (c *ConsoleSink) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.completeStage()
	c.stopSpinner()
}

// Pause stops a running spinner until the returned func is called
func (c *ConsoleSink) Pause() (resume func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.spinner == nil || !c.spinner.Active() {
		return func() {}
	}
	c.spinner.Stop()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.spinner.Start()
	}
}

func (c *ConsoleSink) print(style *color.Color, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	wasActive := c.spinner != nil && c.spinner.Active()
	if wasActive {
		c.spinner.Stop()
	}

	style.Fprintln(c.out, message)

	if wasActive {
		c.spinner.Start()
	}
}

// completeStage prints how long the previous stage took
func (c *ConsoleSink) completeStage() {
	if c.stage == "" || !c.interactive || c.spinner == nil || !c.spinner.Active() {
		return
	}
	c.spinner.Stop()
	fmt.Fprintf(c.out, "%s %s (%s)\n",
		color.GreenString("✓"),
		c.stage,
		time.Since(c.stageStart).Round(time.Millisecond))
}

func (c *ConsoleSink) stopSpinner() {
	if c.spinner != nil && c.spinner.Active() {
		c.spinner.Stop()
	}
}

func prefix(event usecase.ProgressEvent) string {
	if event.Total > 0 {
		return fmt.Sprintf("[%d/%d] ", event.Current, event.Total)
	}
	return ""
}

var _ usecase.ProgressSink = (*ConsoleSink)(nil)
