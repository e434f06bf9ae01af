package browser

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	pkgbrowser "github.com/pkg/browser"

	"goserve/logger"
)

// LaunchFunc opens url with some browser.
type LaunchFunc func(url string) error

// Opener fires a one-shot, delayed browser launch. The launch is
// best-effort: a missing or failing browser never takes the server
// down, and the server never waits for it.
type Opener struct {
	// Delay between Schedule and the launch attempt.
	Delay time.Duration
	// Launch performs the actual open. Tests swap it out.
	Launch LaunchFunc
	// Out receives the announce line.
	Out io.Writer

	log *logger.Logger
}

// NewOpener returns an Opener that uses the operating system's
// default-browser mechanism.
func NewOpener(delay time.Duration) *Opener {
	return &Opener{
		Delay:  delay,
		Launch: pkgbrowser.OpenURL,
		Out:    os.Stdout,
		log:    logger.L(),
	}
}

// Schedule arranges for url to be opened once Delay has elapsed,
// without blocking the caller. Cancelling ctx before then stops the
// launch. A failed launch is logged and swallowed.
func (o *Opener) Schedule(ctx context.Context, url string) {
	timer := time.NewTimer(o.Delay)

	go func() {
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		fmt.Fprintf(o.Out, "🌐 Opening browser: %s\n", url)
		if err := o.Launch(url); err != nil {
			o.logger().Error("Failed to open browser", map[string]interface{}{
				"error": err.Error(),
				"url":   url,
			})
		}
	}()
}

func (o *Opener) logger() *logger.Logger {
	if o.log != nil {
		return o.log
	}
	return logger.L()
}
