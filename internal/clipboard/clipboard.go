// Package clipboard copies embed URLs and tracks the transient "copied"
// acknowledgement shown afterwards.
package clipboard

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	sysclip "github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
)

// ErrUnsupported is returned by the system writer when no clipboard
// utility is available.
var ErrUnsupported = errors.New("system clipboard unsupported")

// Writer puts text on a clipboard.
type Writer interface {
	WriteText(text string) error
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(text string) error

// WriteText calls f.
func (f WriterFunc) WriteText(text string) error { return f(text) }

// System writes through the platform clipboard utility.
func System() Writer {
	return WriterFunc(func(text string) error {
		if sysclip.Unsupported {
			return ErrUnsupported
		}
		return sysclip.WriteAll(text)
	})
}

// OSC52 writes an OSC 52 escape sequence to out, asking the terminal to set
// its clipboard. Inside tmux or screen the sequence is wrapped accordingly.
func OSC52(out io.Writer) Writer {
	return WriterFunc(func(text string) error {
		seq := osc52.New(text)
		switch {
		case os.Getenv("TMUX") != "":
			seq = seq.Tmux()
		case strings.HasPrefix(os.Getenv("TERM"), "screen"):
			seq = seq.Screen()
		}
		_, err := seq.WriteTo(out)
		return err
	})
}

// Method records which writer succeeded.
type Method string

// Copy methods.
const (
	MethodPrimary  Method = "primary"
	MethodFallback Method = "fallback"
)

// Copier tries a primary writer and, if it fails, a fallback.
type Copier struct {
	primary  Writer
	fallback Writer
	logger   *slog.Logger
}

// NewCopier creates a copier. fallback may be nil.
func NewCopier(primary, fallback Writer) *Copier {
	return &Copier{primary: primary, fallback: fallback, logger: slog.Default()}
}

// NewTerminalCopier uses the system clipboard with an OSC 52 fallback on out.
func NewTerminalCopier(out io.Writer) *Copier {
	return NewCopier(System(), OSC52(out))
}

// WithLogger sets a custom logger.
func (c *Copier) WithLogger(logger *slog.Logger) *Copier {
	c.logger = logger
	return c
}

// Copy writes text, falling back when the primary writer fails.
func (c *Copier) Copy(text string) (Method, error) {
	err := c.primary.WriteText(text)
	if err == nil {
		return MethodPrimary, nil
	}
	if c.fallback == nil {
		return "", fmt.Errorf("copying to clipboard: %w", err)
	}

	c.logger.Debug("primary clipboard failed, using fallback", slog.Any("error", err))

	if ferr := c.fallback.WriteText(text); ferr != nil {
		return "", fmt.Errorf("copying to clipboard: %w", errors.Join(err, ferr))
	}
	return MethodFallback, nil
}

// CopyAndShow copies text and, if either path succeeds, shows ind once.
func (c *Copier) CopyAndShow(text string, ind *Indicator) (Method, error) {
	m, err := c.Copy(text)
	if err != nil {
		return "", err
	}
	if ind != nil {
		ind.Show()
	}
	return m, nil
}
