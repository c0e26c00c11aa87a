// Package streamdelivery feeds line-delimited operations from a reader to the
// authorizer and writes one result line per processed operation.
package streamdelivery

import (
	"bufio"
	"bytes"
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// maxLineSize bounds a single input line.
const maxLineSize = 1 << 20

// Service provides the operation processing needed by the stream delivery layer.
//
//go:generate mockgen -source stream.go -destination stream_mock.go -package streamdelivery
type Service interface {
	Process(ctx context.Context, line []byte) ([]byte, error)
}

// Options controls how the stream is consumed.
type Options struct {
	// ShowInput echoes every non-blank input line, prefixed with ">>> ".
	ShowInput bool
	// Strict stops the run at the first line that cannot be processed.
	Strict bool
}

// Handler facilitates stream delivery layer logic.
type Handler struct {
	service Service
	opts    Options
}

// NewHandler returns stream handler.
func NewHandler(s Service, opts Options) Handler {
	return Handler{service: s, opts: opts}
}

// Run processes in line by line until EOF or ctx is done. A blocked read
// does not delay cancellation.
//
// Lines that cannot be processed are logged and skipped, unless Strict is
// set, in which case the wrapped error is returned.
func (h Handler) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	l := zerolog.Ctx(ctx)

	done := make(chan struct{})
	defer close(done)

	lines, readErr := scan(in, done)

	var lineNo, processed, skipped int

	for {
		var (
			line []byte
			ok   bool
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok = <-lines:
		}

		if !ok {
			break
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		lineNo++

		if echo := bytes.TrimSpace(line); h.opts.ShowInput && len(echo) > 0 {
			if err := writeLine(out, []byte(">>> "), echo); err != nil {
				return err
			}
		}

		res, err := h.service.Process(ctx, line)
		if err != nil {
			if h.opts.Strict {
				return errors.Wrapf(err, "line %d", lineNo)
			}

			skipped++
			l.Warn().Err(err).Int("line", lineNo).Msg("skipping input line")

			continue
		}

		if res == nil {
			continue
		}

		if err := writeLine(out, res); err != nil {
			return err
		}

		processed++
	}

	if err := <-readErr; err != nil {
		return errors.Wrapf(err, "cannot read line %d", lineNo+1)
	}

	l.Info().
		Int("lines", lineNo).
		Int("processed", processed).
		Int("skipped", skipped).
		Msg("input stream finished")

	return nil
}

// scan reads in on its own goroutine and sends a copy of every line until
// EOF or done is closed. The read error, if any, is sent once lines is
// closed after EOF.
func scan(in io.Reader, done <-chan struct{}) (<-chan []byte, <-chan error) {
	lines := make(chan []byte)
	readErr := make(chan error, 1)

	go func() {
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

		for scanner.Scan() {
			line := append([]byte(nil), scanner.Bytes()...)

			select {
			case lines <- line:
			case <-done:
				return
			}
		}

		readErr <- scanner.Err()
		close(lines)
	}()

	return lines, readErr
}

func writeLine(w io.Writer, parts ...[]byte) error {
	for _, p := range parts {
		if _, err := w.Write(p); err != nil {
			return errors.Wrap(err, "cannot write output")
		}
	}

	if _, err := w.Write([]byte{'\n'}); err != nil {
		return errors.Wrap(err, "cannot write output")
	}

	return nil
}
