// Package diag provides line-oriented sinks for kernel diagnostics such as
// the perror output of the libc facade.
package diag

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Sink receives complete diagnostic lines without a trailing newline.
type Sink interface {
	WriteLine(line string) error
}

// WriterSink writes lines to an io.Writer, optionally transcoding them.
// It is safe for concurrent use.
type WriterSink struct {
	mu  sync.Mutex
	w   io.Writer
	enc *encoding.Encoder // nil writes UTF-8 unchanged
	eol string
}

// NewTextSink returns a sink for a VGA-style text console. Lines are encoded
// to code page 437; characters outside it become the SUB control byte.
func NewTextSink(w io.Writer) *WriterSink {
	return &WriterSink{
		w:   w,
		enc: encoding.ReplaceUnsupported(charmap.CodePage437.NewEncoder()),
		eol: "\n",
	}
}

// NewSerialSink returns a sink for a serial port: raw bytes, CRLF line ends.
func NewSerialSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w, eol: "\r\n"}
}

// WriteLine implements Sink.
func (s *WriterSink) WriteLine(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := line + s.eol
	if s.enc != nil {
		encoded, err := s.enc.String(out)
		if err != nil {
			return fmt.Errorf("diag: encode line: %w", err)
		}
		out = encoded
	}
	if _, err := io.WriteString(s.w, out); err != nil {
		return fmt.Errorf("diag: write line: %w", err)
	}
	return nil
}

type discard struct{}

func (discard) WriteLine(string) error { return nil }

// Discard drops every line.
var Discard Sink = discard{}

type multi []Sink

func (m multi) WriteLine(line string) error {
	var errs []error
	for _, s := range m {
		if err := s.WriteLine(line); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Multi duplicates every line to all sinks, like io.MultiWriter. Every sink
// sees the line even when an earlier one fails.
func Multi(sinks ...Sink) Sink {
	return multi(append([]Sink(nil), sinks...))
}
