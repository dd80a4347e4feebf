package pkg

import (
	"io"

	"go.uber.org/multierr"
)

// FanoutWriter copies every write to all of its sinks. A failing sink does not stop
// the others; the write only fails when no sink accepted the data.
type FanoutWriter struct {
	sinks []io.Writer
}

func NewFanoutWriter(sinks ...io.Writer) *FanoutWriter {
	fw := &FanoutWriter{}
	for _, s := range sinks {
		if s != nil {
			fw.sinks = append(fw.sinks, s)
		}
	}
	return fw
}

func (fw *FanoutWriter) Sinks() int {
	return len(fw.sinks)
}

func (fw *FanoutWriter) Write(p []byte) (int, error) {
	var (
		errs      error
		delivered bool
	)
	for _, s := range fw.sinks {
		if _, err := s.Write(p); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		delivered = true
	}
	if !delivered && len(fw.sinks) > 0 {
		return 0, errs
	}
	// partial failures are not reported, io.Writer expects n == len(p) without an error
	return len(p), nil
}
