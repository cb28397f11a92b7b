package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/openlvc/portico-sub003/pkg/hla"
)

// ErrTruncated is returned by Reader.Next when the trace ends inside an
// event, as happens when the writing process was killed.
var ErrTruncated = errors.New("trace truncated")

// Filter selects events. Zero fields match everything.
type Filter struct {
	ConnectionID string
	Direction    *Direction
	Layer        *Layer
	Category     *Category

	// TimeStart is inclusive, TimeEnd exclusive.
	TimeStart *time.Time
	TimeEnd   *time.Time

	Federation string
	Federate   hla.FederateHandle
}

// Match reports whether e satisfies every set criterion.
func (f Filter) Match(e Event) bool {
	switch {
	case f.ConnectionID != "" && e.ConnectionID != f.ConnectionID,
		f.Direction != nil && e.Direction != *f.Direction,
		f.Layer != nil && e.Layer != *f.Layer,
		f.Category != nil && e.Category != *f.Category,
		f.TimeStart != nil && e.Timestamp.Before(*f.TimeStart),
		f.TimeEnd != nil && !e.Timestamp.Before(*f.TimeEnd),
		f.Federation != "" && e.Federation != f.Federation,
		f.Federate != 0 && e.Federate != f.Federate:
		return false
	}
	return true
}

// Reader streams events from a trace file written by FileLogger.
type Reader struct {
	file    *os.File
	decoder *cbor.Decoder
	filter  Filter
}

// NewReader opens a trace file for reading every event.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader opens a trace file for reading the events filter matches.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{file: f, decoder: NewDecoder(f), filter: filter}, nil
}

// Next returns the next matching event, or io.EOF after the last one.
func (r *Reader) Next() (Event, error) {
	for {
		var e Event
		err := r.decoder.Decode(&e)
		switch {
		case err == io.EOF:
			return Event{}, io.EOF
		case errors.Is(err, io.ErrUnexpectedEOF):
			return Event{}, ErrTruncated
		case err != nil:
			return Event{}, fmt.Errorf("decode event: %w", err)
		}
		if r.filter.Match(e) {
			return e, nil
		}
	}
}

// Close closes the trace file.
func (r *Reader) Close() error {
	return r.file.Close()
}
