package transport

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/openlvc/portico-sub003/pkg/log"
)

const (
	// LengthPrefixSize is the size of the big-endian length header.
	LengthPrefixSize = 4

	// DefaultMaxMessageSize bounds one envelope (1 MiB). Attribute updates and
	// FOM documents travel in a single frame.
	DefaultMaxMessageSize = 1 << 20

	// MaxLogFrameDataSize caps the payload bytes copied into a trace event.
	MaxLogFrameDataSize = 4096
)

var (
	ErrMessageTooLarge = errors.New("message too large")
	ErrMessageEmpty    = errors.New("message is empty")
	ErrFrameTruncated  = errors.New("frame truncated")
)

// FrameSize returns the bytes a payload occupies on the wire.
func FrameSize(payloadSize int) int {
	return LengthPrefixSize + payloadSize
}

func checkLength(n int, max uint32) error {
	switch {
	case n == 0:
		return ErrMessageEmpty
	case uint64(n) > uint64(max):
		return fmt.Errorf("%w: %d > %d", ErrMessageTooLarge, n, max)
	}
	return nil
}

// frameTrace reports frames on one connection to a protocol trace.
type frameTrace struct {
	logger log.Logger
	connID string
}

func (ft *frameTrace) emit(payload []byte, dir log.Direction) {
	if ft.logger == nil {
		return
	}
	data := payload
	if len(data) > MaxLogFrameDataSize {
		data = data[:MaxLogFrameDataSize]
	}
	ft.logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: ft.connID,
		Direction:    dir,
		Layer:        log.LayerTransport,
		Category:     log.CategoryMessage,
		Frame: &log.FrameEvent{
			Size:      FrameSize(len(payload)),
			Data:      data,
			Truncated: len(data) < len(payload),
		},
	})
}

// FrameWriter writes length-prefixed envelopes. WriteFrame is safe for
// concurrent use.
type FrameWriter struct {
	mu      sync.Mutex
	w       io.Writer
	max     uint32
	scratch []byte
	trace   frameTrace
}

// NewFrameWriter creates a writer bounded by DefaultMaxMessageSize.
func NewFrameWriter(w io.Writer) *FrameWriter {
	return NewFrameWriterWithMaxSize(w, DefaultMaxMessageSize)
}

// NewFrameWriterWithMaxSize creates a writer bounded by maxSize.
func NewFrameWriterWithMaxSize(w io.Writer, maxSize uint32) *FrameWriter {
	return &FrameWriter{w: w, max: maxSize}
}

// SetLogger traces written frames; nil disables tracing.
func (fw *FrameWriter) SetLogger(logger log.Logger, connID string) {
	fw.trace = frameTrace{logger: logger, connID: connID}
}

// WriteFrame writes header and payload with a single Write so frames from
// concurrent callers never interleave on the stream.
func (fw *FrameWriter) WriteFrame(data []byte) error {
	if err := checkLength(len(data), fw.max); err != nil {
		return err
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	fw.scratch = binary.BigEndian.AppendUint32(fw.scratch[:0], uint32(len(data)))
	fw.scratch = append(fw.scratch, data...)
	if _, err := fw.w.Write(fw.scratch); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	if cap(fw.scratch) > 64*1024 {
		fw.scratch = nil
	}
	fw.trace.emit(data, log.DirectionOut)
	return nil
}

// FrameReader reads length-prefixed envelopes. It is not safe for concurrent
// use; each connection has exactly one read loop.
type FrameReader struct {
	r      io.Reader
	max    uint32
	header [LengthPrefixSize]byte
	trace  frameTrace
}

// NewFrameReader creates a reader bounded by DefaultMaxMessageSize.
func NewFrameReader(r io.Reader) *FrameReader {
	return NewFrameReaderWithMaxSize(r, DefaultMaxMessageSize)
}

// NewFrameReaderWithMaxSize creates a reader bounded by maxSize.
func NewFrameReaderWithMaxSize(r io.Reader, maxSize uint32) *FrameReader {
	return &FrameReader{r: r, max: maxSize}
}

// SetLogger traces read frames; nil disables tracing.
func (fr *FrameReader) SetLogger(logger log.Logger, connID string) {
	fr.trace = frameTrace{logger: logger, connID: connID}
}

// ReadFrame returns the next payload. A clean end of stream between frames is
// io.EOF; an end of stream inside a frame is ErrFrameTruncated.
func (fr *FrameReader) ReadFrame() ([]byte, error) {
	if _, err := io.ReadFull(fr.r, fr.header[:]); err != nil {
		return nil, readError(err, "header")
	}
	n := binary.BigEndian.Uint32(fr.header[:])
	if err := checkLength(int(n), fr.max); err != nil {
		return nil, err
	}

	payload := make([]byte, n)
	if _, err := io.ReadFull(fr.r, payload); err != nil {
		if err == io.EOF {
			return nil, ErrFrameTruncated
		}
		return nil, readError(err, "payload")
	}
	fr.trace.emit(payload, log.DirectionIn)
	return payload, nil
}

func readError(err error, part string) error {
	switch {
	case err == io.EOF:
		return io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		return ErrFrameTruncated
	}
	return fmt.Errorf("read frame %s: %w", part, err)
}

// Framer pairs a reader and a writer over one connection.
type Framer struct {
	*FrameReader
	*FrameWriter
}

// NewFramer creates a framer bounded by DefaultMaxMessageSize.
func NewFramer(rw io.ReadWriter) *Framer {
	return NewFramerWithMaxSize(rw, DefaultMaxMessageSize)
}

// NewFramerWithMaxSize creates a framer bounded by maxSize in both directions.
func NewFramerWithMaxSize(rw io.ReadWriter, maxSize uint32) *Framer {
	return &Framer{
		FrameReader: NewFrameReaderWithMaxSize(rw, maxSize),
		FrameWriter: NewFrameWriterWithMaxSize(rw, maxSize),
	}
}

// SetLogger traces both directions; nil disables tracing.
func (f *Framer) SetLogger(logger log.Logger, connID string) {
	f.FrameReader.SetLogger(logger, connID)
	f.FrameWriter.SetLogger(logger, connID)
}
