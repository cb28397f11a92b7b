package transport

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/openlvc/portico-sub003/pkg/log"
)

type captureLogger struct {
	events []log.Event
}

func (c *captureLogger) Log(e log.Event) { c.events = append(c.events, e) }

func TestFrameRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
	}{
		{"single byte", []byte{0x01}},
		{"small", []byte("attribute update")},
		{"max size", bytes.Repeat([]byte("y"), DefaultMaxMessageSize)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := NewFrameWriter(&buf).WriteFrame(tt.payload); err != nil {
				t.Fatalf("WriteFrame() error = %v", err)
			}
			if buf.Len() != FrameSize(len(tt.payload)) {
				t.Errorf("frame size = %d, want %d", buf.Len(), FrameSize(len(tt.payload)))
			}
			got, err := NewFrameReader(&buf).ReadFrame()
			if err != nil {
				t.Fatalf("ReadFrame() error = %v", err)
			}
			if !bytes.Equal(got, tt.payload) {
				t.Error("payload mismatch")
			}
		})
	}
}

func TestFrameWriterRejects(t *testing.T) {
	var buf bytes.Buffer
	fw := NewFrameWriterWithMaxSize(&buf, 8)

	if err := fw.WriteFrame(nil); !errors.Is(err, ErrMessageEmpty) {
		t.Errorf("WriteFrame(nil) = %v, want %v", err, ErrMessageEmpty)
	}
	if err := fw.WriteFrame(make([]byte, 9)); !errors.Is(err, ErrMessageTooLarge) {
		t.Errorf("WriteFrame(9 bytes) = %v, want %v", err, ErrMessageTooLarge)
	}
}

func TestFrameReaderErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"eof", nil, io.EOF},
		{"short prefix", []byte{0x00, 0x00}, ErrFrameTruncated},
		{"zero length", []byte{0, 0, 0, 0}, ErrMessageEmpty},
		{"short payload", []byte{0, 0, 0, 4, 1, 2}, ErrFrameTruncated},
		{"too large", []byte{0, 0x20, 0, 0}, ErrMessageTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFrameReader(bytes.NewReader(tt.data)).ReadFrame()
			if !errors.Is(err, tt.want) {
				t.Errorf("ReadFrame() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFramerLogsTruncatedFrames(t *testing.T) {
	var buf bytes.Buffer
	logger := &captureLogger{}
	f := NewFramer(&buf)
	f.SetLogger(logger, "conn-1")

	payload := bytes.Repeat([]byte{0xAB}, MaxLogFrameDataSize+10)
	if err := f.WriteFrame(payload); err != nil {
		t.Fatalf("WriteFrame() error = %v", err)
	}
	if _, err := f.ReadFrame(); err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}

	if len(logger.events) != 2 {
		t.Fatalf("got %d events, want 2", len(logger.events))
	}
	out, in := logger.events[0], logger.events[1]
	if out.Direction != log.DirectionOut || in.Direction != log.DirectionIn {
		t.Errorf("directions = %v/%v, want OUT/IN", out.Direction, in.Direction)
	}
	if !out.Frame.Truncated || len(out.Frame.Data) != MaxLogFrameDataSize {
		t.Errorf("frame data not truncated: %d bytes", len(out.Frame.Data))
	}
	if out.Frame.Size != FrameSize(len(payload)) {
		t.Errorf("Frame.Size = %d, want %d", out.Frame.Size, FrameSize(len(payload)))
	}
	if in.ConnectionID != "conn-1" {
		t.Errorf("ConnectionID = %q, want conn-1", in.ConnectionID)
	}
}
