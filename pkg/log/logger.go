package log

// Logger receives trace events. Log is called on the goroutine doing the I/O
// or service work, so implementations must be safe for concurrent use and
// should not block.
type Logger interface {
	Log(event Event)
}

// NoopLogger discards events. The zero value is ready to use.
type NoopLogger struct{}

func (NoopLogger) Log(Event) {}

// MultiLogger fans each event out to several loggers in order.
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger creates a MultiLogger. Nil loggers are skipped.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	m := &MultiLogger{}
	for _, l := range loggers {
		if l != nil {
			m.loggers = append(m.loggers, l)
		}
	}
	return m
}

func (m *MultiLogger) Log(event Event) {
	for _, l := range m.loggers {
		l.Log(event)
	}
}

var (
	_ Logger = NoopLogger{}
	_ Logger = (*MultiLogger)(nil)
)
