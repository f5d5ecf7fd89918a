package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"time"
)

// LogstashWriter mirrors log lines to a Logstash TCP json_lines input. Writes
// never fail and never block longer than the write timeout: while Logstash is
// unreachable lines are dropped until the retry window passes.
type LogstashWriter struct {
	addr          string
	service       string
	dialTimeout   time.Duration
	writeTimeout  time.Duration
	retryInterval time.Duration
	now           func() time.Time

	mu        sync.Mutex
	conn      net.Conn
	nextRetry time.Time
	closed    bool
}

type Option func(*LogstashWriter)

func WithDialTimeout(d time.Duration) Option {
	return func(w *LogstashWriter) { w.dialTimeout = d }
}

func WithWriteTimeout(d time.Duration) Option {
	return func(w *LogstashWriter) { w.writeTimeout = d }
}

// WithRetryInterval sets the pause after a failed connect or write.
func WithRetryInterval(d time.Duration) Option {
	return func(w *LogstashWriter) { w.retryInterval = d }
}

// WithService tags every event with a "service" field so the API and the
// back-office can share one index.
func WithService(name string) Option {
	return func(w *LogstashWriter) { w.service = strings.TrimSpace(name) }
}

func NewLogstashWriter(addr string, opts ...Option) (*LogstashWriter, error) {
	if strings.TrimSpace(addr) == "" {
		return nil, errors.New("logstash: empty address")
	}
	w := &LogstashWriter{
		addr:          addr,
		dialTimeout:   2 * time.Second,
		writeTimeout:  time.Second,
		retryInterval: 5 * time.Second,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

func (w *LogstashWriter) Write(p []byte) (int, error) {
	if len(bytes.TrimSpace(p)) == 0 {
		return len(p), nil
	}
	event := w.frame(p)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return 0, io.ErrClosedPipe
	}
	if err := w.ensureConnLocked(); err != nil {
		return len(p), nil
	}
	if w.writeTimeout > 0 {
		_ = w.conn.SetWriteDeadline(w.now().Add(w.writeTimeout))
	}
	if _, err := w.conn.Write(event); err != nil {
		w.closeConnLocked()
		w.scheduleRetryLocked()
	}
	return len(p), nil
}

func (w *LogstashWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	return w.closeConnLocked()
}

// frame turns one log line into one json_lines event. JSON object lines (the
// request logger's) are passed through with the service field added and their
// "time" copied to @timestamp; plain lines become {"message": ...}.
func (w *LogstashWriter) frame(p []byte) []byte {
	line := bytes.TrimSpace(p)

	var fields map[string]any
	if line[0] != '{' || json.Unmarshal(line, &fields) != nil {
		fields = map[string]any{
			"message":    string(line),
			"@timestamp": w.now().UTC().Format(time.RFC3339Nano),
		}
	}
	if _, ok := fields["@timestamp"]; !ok {
		if ts, ok := fields["time"].(string); ok && ts != "" {
			fields["@timestamp"] = ts
		} else {
			fields["@timestamp"] = w.now().UTC().Format(time.RFC3339Nano)
		}
	}
	if w.service != "" {
		if _, ok := fields["service"]; !ok {
			fields["service"] = w.service
		}
	}
	out, err := json.Marshal(fields)
	if err != nil {
		out = append([]byte(nil), line...)
	}
	return append(out, '\n')
}

func (w *LogstashWriter) ensureConnLocked() error {
	if w.conn != nil {
		return nil
	}
	if !w.nextRetry.IsZero() && w.now().Before(w.nextRetry) {
		return errRetryCooldown
	}
	conn, err := net.DialTimeout("tcp", w.addr, w.dialTimeout)
	if err != nil {
		w.scheduleRetryLocked()
		return err
	}
	w.conn = conn
	w.nextRetry = time.Time{}
	return nil
}

func (w *LogstashWriter) closeConnLocked() error {
	if w.conn == nil {
		return nil
	}
	err := w.conn.Close()
	w.conn = nil
	return err
}

func (w *LogstashWriter) scheduleRetryLocked() {
	if w.retryInterval <= 0 {
		w.nextRetry = time.Time{}
		return
	}
	w.nextRetry = w.now().Add(w.retryInterval)
}

var errRetryCooldown = errors.New("logstash: retry cooldown in effect")
