package tui

import (
	"io"
	"strings"
	"sync"
	"time"
)

type logEntry struct {
	time    time.Time
	message string
	level   string
}

// LogConsole keeps the most recent log lines for the console pane. The zap
// core writes from any goroutine while View reads from the bubbletea loop.
type LogConsole struct {
	mu      sync.Mutex
	entries []logEntry
	max     int
}

// NewLogConsole creates a console holding up to max lines
func NewLogConsole(max int) *LogConsole {
	if max <= 0 {
		max = 100
	}
	return &LogConsole{max: max}
}

func (b *LogConsole) add(message, level string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries = append(b.entries, logEntry{time: time.Now(), message: message, level: level})
	if len(b.entries) > b.max {
		b.entries = b.entries[len(b.entries)-b.max:]
	}
}

// tail returns the last n entries, oldest first
func (b *LogConsole) tail(n int) []logEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	if n > len(b.entries) {
		n = len(b.entries)
	}
	return append([]logEntry(nil), b.entries[len(b.entries)-n:]...)
}

func (b *LogConsole) Write(p []byte) (n int, err error) {
	for _, line := range strings.Split(string(p), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		b.add(line, levelOf(line))
	}
	return len(p), nil
}

// levelOf reads the level column of a console-encoded zap line
func levelOf(line string) string {
	fields := strings.SplitN(line, "\t", 3)
	if len(fields) < 2 {
		return "info"
	}
	switch strings.TrimSpace(fields[1]) {
	case "ERROR", "DPANIC", "PANIC", "FATAL":
		return "error"
	case "WARN":
		return "warning"
	case "DEBUG":
		return "debug"
	}
	if strings.Contains(line, "✅") {
		return "success"
	}
	return "info"
}

var _ io.Writer = (*LogConsole)(nil)
