package logger

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// ProgressTimestampLayout renders as year-monthname-day-hour:minute:second, e.g. 2024-Mar-05-14:07:09
const ProgressTimestampLayout = "2006-Jan-02-15:04:05"

// ProgressLog appends one "<timestamp> : <message>" line per pipeline stage event.
// The file is opened in append mode for every entry and never truncated.
type ProgressLog struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

// NewProgressLog creates a progress log writing to path
func NewProgressLog(path string) *ProgressLog {
	return &ProgressLog{
		path: path,
		now:  time.Now,
	}
}

// WithClock replaces the time source used for timestamps
func (p *ProgressLog) WithClock(now func() time.Time) *ProgressLog {
	p.now = now
	return p
}

// Path returns the file the log appends to
func (p *ProgressLog) Path() string {
	return p.path
}

// Log appends a timestamped message
func (p *ProgressLog) Log(message string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	f, err := os.OpenFile(p.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("progress log: open %s: %w", p.path, err)
	}

	line := p.now().Format(ProgressTimestampLayout) + " : " + message + "\n"
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return fmt.Errorf("progress log: write %s: %w", p.path, err)
	}

	return f.Close()
}
