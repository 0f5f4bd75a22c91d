// Package audit provides a JSON Lines activity log for security-relevant
// client operations (logins, forced logouts, invoice jobs, mail batches),
// with daily file rotation and retention cleanup.
package audit

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"
)

// Entry is one activity record.
type Entry struct {
	Time    time.Time `json:"time"`
	Actor   string    `json:"actor,omitempty"`
	Action  string    `json:"action"`
	Target  string    `json:"target,omitempty"`
	Outcome string    `json:"outcome"`
	Detail  string    `json:"detail,omitempty"`
}

// Common outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// activityFilePattern matches activity log filenames: activity-YYYY-MM-DD.log
var activityFilePattern = regexp.MustCompile(`^activity-(\d{4}-\d{2}-\d{2})\.log$`)

// Log appends entries to activity-YYYY-MM-DD.log files in a directory,
// rotating on date change and deleting files older than the retention
// window. Safe for concurrent use.
type Log struct {
	dir           string
	retentionDays int
	logger        *slog.Logger

	mu          sync.Mutex
	currentFile *os.File
	currentDate string
	closed      bool
}

// Open creates the directory if needed and returns a ready Log.
// retentionDays <= 0 defaults to 7.
func Open(dir string, retentionDays int, logger *slog.Logger) (*Log, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if retentionDays <= 0 {
		retentionDays = 7
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create audit dir: %w", err)
	}
	return &Log{
		dir:           dir,
		retentionDays: retentionDays,
		logger:        logger,
	}, nil
}

// Append writes one entry. A zero Time is filled with the current UTC time.
func (l *Log) Append(e Entry) error {
	if e.Time.IsZero() {
		e.Time = time.Now().UTC()
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal audit entry: %w", err)
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return fmt.Errorf("audit log closed")
	}
	if err := l.rotateLocked(e.Time); err != nil {
		return err
	}
	if _, err := l.currentFile.Write(data); err != nil {
		return fmt.Errorf("write audit entry: %w", err)
	}
	return nil
}

// Close flushes and closes the current file.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	if l.currentFile == nil {
		return nil
	}
	err := l.currentFile.Close()
	l.currentFile = nil
	return err
}

// rotateLocked opens the file for the entry's date, closing the previous one
// and cleaning up expired files when the date rolls over. Caller holds l.mu.
func (l *Log) rotateLocked(now time.Time) error {
	date := now.UTC().Format("2006-01-02")
	if l.currentFile != nil && l.currentDate == date {
		return nil
	}

	if l.currentFile != nil {
		if err := l.currentFile.Close(); err != nil {
			l.logger.Warn("failed to close previous audit file", "error", err)
		}
		l.currentFile = nil
	}

	path := filepath.Join(l.dir, "activity-"+date+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("open audit file: %w", err)
	}
	l.currentFile = f
	l.currentDate = date

	l.cleanupLocked(now)
	return nil
}

// cleanupLocked deletes activity files older than the retention window.
func (l *Log) cleanupLocked(now time.Time) {
	cutoff := now.UTC().AddDate(0, 0, -l.retentionDays).Format("2006-01-02")

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		l.logger.Warn("failed to list audit dir for cleanup", "error", err)
		return
	}
	for _, ent := range entries {
		m := activityFilePattern.FindStringSubmatch(ent.Name())
		if m == nil || m[1] >= cutoff {
			continue
		}
		if err := os.Remove(filepath.Join(l.dir, ent.Name())); err != nil {
			l.logger.Warn("failed to remove expired audit file",
				"file", ent.Name(), "error", err)
		} else {
			l.logger.Debug("removed expired audit file", "file", ent.Name())
		}
	}
}

// Record is a convenience wrapper that logs append failures instead of
// returning them; activity logging must never fail a user operation.
func (l *Log) Record(actor, action, target, outcome, detail string) {
	if l == nil {
		return
	}
	err := l.Append(Entry{
		Actor:   actor,
		Action:  action,
		Target:  target,
		Outcome: outcome,
		Detail:  detail,
	})
	if err != nil {
		l.logger.Warn("failed to record audit entry", "action", action, "error", err)
	}
}
