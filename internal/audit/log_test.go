package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestAppendWritesJSONLines(t *testing.T) {
	dir := t.TempDir()
	l, err := Open(dir, 7, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer l.Close()

	now := time.Date(2026, 8, 21, 9, 30, 0, 0, time.UTC)
	entries := []Entry{
		{Time: now, Actor: "ada@example.com", Action: "login", Outcome: OutcomeOK},
		{Time: now, Actor: "ada@example.com", Action: "invoice.generate", Target: "job-1", Outcome: OutcomeOK, Detail: "2 orders"},
	}
	for _, e := range entries {
		if err := l.Append(e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	f, err := os.Open(filepath.Join(dir, "activity-2026-08-21.log"))
	if err != nil {
		t.Fatalf("open log file: %v", err)
	}
	defer f.Close()

	var got []Entry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatalf("line not valid JSON: %v", err)
		}
		got = append(got, e)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[1].Action != "invoice.generate" || got[1].Target != "job-1" {
		t.Errorf("unexpected entry: %+v", got[1])
	}
}

func TestRotationByDate(t *testing.T) {
	dir := t.TempDir()
	l, err := Open(dir, 7, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer l.Close()

	day1 := time.Date(2026, 8, 20, 23, 59, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 21, 0, 1, 0, 0, time.UTC)
	if err := l.Append(Entry{Time: day1, Action: "login", Outcome: OutcomeOK}); err != nil {
		t.Fatalf("append day1: %v", err)
	}
	if err := l.Append(Entry{Time: day2, Action: "logout", Outcome: OutcomeOK}); err != nil {
		t.Fatalf("append day2: %v", err)
	}

	for _, name := range []string{"activity-2026-08-20.log", "activity-2026-08-21.log"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}
}

func TestRetentionCleanup(t *testing.T) {
	dir := t.TempDir()

	// Pre-existing files: one expired, one within retention, one unrelated.
	stale := filepath.Join(dir, "activity-2026-08-01.log")
	fresh := filepath.Join(dir, "activity-2026-08-19.log")
	other := filepath.Join(dir, "notes.txt")
	for _, path := range []string{stale, fresh, other} {
		if err := os.WriteFile(path, []byte("x\n"), 0600); err != nil {
			t.Fatalf("seed %s: %v", path, err)
		}
	}

	l, err := Open(dir, 7, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer l.Close()

	// Rotation triggers cleanup with this entry's date as "now".
	now := time.Date(2026, 8, 21, 12, 0, 0, 0, time.UTC)
	if err := l.Append(Entry{Time: now, Action: "login", Outcome: OutcomeOK}); err != nil {
		t.Fatalf("append: %v", err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("expected expired file removed, stat err = %v", err)
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Errorf("file within retention must survive: %v", err)
	}
	if _, err := os.Stat(other); err != nil {
		t.Errorf("unrelated file must survive: %v", err)
	}
}

func TestAppendAfterCloseFails(t *testing.T) {
	l, err := Open(t.TempDir(), 7, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := l.Append(Entry{Action: "login", Outcome: OutcomeOK}); err == nil {
		t.Error("expected error appending to a closed log")
	}
}

func TestRecordIsNilSafe(t *testing.T) {
	var l *Log
	// Must not panic.
	l.Record("ada@example.com", "login", "", OutcomeOK, "")
}
