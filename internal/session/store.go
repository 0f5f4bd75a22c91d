package session

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// refreshLead is how far before expiry the proactive refresh fires.
const refreshLead = 5 * time.Minute

// Store manages the single seller session for a running client.
// It provides atomic writes (write-tmp-then-rename), file locking (flock for
// cross-process, mutex for in-process), and soft-failing startup loads.
// SetTokens and Clear are the only mutators.
type Store struct {
	path   string
	logger *slog.Logger

	mu          sync.Mutex
	sess        Session
	timer       *time.Timer
	onProactive func()
	now         func() time.Time
}

// NewStore creates a Store backed by the given file path. The file is not
// read until Load is called.
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		path:   path,
		logger: logger,
		now:    time.Now,
	}
}

// Load reads the persisted session. Missing or corrupt data yields an empty
// session and a warning log; no error is surfaced to the caller. Returns
// whether a persisted session was restored.
func (s *Store) Load() bool {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("session file unreadable, starting logged out",
				"path", s.path, "error", err)
		}
		return false
	}

	// Warn if the session file is readable by group or other.
	// Skip on Windows where Unix permission bits are not supported.
	if runtime.GOOS != "windows" {
		if info, statErr := os.Stat(s.path); statErr == nil {
			if mode := info.Mode().Perm(); mode&0077 != 0 {
				s.logger.Warn("session file has too-open permissions, should be 0600",
					"path", s.path, "current_mode", fmt.Sprintf("%04o", mode))
			}
		}
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		s.logger.Warn("session file corrupt, starting logged out",
			"path", s.path, "error", err)
		return false
	}

	s.mu.Lock()
	s.sess = sess
	s.scheduleLocked()
	s.mu.Unlock()
	return sess.AccessToken != ""
}

// SetTokens stores a new token set, computes the absolute expiry, persists
// the session, and (re)schedules the proactive refresh timer for
// ExpiresAt - 5m. An empty refresh token or nil profile keeps the stored
// value, so refresh responses that omit them do not regress the session.
//
// When expiresIn is non-positive the expiry falls back to the access token's
// JWT exp claim, or unknown if the token is not a parseable JWT.
func (s *Store) SetTokens(access, refresh string, expiresIn time.Duration, profile *Profile) error {
	now := s.now()

	var expiresAt time.Time
	if expiresIn > 0 {
		expiresAt = now.Add(expiresIn)
	} else if exp, ok := jwtExpiry(access); ok {
		expiresAt = exp
	}

	// The lock is held across the disk write so concurrent SetTokens calls
	// cannot rename their temp files out of order and leave stale tokens
	// on disk.
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sess.AccessToken = access
	if refresh != "" {
		s.sess.RefreshToken = refresh
	}
	s.sess.ExpiresAt = expiresAt
	if profile != nil {
		s.sess.Profile = profile
	}
	s.sess.UpdatedAt = now.UTC()
	s.scheduleLocked()

	return s.persistLocked()
}

// Clear erases all session fields, removes the persisted copy, and cancels
// any scheduled proactive refresh.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sess = Session{}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// AuthHeader returns the Authorization header value for the current access
// token. The second return is false when no token is held.
func (s *Store) AuthHeader() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess.AccessToken == "" {
		return "", false
	}
	return "Bearer " + s.sess.AccessToken, true
}

// RefreshTokenValue returns the stored refresh token, if any.
func (s *Store) RefreshTokenValue() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess.RefreshToken == "" {
		return "", false
	}
	return s.sess.RefreshToken, true
}

// IsAuthenticated reports whether an access token is held and not known to
// be expired.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess.AccessToken != "" && !s.sess.Expired(s.now())
}

// Snapshot returns a copy of the current session.
func (s *Store) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sess
	if sess.Profile != nil {
		p := *sess.Profile
		sess.Profile = &p
	}
	return sess
}

// Path returns the session file path.
func (s *Store) Path() string {
	return s.path
}

// OnProactiveRefresh registers the callback fired by the proactive refresh
// timer. Registering reschedules the timer against the current expiry.
func (s *Store) OnProactiveRefresh(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onProactive = fn
	s.scheduleLocked()
}

// scheduleLocked arms the proactive refresh timer for ExpiresAt - refreshLead.
// When that offset is already past, or expiry is unknown, no timer is armed
// and refresh happens reactively on the first 401. Caller holds s.mu.
func (s *Store) scheduleLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.onProactive == nil || s.sess.AccessToken == "" || s.sess.ExpiresAt.IsZero() {
		return
	}
	d := s.sess.ExpiresAt.Add(-refreshLead).Sub(s.now())
	if d <= 0 {
		return
	}
	s.timer = time.AfterFunc(d, s.onProactive)
}

// persistLocked writes the session to disk atomically. Caller holds s.mu,
// which serializes in-process writers; the flock serializes cross-process
// ones.
//
// The write sequence is:
//  1. Acquire flock on path+".lock"
//  2. Marshal the session as indented JSON
//  3. Write to path+".tmp" with 0600 permissions
//  4. Fsync the temp file
//  5. Rename path+".tmp" -> path
//  6. Release flock
func (s *Store) persistLocked() error {
	lockPath := s.path + ".lock"
	lockFile, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer func() { _ = lockFile.Close() }()

	if err := flockLock(lockFile.Fd()); err != nil {
		return fmt.Errorf("acquire file lock: %w", err)
	}
	defer flockUnlock(lockFile.Fd()) //nolint:errcheck

	data, err := json.MarshalIndent(s.sess, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	data = append(data, '\n')

	if err := s.writeAtomic(data); err != nil {
		return err
	}

	// Ensure 0600 after rename as a safety net.
	if err := os.Chmod(s.path, 0600); err != nil {
		s.logger.Warn("failed to set permissions on session file", "error", err)
	}

	s.logger.Debug("session saved", "path", s.path)
	return nil
}

// writeAtomic writes data to a temp file, fsyncs it, and renames it over the
// target path. On any error the temp file is cleaned up.
func (s *Store) writeAtomic(data []byte) error {
	tmpPath := s.path + ".tmp"

	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	cleanup := func() {
		_ = f.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := f.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("fsync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp to session: %w", err)
	}
	return nil
}

// jwtExpiry extracts the exp claim from a JWT access token without verifying
// the signature. The client never trusts the token contents beyond expiry
// scheduling; the server remains the authority via 401s.
func jwtExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
