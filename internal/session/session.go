// Package session owns the persisted representation of the current
// authenticated seller session: access and refresh tokens, expiry, and the
// cached profile shown in the dashboard header. The session survives process
// restarts via a JSON file with atomic writes and file locking.
package session

import "time"

// Profile is the user-visible metadata attached to an authenticated session.
// Display-only; nothing in the request layer depends on its contents.
type Profile struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	VendorName string `json:"vendor_name,omitempty"`
}

// Session is the record persisted to the session file.
type Session struct {
	// AccessToken is the opaque bearer token attached to API requests.
	AccessToken string `json:"access_token,omitempty"`

	// RefreshToken is exchanged for a new access token on expiry.
	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresAt is the absolute access-token expiry. Zero means unknown;
	// an unknown expiry is treated as not-yet-expired until a 401 proves
	// otherwise.
	ExpiresAt time.Time `json:"expires_at,omitzero"`

	// Profile is the cached user metadata from login.
	Profile *Profile `json:"profile,omitempty"`

	// UpdatedAt is when the session was last persisted.
	UpdatedAt time.Time `json:"updated_at"`
}

// Expired reports whether the session's access token is known to be expired
// at the given instant. A zero ExpiresAt is never expired.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
