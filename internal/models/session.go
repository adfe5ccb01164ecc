package models

import "time"

// Session is a login. The signed access token carries its ID; the row is
// the source of truth for whether that token is still honoured.
type Session struct {
	ID           string    `json:"id" db:"id"`
	SessionToken string    `json:"-" db:"session_token"`
	ExpiresAt    time.Time `json:"expiresAt" db:"expires_at"`
	RememberMe   bool      `json:"rememberMe" db:"remember_me"`
	UserID       string    `json:"userId" db:"user_id"`
	UserAgent    *string   `json:"userAgent,omitempty" db:"user_agent"`
	IPAddress    *string   `json:"ipAddress,omitempty" db:"ip_address"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// IsExpired reports whether the session is no longer valid at now.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// ClientMetadata describes the client a session was opened from.
type ClientMetadata struct {
	UserAgent string
	IPAddress string
}

// Identity is the caller resolved from a verified access token.
type Identity struct {
	UserID    string `json:"id"`
	Email     string `json:"email"`
	SessionID string `json:"sessionId"`
}
