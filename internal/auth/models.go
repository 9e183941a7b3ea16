package auth

import "time"

// CookieName is the cookie carrying the session token.
const CookieName = "auth"

// Session is an issued session token.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// SessionClaims describes a validated session token.
type SessionClaims struct {
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
