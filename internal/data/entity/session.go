package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is an opaque bearer token issued at sign-in.
type Session struct {
	BaseSimple
	UserID    uuid.UUID  `db:"user_id"`
	Token     uuid.UUID  `db:"token"`
	Client    ClientInfo `db:"-"`
	ExpiresAt time.Time  `db:"expires_at"`
	RevokedAt *time.Time `db:"revoked_at"`
}

// ClientInfo records what the server saw of the caller when a session opened.
type ClientInfo struct {
	UserAgent string `db:"user_agent"`
	IPAddress string `db:"ip_address"`
}

// Principal is the caller behind a live session token.
type Principal struct {
	UserID    uuid.UUID
	Role      UserRole
	Token     uuid.UUID
	ExpiresAt time.Time
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
