package auth

import (
	"context"
	"time"
)

// Store describes the persistence operations the auth subsystem requires.
// Each account kind lives in its own table; email uniqueness holds per table
// and cross-kind collisions are tolerated by the fixed login trial order.
type Store interface {
	Players(ctx context.Context) PlayerStore
	Admins(ctx context.Context) AdminStore
	Organizations(ctx context.Context) OrganizationStore
	Sessions(ctx context.Context) SessionStore
	Audit(ctx context.Context) AuditStore
}

// PlayerStore manages player accounts.
type PlayerStore interface {
	Create(ctx context.Context, p *Player) error
	Find(ctx context.Context, id string) (*Player, error)
	FindByEmail(ctx context.Context, email string) (*Player, error)
	FindByUsername(ctx context.Context, username string) (*Player, error)
}

// AdminStore manages admin accounts, including the failed-attempt counter
// used for soft lockout.
type AdminStore interface {
	Find(ctx context.Context, id string) (*Admin, error)
	FindByEmail(ctx context.Context, email string) (*Admin, error)
	UpdateLoginAttempts(ctx context.Context, id string, attempts int, lockUntil *time.Time) error
}

// OrganizationStore manages organization accounts.
type OrganizationStore interface {
	Create(ctx context.Context, o *Organization) error
	Find(ctx context.Context, id string) (*Organization, error)
	FindByEmail(ctx context.Context, email string) (*Organization, error)
}

// SessionStore manages session lifecycle. Revoke is idempotent: revoking an
// absent session is not an error.
type SessionStore interface {
	Create(ctx context.Context, s *Session) error
	Find(ctx context.Context, id string) (*Session, error)
	FindByRefreshToken(ctx context.Context, token string) (*Session, error)
	Revoke(ctx context.Context, id string) error
	RevokeAllForUser(ctx context.Context, userID string) error
}

// AuditStore appends immutable entries.
type AuditStore interface {
	Append(ctx context.Context, entry *AuditEntry) error
}

// Mailer is the outbound email collaborator. Delivery is best effort; the
// auth flows never fail on mailer errors.
type Mailer interface {
	SendVerification(email, token string) error
}
