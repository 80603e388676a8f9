package auth

import "time"

// User types recognized by the platform. The login flow tries each kind in
// a fixed order (player, admin, organization) for a given email.
const (
	UserTypePlayer       = "player"
	UserTypeAdmin        = "admin"
	UserTypeOrganization = "organization"
)

// Organization approval lifecycle.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// AccessPublic is the sentinel role that opens a permission rule to
// unauthenticated requests.
const AccessPublic = "public"

// Player is a self-registered competitor account.
type Player struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Verified     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Admin is a staff account. Admins are provisioned out of band and never
// self-register.
type Admin struct {
	ID            string
	Email         string
	PasswordHash  string
	Role          string
	IsActive      bool
	LoginAttempts int
	LockUntil     *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Organization is a tournament organizer account. Login succeeds regardless
// of approval status; approval is enforced at route authorization time.
type Organization struct {
	ID             string
	Name           string
	OwnerName      string
	Email          string
	PasswordHash   string
	Country        string
	Description    string
	Verified       bool
	ApprovalStatus string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Session is the durable server-side record backing a bearer token. The token
// itself is stateless; the session is the authority on whether it is still
// valid.
type Session struct {
	ID           string
	UserID       string
	UserType     string
	RefreshToken string
	IPAddress    string
	UserAgent    string
	CreatedAt    time.Time
}

// AuditEntry is an append-only record of an auth-relevant action. Writes are
// best effort and never fail the originating request.
type AuditEntry struct {
	ID           string
	ActorID      string
	ActorType    string
	SessionID    string
	Action       string
	TargetType   string
	TargetID     string
	IPAddress    string
	UserAgent    string
	Success      bool
	ErrorMessage string
	OccurredAt   time.Time
}

// Principal is the resolved identity behind a successful credential check,
// normalized across the three account kinds.
type Principal struct {
	ID             string
	Email          string
	Username       string
	OrgName        string
	UserType       string
	Role           string
	Verified       bool
	ApprovalStatus string
}

// LoginInput carries the credentials and request metadata for a login attempt.
type LoginInput struct {
	Email     string
	Password  string
	IPAddress string
	UserAgent string
}

// RegisterInput carries a registration request. UserType selects the account
// kind; kind-specific fields are validated by Register.
type RegisterInput struct {
	UserType    string
	Email       string
	Password    string
	Username    string
	OrgName     string
	OwnerName   string
	Country     string
	Description string
	IPAddress   string
	UserAgent   string
}

// AuthResult is returned by Login and Register.
type AuthResult struct {
	Token        string
	RefreshToken string
	SessionID    string
	Principal    Principal
}

// RefreshResult is returned by Refresh. The session (and its refresh token)
// are reused; only the access token is minted fresh.
type RefreshResult struct {
	Token        string
	RefreshToken string
	SessionID    string
}
