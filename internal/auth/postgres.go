package auth

import (
	"context"
	"database/sql"
	"time"
)

var _ Store = (*PGStore)(nil)

// PGStore implements Store using PostgreSQL.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Players(context.Context) PlayerStore             { return &playerStore{db: s.db} }
func (s *PGStore) Admins(context.Context) AdminStore               { return &adminStore{db: s.db} }
func (s *PGStore) Organizations(context.Context) OrganizationStore { return &orgStore{db: s.db} }
func (s *PGStore) Sessions(context.Context) SessionStore           { return &sessionStore{db: s.db} }
func (s *PGStore) Audit(context.Context) AuditStore                { return &auditStore{db: s.db} }

// Player store -------------------------------------------------------------
type playerStore struct{ db *sql.DB }

const playerColumns = `id, username, email, password_hash, verified, created_at, updated_at`

func (s *playerStore) Create(ctx context.Context, p *Player) error {
	_, err := s.db.ExecContext(ctx,
		`insert into players(id, username, email, password_hash, verified) values($1,$2,$3,$4,$5)`,
		p.ID, p.Username, p.Email, p.PasswordHash, p.Verified,
	)
	return err
}

func (s *playerStore) Find(ctx context.Context, id string) (*Player, error) {
	return s.scanOne(s.db.QueryRowContext(ctx,
		`select `+playerColumns+` from players where id=$1`, id))
}

func (s *playerStore) FindByEmail(ctx context.Context, email string) (*Player, error) {
	return s.scanOne(s.db.QueryRowContext(ctx,
		`select `+playerColumns+` from players where email=$1`, email))
}

func (s *playerStore) FindByUsername(ctx context.Context, username string) (*Player, error) {
	return s.scanOne(s.db.QueryRowContext(ctx,
		`select `+playerColumns+` from players where username=$1`, username))
}

func (s *playerStore) scanOne(row *sql.Row) (*Player, error) {
	var p Player
	if err := row.Scan(&p.ID, &p.Username, &p.Email, &p.PasswordHash, &p.Verified, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Admin store --------------------------------------------------------------
type adminStore struct{ db *sql.DB }

const adminColumns = `id, email, password_hash, role, is_active, login_attempts, lock_until, created_at, updated_at`

func (s *adminStore) Find(ctx context.Context, id string) (*Admin, error) {
	return s.scanOne(s.db.QueryRowContext(ctx,
		`select `+adminColumns+` from admins where id=$1`, id))
}

func (s *adminStore) FindByEmail(ctx context.Context, email string) (*Admin, error) {
	return s.scanOne(s.db.QueryRowContext(ctx,
		`select `+adminColumns+` from admins where email=$1`, email))
}

func (s *adminStore) UpdateLoginAttempts(ctx context.Context, id string, attempts int, lockUntil *time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`update admins set login_attempts=$2, lock_until=$3, updated_at=now() where id=$1`,
		id, attempts, lockUntil,
	)
	return err
}

func (s *adminStore) scanOne(row *sql.Row) (*Admin, error) {
	var (
		a         Admin
		lockUntil sql.NullTime
	)
	if err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.IsActive, &a.LoginAttempts, &lockUntil, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if lockUntil.Valid {
		t := lockUntil.Time
		a.LockUntil = &t
	}
	return &a, nil
}

// Organization store -------------------------------------------------------
type orgStore struct{ db *sql.DB }

const orgColumns = `id, name, owner_name, email, password_hash, country, description, verified, approval_status, created_at, updated_at`

func (s *orgStore) Create(ctx context.Context, o *Organization) error {
	_, err := s.db.ExecContext(ctx,
		`insert into organizations(id, name, owner_name, email, password_hash, country, description, approval_status)
		 values($1,$2,$3,$4,$5,$6,$7,$8)`,
		o.ID, o.Name, o.OwnerName, o.Email, o.PasswordHash, o.Country, o.Description, o.ApprovalStatus,
	)
	return err
}

func (s *orgStore) Find(ctx context.Context, id string) (*Organization, error) {
	return s.scanOne(s.db.QueryRowContext(ctx,
		`select `+orgColumns+` from organizations where id=$1`, id))
}

func (s *orgStore) FindByEmail(ctx context.Context, email string) (*Organization, error) {
	return s.scanOne(s.db.QueryRowContext(ctx,
		`select `+orgColumns+` from organizations where email=$1`, email))
}

func (s *orgStore) scanOne(row *sql.Row) (*Organization, error) {
	var o Organization
	if err := row.Scan(&o.ID, &o.Name, &o.OwnerName, &o.Email, &o.PasswordHash, &o.Country, &o.Description, &o.Verified, &o.ApprovalStatus, &o.CreatedAt, &o.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// Session store ------------------------------------------------------------
type sessionStore struct{ db *sql.DB }

const sessionColumns = `id, user_id, user_type, refresh_token, ip_address, user_agent, created_at`

func (s *sessionStore) Create(ctx context.Context, sess *Session) error {
	_, err := s.db.ExecContext(ctx,
		`insert into sessions(id, user_id, user_type, refresh_token, ip_address, user_agent, created_at)
		 values($1,$2,$3,$4,$5,$6,$7)`,
		sess.ID, sess.UserID, sess.UserType, sess.RefreshToken, sess.IPAddress, sess.UserAgent, sess.CreatedAt,
	)
	return err
}

func (s *sessionStore) Find(ctx context.Context, id string) (*Session, error) {
	return s.scanOne(s.db.QueryRowContext(ctx,
		`select `+sessionColumns+` from sessions where id=$1`, id))
}

func (s *sessionStore) FindByRefreshToken(ctx context.Context, token string) (*Session, error) {
	return s.scanOne(s.db.QueryRowContext(ctx,
		`select `+sessionColumns+` from sessions where refresh_token=$1`, token))
}

func (s *sessionStore) Revoke(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `delete from sessions where id=$1`, id)
	return err
}

func (s *sessionStore) RevokeAllForUser(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `delete from sessions where user_id=$1`, userID)
	return err
}

func (s *sessionStore) scanOne(row *sql.Row) (*Session, error) {
	var (
		sess      Session
		ip, agent sql.NullString
	)
	if err := row.Scan(&sess.ID, &sess.UserID, &sess.UserType, &sess.RefreshToken, &ip, &agent, &sess.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	sess.IPAddress = ip.String
	sess.UserAgent = agent.String
	return &sess, nil
}

// Audit store --------------------------------------------------------------
type auditStore struct{ db *sql.DB }

func (s *auditStore) Append(ctx context.Context, e *AuditEntry) error {
	_, err := s.db.ExecContext(ctx,
		`insert into activity_log(id, actor_id, actor_type, session_id, action, target_type, target_id, ip_address, user_agent, success, error_message, occurred_at)
		 values($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		e.ID, nullIfEmpty(e.ActorID), e.ActorType, nullIfEmpty(e.SessionID), e.Action,
		e.TargetType, nullIfEmpty(e.TargetID), nullIfEmpty(e.IPAddress), nullIfEmpty(e.UserAgent),
		e.Success, nullIfEmpty(e.ErrorMessage), e.OccurredAt,
	)
	return err
}

func nullIfEmpty(v string) any {
	if v == "" {
		return nil
	}
	return v
}
