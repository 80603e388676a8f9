package auth

import (
	"context"
	"sync"
	"time"
)

// memStore is an in-memory Store used by the service tests.
type memStore struct {
	mu       sync.Mutex
	players  map[string]*Player
	admins   map[string]*Admin
	orgs     map[string]*Organization
	sessions map[string]*Session
	audits   []*AuditEntry
}

func newMemStore() *memStore {
	return &memStore{
		players:  make(map[string]*Player),
		admins:   make(map[string]*Admin),
		orgs:     make(map[string]*Organization),
		sessions: make(map[string]*Session),
	}
}

func (m *memStore) Players(context.Context) PlayerStore             { return &memPlayers{m} }
func (m *memStore) Admins(context.Context) AdminStore               { return &memAdmins{m} }
func (m *memStore) Organizations(context.Context) OrganizationStore { return &memOrgs{m} }
func (m *memStore) Sessions(context.Context) SessionStore           { return &memSessions{m} }
func (m *memStore) Audit(context.Context) AuditStore                { return &memAudit{m} }

type memPlayers struct{ s *memStore }

func (p *memPlayers) Create(_ context.Context, pl *Player) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	cp := *pl
	p.s.players[pl.ID] = &cp
	return nil
}

func (p *memPlayers) Find(_ context.Context, id string) (*Player, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if pl, ok := p.s.players[id]; ok {
		cp := *pl
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (p *memPlayers) FindByEmail(_ context.Context, email string) (*Player, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	for _, pl := range p.s.players {
		if pl.Email == email {
			cp := *pl
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (p *memPlayers) FindByUsername(_ context.Context, username string) (*Player, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	for _, pl := range p.s.players {
		if pl.Username == username {
			cp := *pl
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

type memAdmins struct{ s *memStore }

func (a *memAdmins) Find(_ context.Context, id string) (*Admin, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	if ad, ok := a.s.admins[id]; ok {
		cp := *ad
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (a *memAdmins) FindByEmail(_ context.Context, email string) (*Admin, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	for _, ad := range a.s.admins {
		if ad.Email == email {
			cp := *ad
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (a *memAdmins) UpdateLoginAttempts(_ context.Context, id string, attempts int, lockUntil *time.Time) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	ad, ok := a.s.admins[id]
	if !ok {
		return ErrNotFound
	}
	ad.LoginAttempts = attempts
	ad.LockUntil = lockUntil
	return nil
}

type memOrgs struct{ s *memStore }

func (o *memOrgs) Create(_ context.Context, org *Organization) error {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	cp := *org
	o.s.orgs[org.ID] = &cp
	return nil
}

func (o *memOrgs) Find(_ context.Context, id string) (*Organization, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	if org, ok := o.s.orgs[id]; ok {
		cp := *org
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (o *memOrgs) FindByEmail(_ context.Context, email string) (*Organization, error) {
	o.s.mu.Lock()
	defer o.s.mu.Unlock()
	for _, org := range o.s.orgs {
		if org.Email == email {
			cp := *org
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

type memSessions struct{ s *memStore }

func (ms *memSessions) Create(_ context.Context, sess *Session) error {
	ms.s.mu.Lock()
	defer ms.s.mu.Unlock()
	cp := *sess
	ms.s.sessions[sess.ID] = &cp
	return nil
}

func (ms *memSessions) Find(_ context.Context, id string) (*Session, error) {
	ms.s.mu.Lock()
	defer ms.s.mu.Unlock()
	if sess, ok := ms.s.sessions[id]; ok {
		cp := *sess
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (ms *memSessions) FindByRefreshToken(_ context.Context, token string) (*Session, error) {
	ms.s.mu.Lock()
	defer ms.s.mu.Unlock()
	for _, sess := range ms.s.sessions {
		if sess.RefreshToken == token {
			cp := *sess
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (ms *memSessions) Revoke(_ context.Context, id string) error {
	ms.s.mu.Lock()
	defer ms.s.mu.Unlock()
	delete(ms.s.sessions, id)
	return nil
}

func (ms *memSessions) RevokeAllForUser(_ context.Context, userID string) error {
	ms.s.mu.Lock()
	defer ms.s.mu.Unlock()
	for id, sess := range ms.s.sessions {
		if sess.UserID == userID {
			delete(ms.s.sessions, id)
		}
	}
	return nil
}

type memAudit struct{ s *memStore }

func (a *memAudit) Append(_ context.Context, entry *AuditEntry) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	cp := *entry
	a.s.audits = append(a.s.audits, &cp)
	return nil
}

func (m *memStore) auditEntries() []*AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*AuditEntry, len(m.audits))
	copy(out, m.audits)
	return out
}

// seed helpers --------------------------------------------------------------

func seedPlayer(s *memStore, id, username, email, password string, verified bool) {
	hash, _ := HashPassword(password)
	s.players[id] = &Player{ID: id, Username: username, Email: email, PasswordHash: hash, Verified: verified}
}

func seedAdmin(s *memStore, id, email, password, role string, active bool) {
	hash, _ := HashPassword(password)
	s.admins[id] = &Admin{ID: id, Email: email, PasswordHash: hash, Role: role, IsActive: active}
}

func seedOrg(s *memStore, id, name, email, password, approval string, verified bool) {
	hash, _ := HashPassword(password)
	s.orgs[id] = &Organization{ID: id, Name: name, Email: email, PasswordHash: hash, ApprovalStatus: approval, Verified: verified}
}
