package httpapi

import (
	"context"
	"sync"
	"time"

	"aegis.gg/internal/auth"
)

// fakeStore is an in-memory auth.Store for handler tests.
type fakeStore struct {
	mu       sync.Mutex
	players  map[string]*auth.Player
	admins   map[string]*auth.Admin
	orgs     map[string]*auth.Organization
	sessions map[string]*auth.Session
	audits   []*auth.AuditEntry
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		players:  make(map[string]*auth.Player),
		admins:   make(map[string]*auth.Admin),
		orgs:     make(map[string]*auth.Organization),
		sessions: make(map[string]*auth.Session),
	}
}

func (f *fakeStore) Players(context.Context) auth.PlayerStore             { return fakePlayers{f} }
func (f *fakeStore) Admins(context.Context) auth.AdminStore               { return fakeAdmins{f} }
func (f *fakeStore) Organizations(context.Context) auth.OrganizationStore { return fakeOrgs{f} }
func (f *fakeStore) Sessions(context.Context) auth.SessionStore           { return fakeSessions{f} }
func (f *fakeStore) Audit(context.Context) auth.AuditStore                { return fakeAudit{f} }

type fakePlayers struct{ f *fakeStore }

func (p fakePlayers) Create(_ context.Context, pl *auth.Player) error {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	cp := *pl
	p.f.players[pl.ID] = &cp
	return nil
}

func (p fakePlayers) Find(_ context.Context, id string) (*auth.Player, error) {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	if pl, ok := p.f.players[id]; ok {
		cp := *pl
		return &cp, nil
	}
	return nil, auth.ErrNotFound
}

func (p fakePlayers) FindByEmail(_ context.Context, email string) (*auth.Player, error) {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	for _, pl := range p.f.players {
		if pl.Email == email {
			cp := *pl
			return &cp, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (p fakePlayers) FindByUsername(_ context.Context, username string) (*auth.Player, error) {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	for _, pl := range p.f.players {
		if pl.Username == username {
			cp := *pl
			return &cp, nil
		}
	}
	return nil, auth.ErrNotFound
}

type fakeAdmins struct{ f *fakeStore }

func (a fakeAdmins) Find(_ context.Context, id string) (*auth.Admin, error) {
	a.f.mu.Lock()
	defer a.f.mu.Unlock()
	if ad, ok := a.f.admins[id]; ok {
		cp := *ad
		return &cp, nil
	}
	return nil, auth.ErrNotFound
}

func (a fakeAdmins) FindByEmail(_ context.Context, email string) (*auth.Admin, error) {
	a.f.mu.Lock()
	defer a.f.mu.Unlock()
	for _, ad := range a.f.admins {
		if ad.Email == email {
			cp := *ad
			return &cp, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (a fakeAdmins) UpdateLoginAttempts(_ context.Context, id string, attempts int, lockUntil *time.Time) error {
	a.f.mu.Lock()
	defer a.f.mu.Unlock()
	if ad, ok := a.f.admins[id]; ok {
		ad.LoginAttempts = attempts
		ad.LockUntil = lockUntil
		return nil
	}
	return auth.ErrNotFound
}

type fakeOrgs struct{ f *fakeStore }

func (o fakeOrgs) Create(_ context.Context, org *auth.Organization) error {
	o.f.mu.Lock()
	defer o.f.mu.Unlock()
	cp := *org
	o.f.orgs[org.ID] = &cp
	return nil
}

func (o fakeOrgs) Find(_ context.Context, id string) (*auth.Organization, error) {
	o.f.mu.Lock()
	defer o.f.mu.Unlock()
	if org, ok := o.f.orgs[id]; ok {
		cp := *org
		return &cp, nil
	}
	return nil, auth.ErrNotFound
}

func (o fakeOrgs) FindByEmail(_ context.Context, email string) (*auth.Organization, error) {
	o.f.mu.Lock()
	defer o.f.mu.Unlock()
	for _, org := range o.f.orgs {
		if org.Email == email {
			cp := *org
			return &cp, nil
		}
	}
	return nil, auth.ErrNotFound
}

type fakeSessions struct{ f *fakeStore }

func (s fakeSessions) Create(_ context.Context, sess *auth.Session) error {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	cp := *sess
	s.f.sessions[sess.ID] = &cp
	return nil
}

func (s fakeSessions) Find(_ context.Context, id string) (*auth.Session, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	if sess, ok := s.f.sessions[id]; ok {
		cp := *sess
		return &cp, nil
	}
	return nil, auth.ErrNotFound
}

func (s fakeSessions) FindByRefreshToken(_ context.Context, token string) (*auth.Session, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	for _, sess := range s.f.sessions {
		if sess.RefreshToken == token {
			cp := *sess
			return &cp, nil
		}
	}
	return nil, auth.ErrNotFound
}

func (s fakeSessions) Revoke(_ context.Context, id string) error {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	delete(s.f.sessions, id)
	return nil
}

func (s fakeSessions) RevokeAllForUser(_ context.Context, userID string) error {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	for id, sess := range s.f.sessions {
		if sess.UserID == userID {
			delete(s.f.sessions, id)
		}
	}
	return nil
}

type fakeAudit struct{ f *fakeStore }

func (a fakeAudit) Append(_ context.Context, entry *auth.AuditEntry) error {
	a.f.mu.Lock()
	defer a.f.mu.Unlock()
	cp := *entry
	a.f.audits = append(a.f.audits, &cp)
	return nil
}
