package auth

import (
	"context"
	"time"
)

const (
	maxAdminAttempts = 5
	adminLockWindow  = time.Hour
)

// authenticate tries each account kind in the platform's fixed order:
// player, then admin, then organization. The first kind that verifies the
// credentials wins, so a cross-kind email collision always resolves to the
// earliest kind in the order. A nil principal with a nil error is the normal
// "wrong credentials" outcome; errors are reserved for store failures.
func (s *Service) authenticate(ctx context.Context, email, password string) (*Principal, error) {
	if p, err := s.authenticatePlayer(ctx, email, password); err != nil || p != nil {
		return p, err
	}
	if p, err := s.authenticateAdmin(ctx, email, password); err != nil || p != nil {
		return p, err
	}
	return s.authenticateOrganization(ctx, email, password)
}

func (s *Service) authenticatePlayer(ctx context.Context, email, password string) (*Principal, error) {
	player, err := s.store.Players(ctx).FindByEmail(ctx, email)
	if err != nil {
		if err == ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	ok, err := VerifyPassword(player.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &Principal{
		ID:       player.ID,
		Email:    player.Email,
		Username: player.Username,
		UserType: UserTypePlayer,
		Verified: player.Verified,
	}, nil
}

// authenticateAdmin gates before the password check: an inactive or locked
// admin is indistinguishable from a missing account. Failed attempts feed the
// soft lockout counter; the lock clears by expiry alone, checked here on each
// attempt.
func (s *Service) authenticateAdmin(ctx context.Context, email, password string) (*Principal, error) {
	admins := s.store.Admins(ctx)
	admin, err := admins.FindByEmail(ctx, email)
	if err != nil {
		if err == ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	if !admin.IsActive {
		return nil, nil
	}
	now := s.now()
	locked := admin.LockUntil != nil && now.Before(*admin.LockUntil)
	if locked {
		return nil, nil
	}
	ok, err := VerifyPassword(admin.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		attempts := admin.LoginAttempts
		if admin.LockUntil != nil && !now.Before(*admin.LockUntil) {
			// Expired lock: the counter starts over.
			attempts = 0
		}
		attempts++
		var lockUntil *time.Time
		if attempts >= maxAdminAttempts {
			until := now.Add(adminLockWindow)
			lockUntil = &until
		}
		// Best effort; two racing failures may under-count by one, which is
		// acceptable for a soft lockout.
		if uerr := admins.UpdateLoginAttempts(ctx, admin.ID, attempts, lockUntil); uerr != nil {
			return nil, uerr
		}
		return nil, nil
	}
	if admin.LoginAttempts != 0 || admin.LockUntil != nil {
		if uerr := admins.UpdateLoginAttempts(ctx, admin.ID, 0, nil); uerr != nil {
			return nil, uerr
		}
	}
	return &Principal{
		ID:       admin.ID,
		Email:    admin.Email,
		UserType: UserTypeAdmin,
		Role:     admin.Role,
		Verified: true,
	}, nil
}

// authenticateOrganization deliberately ignores approval status: a pending
// organization can log in, and the permission resolver blocks gated routes
// until it is approved.
func (s *Service) authenticateOrganization(ctx context.Context, email, password string) (*Principal, error) {
	org, err := s.store.Organizations(ctx).FindByEmail(ctx, email)
	if err != nil {
		if err == ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	ok, err := VerifyPassword(org.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &Principal{
		ID:             org.ID,
		Email:          org.Email,
		OrgName:        org.Name,
		UserType:       UserTypeOrganization,
		Verified:       org.Verified,
		ApprovalStatus: org.ApprovalStatus,
	}, nil
}

// loadPrincipal re-reads the account named by a session so refreshed tokens
// carry current role and verification state rather than stale claims.
func (s *Service) loadPrincipal(ctx context.Context, userType, userID string) (*Principal, error) {
	switch userType {
	case UserTypePlayer:
		p, err := s.store.Players(ctx).Find(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &Principal{ID: p.ID, Email: p.Email, Username: p.Username, UserType: UserTypePlayer, Verified: p.Verified}, nil
	case UserTypeAdmin:
		a, err := s.store.Admins(ctx).Find(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &Principal{ID: a.ID, Email: a.Email, UserType: UserTypeAdmin, Role: a.Role, Verified: true}, nil
	case UserTypeOrganization:
		o, err := s.store.Organizations(ctx).Find(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &Principal{ID: o.ID, Email: o.Email, OrgName: o.Name, UserType: UserTypeOrganization, Verified: o.Verified, ApprovalStatus: o.ApprovalStatus}, nil
	default:
		return nil, ErrNotFound
	}
}
