package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"aegis.gg/internal/ids"
	"aegis.gg/internal/obs"
)

const (
	defaultLoginPerHour    = 5
	defaultRegisterPerHour = 3
	limiterTTL             = 2 * time.Hour
)

// Service is the request-facing auth orchestrator. It ties credential
// verification, session lifecycle, token issuance and audit logging together.
type Service struct {
	store  Store
	codec  *TokenCodec
	sink   *AuditSink
	mailer Mailer
	now    func() time.Time

	loginLimiter    *ipLimiter
	registerLimiter *ipLimiter
}

// Option configures Service behavior.
type Option func(*Service)

// WithClock overrides the time source, useful in tests.
func WithClock(fn func() time.Time) Option {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// WithMailer sets the outbound email collaborator.
func WithMailer(m Mailer) Option {
	return func(s *Service) {
		if m != nil {
			s.mailer = m
		}
	}
}

// WithLoginRate overrides the per-IP login attempt budget per hour.
func WithLoginRate(perHour int) Option {
	return func(s *Service) {
		if perHour > 0 {
			s.loginLimiter = newIPLimiter(perHour, limiterTTL)
		}
	}
}

// WithRegisterRate overrides the per-IP registration budget per hour.
func WithRegisterRate(perHour int) Option {
	return func(s *Service) {
		if perHour > 0 {
			s.registerLimiter = newIPLimiter(perHour, limiterTTL)
		}
	}
}

// NewService constructs the orchestrator.
func NewService(store Store, codec *TokenCodec, sink *AuditSink, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if codec == nil {
		return nil, errors.New("token codec is required")
	}
	if sink == nil {
		return nil, errors.New("audit sink is required")
	}
	s := &Service{
		store:           store,
		codec:           codec,
		sink:            sink,
		mailer:          noopMailer{},
		now:             time.Now,
		loginLimiter:    newIPLimiter(defaultLoginPerHour, limiterTTL),
		registerLimiter: newIPLimiter(defaultRegisterPerHour, limiterTTL),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

type noopMailer struct{}

func (noopMailer) SendVerification(string, string) error { return nil }

// Login authenticates an email+password pair against the three account kinds
// in fixed order. The per-IP limiter runs before any credential store is
// touched.
func (s *Service) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if !s.loginLimiter.allow(in.IPAddress) {
		obs.AuthRateLimited.WithLabelValues("login").Inc()
		return nil, ErrRateLimited
	}
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || in.Password == "" {
		return nil, ErrUnauthorized
	}

	principal, err := s.authenticate(ctx, email, in.Password)
	if err != nil {
		return nil, err
	}
	if principal == nil {
		obs.AuthLogins.WithLabelValues("failure").Inc()
		s.sink.Record(&AuditEntry{
			Action:       "login",
			TargetType:   "account",
			IPAddress:    in.IPAddress,
			UserAgent:    in.UserAgent,
			Success:      false,
			ErrorMessage: "invalid credentials",
		})
		return nil, ErrUnauthorized
	}

	result, err := s.establishSession(ctx, principal, in.IPAddress, in.UserAgent)
	if err != nil {
		return nil, err
	}
	obs.AuthLogins.WithLabelValues("success").Inc()
	s.sink.Record(&AuditEntry{
		ActorID:    principal.ID,
		ActorType:  principal.UserType,
		SessionID:  result.SessionID,
		Action:     "login",
		TargetType: "account",
		TargetID:   principal.ID,
		IPAddress:  in.IPAddress,
		UserAgent:  in.UserAgent,
		Success:    true,
	})
	return result, nil
}

// Register creates a player or organization account. Admin accounts are never
// self-registered. Player registrations get a verification token handed to
// the mailer; delivery is fire and forget.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if !s.registerLimiter.allow(in.IPAddress) {
		obs.AuthRateLimited.WithLabelValues("register").Inc()
		return nil, ErrRateLimited
	}
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		return nil, missingField("email")
	}
	if in.Password == "" {
		return nil, missingField("password")
	}

	var principal *Principal
	var err error
	switch in.UserType {
	case UserTypePlayer:
		principal, err = s.registerPlayer(ctx, email, in)
	case UserTypeOrganization:
		principal, err = s.registerOrganization(ctx, email, in)
	default:
		return nil, &ValidationError{Field: "user_type", Reason: "must be player or organization"}
	}
	if err != nil {
		return nil, err
	}

	result, err := s.establishSession(ctx, principal, in.IPAddress, in.UserAgent)
	if err != nil {
		return nil, err
	}
	s.sink.Record(&AuditEntry{
		ActorID:    principal.ID,
		ActorType:  principal.UserType,
		SessionID:  result.SessionID,
		Action:     "register",
		TargetType: "account",
		TargetID:   principal.ID,
		IPAddress:  in.IPAddress,
		UserAgent:  in.UserAgent,
		Success:    true,
	})
	return result, nil
}

func (s *Service) registerPlayer(ctx context.Context, email string, in RegisterInput) (*Principal, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, missingField("username")
	}
	players := s.store.Players(ctx)
	if _, err := players.FindByEmail(ctx, email); err == nil {
		return nil, &ValidationError{Field: "email", Reason: "already registered"}
	} else if err != ErrNotFound {
		return nil, err
	}
	if _, err := players.FindByUsername(ctx, username); err == nil {
		return nil, &ValidationError{Field: "username", Reason: "already taken"}
	} else if err != ErrNotFound {
		return nil, err
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	player := &Player{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := players.Create(ctx, player); err != nil {
		return nil, err
	}

	verifyToken := ids.New()
	go func(addr, tok string) {
		if err := s.mailer.SendVerification(addr, tok); err != nil {
			obs.LogRequest(map[string]any{
				"level": "warn",
				"msg":   "verification mail failed",
				"error": err.Error(),
			})
		}
	}(email, verifyToken)

	return &Principal{
		ID:       player.ID,
		Email:    player.Email,
		Username: player.Username,
		UserType: UserTypePlayer,
	}, nil
}

func (s *Service) registerOrganization(ctx context.Context, email string, in RegisterInput) (*Principal, error) {
	for _, f := range []struct{ name, value string }{
		{"org_name", in.OrgName},
		{"owner_name", in.OwnerName},
		{"country", in.Country},
		{"description", in.Description},
	} {
		if strings.TrimSpace(f.value) == "" {
			return nil, missingField(f.name)
		}
	}
	orgs := s.store.Organizations(ctx)
	if _, err := orgs.FindByEmail(ctx, email); err == nil {
		return nil, &ValidationError{Field: "email", Reason: "already registered"}
	} else if err != ErrNotFound {
		return nil, err
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	org := &Organization{
		ID:             uuid.NewString(),
		Name:           strings.TrimSpace(in.OrgName),
		OwnerName:      strings.TrimSpace(in.OwnerName),
		Email:          email,
		PasswordHash:   hash,
		Country:        strings.TrimSpace(in.Country),
		Description:    strings.TrimSpace(in.Description),
		ApprovalStatus: ApprovalPending,
	}
	if err := orgs.Create(ctx, org); err != nil {
		return nil, err
	}
	return &Principal{
		ID:             org.ID,
		Email:          org.Email,
		OrgName:        org.Name,
		UserType:       UserTypeOrganization,
		ApprovalStatus: org.ApprovalStatus,
	}, nil
}

// Refresh exchanges a refresh token for a fresh access token bound to the
// same session. The refresh token itself is not rotated; the session record
// is reused, a documented trade of rotation security for statelessness.
func (s *Service) Refresh(ctx context.Context, refreshToken, ip, userAgent string) (*RefreshResult, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, ErrUnauthorized
	}
	session, err := s.store.Sessions(ctx).FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		if err == ErrNotFound {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	principal, err := s.loadPrincipal(ctx, session.UserType, session.UserID)
	if err != nil {
		return nil, err
	}
	token, err := s.codec.Encode(s.claimsFor(principal, session.ID))
	if err != nil {
		return nil, err
	}
	s.sink.Record(&AuditEntry{
		ActorID:    principal.ID,
		ActorType:  principal.UserType,
		SessionID:  session.ID,
		Action:     "refresh",
		TargetType: "session",
		TargetID:   session.ID,
		IPAddress:  ip,
		UserAgent:  userAgent,
		Success:    true,
	})
	return &RefreshResult{
		Token:        token,
		RefreshToken: session.RefreshToken,
		SessionID:    session.ID,
	}, nil
}

// Logout revokes the single session named in the claims. Revocation is
// idempotent; the transport clears the cookie regardless.
func (s *Service) Logout(ctx context.Context, claims *Claims, ip, userAgent string) error {
	if err := s.store.Sessions(ctx).Revoke(ctx, claims.SessionID); err != nil {
		return err
	}
	s.sink.Record(&AuditEntry{
		ActorID:    claims.Subject,
		ActorType:  claims.UserType,
		SessionID:  claims.SessionID,
		Action:     "logout",
		TargetType: "session",
		TargetID:   claims.SessionID,
		IPAddress:  ip,
		UserAgent:  userAgent,
		Success:    true,
	})
	return nil
}

// RevokeAll revokes every session owned by the subject ("logout everywhere").
func (s *Service) RevokeAll(ctx context.Context, claims *Claims, ip, userAgent string) error {
	if err := s.store.Sessions(ctx).RevokeAllForUser(ctx, claims.Subject); err != nil {
		return err
	}
	s.sink.Record(&AuditEntry{
		ActorID:    claims.Subject,
		ActorType:  claims.UserType,
		SessionID:  claims.SessionID,
		Action:     "revoke_all_sessions",
		TargetType: "account",
		TargetID:   claims.Subject,
		IPAddress:  ip,
		UserAgent:  userAgent,
		Success:    true,
	})
	return nil
}

// AuthenticateRequest is the two-stage verification pipeline run on every
// authenticated request: signature and expiry first, then the session store,
// which is the sole authority on continued validity. Each stage exits early.
func (s *Service) AuthenticateRequest(ctx context.Context, token string) (*Claims, error) {
	claims, err := s.codec.Decode(token)
	if err != nil {
		return nil, err
	}
	session, err := s.store.Sessions(ctx).Find(ctx, claims.SessionID)
	if err != nil {
		if err == ErrNotFound {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if session.UserID != claims.Subject {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

func (s *Service) establishSession(ctx context.Context, principal *Principal, ip, userAgent string) (*AuthResult, error) {
	refreshToken, err := newRefreshToken()
	if err != nil {
		return nil, err
	}
	session := &Session{
		ID:           uuid.NewString(),
		UserID:       principal.ID,
		UserType:     principal.UserType,
		RefreshToken: refreshToken,
		IPAddress:    ip,
		UserAgent:    userAgent,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.Sessions(ctx).Create(ctx, session); err != nil {
		return nil, err
	}
	token, err := s.codec.Encode(s.claimsFor(principal, session.ID))
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		Token:        token,
		RefreshToken: session.RefreshToken,
		SessionID:    session.ID,
		Principal:    *principal,
	}, nil
}

func (s *Service) claimsFor(principal *Principal, sessionID string) *Claims {
	claims := &Claims{
		UserType:  principal.UserType,
		SessionID: sessionID,
		Verified:  principal.Verified,
	}
	claims.Subject = principal.ID
	if principal.UserType == UserTypeAdmin {
		claims.Role = principal.Role
	}
	if principal.UserType == UserTypeOrganization {
		claims.ApprovalStatus = principal.ApprovalStatus
	}
	return claims
}

func newRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
