package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultIssuer = "aegis"

// Claims is the decoded payload of a bearer token. Claims are derived state:
// they are reconstructed on every decode and never persisted.
type Claims struct {
	UserType       string `json:"user_type"`
	Role           string `json:"role,omitempty"`
	SessionID      string `json:"session_id"`
	Verified       bool   `json:"verified"`
	ApprovalStatus string `json:"approval_status,omitempty"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies compact bearer tokens over a shared secret
// using HS256.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewTokenCodec constructs a codec. ttlDays is the access token lifetime in
// days, matching the platform's cookie max-age.
func NewTokenCodec(secret string, ttlDays int) (*TokenCodec, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("token secret is required")
	}
	if ttlDays <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	return &TokenCodec{
		secret: []byte(secret),
		ttl:    time.Duration(ttlDays) * 24 * time.Hour,
		issuer: defaultIssuer,
		now:    time.Now,
	}, nil
}

// TTL returns the configured access token lifetime.
func (c *TokenCodec) TTL() time.Duration { return c.ttl }

// Encode signs claims for the given principal and session. Issued-at and
// expiry are stamped here; any values already present are overwritten.
func (c *TokenCodec) Encode(claims *Claims) (string, error) {
	if strings.TrimSpace(claims.Subject) == "" {
		return "", errors.New("subject is required")
	}
	if strings.TrimSpace(claims.SessionID) == "" {
		return "", errors.New("session id is required")
	}
	now := c.now().UTC()
	claims.Issuer = c.issuer
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(c.ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Decode verifies signature and expiry and returns the claims. Signature
// failure short-circuits before any claim is trusted; the library validates
// the signature before claim validation runs.
func (c *TokenCodec) Decode(raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrTokenMalformed
	}
	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, ErrTokenInvalid
		}
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	if strings.TrimSpace(claims.Subject) == "" || strings.TrimSpace(claims.SessionID) == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
