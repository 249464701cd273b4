package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token expired")
)

// Claims is the claim set carried by every issued token: the registered
// claims (sub=email, exp, jti) plus the numeric user id.
type Claims struct {
	jwt.RegisteredClaims
	UserID uint `json:"user_id"`
}

// Identity is the verified result every protected handler scopes its
// queries by. It is never re-derived from request parameters.
type Identity struct {
	Email  string
	UserID uint
}

// TokenService issues, verifies and revokes bearer tokens. The secret, TTL
// and revocation list are fixed at construction; the revocation list is the
// only shared mutable state.
type TokenService struct {
	secret  []byte
	ttl     time.Duration
	revoked *RevocationList
	now     func() time.Time
}

func NewTokenService(secret []byte, ttl time.Duration, revoked *RevocationList) *TokenService {
	return &TokenService{
		secret:  secret,
		ttl:     ttl,
		revoked: revoked,
		now:     time.Now,
	}
}

// Issue signs a token identifying the subject, expiring ttl from now.
// Nothing is stored server side; the token is the session.
func (s *TokenService) Issue(email string, userID uint) (string, error) {
	if email == "" || userID == 0 {
		return "", ErrInvalidCredentials
	}

	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
		UserID: userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify resolves a raw bearer token into an Identity. Checks run in order:
// revocation membership, signature, expiry, claim completeness. A revoked
// token is ErrInvalidToken for as long as its entry is held; once the entry
// is pruned the token is past expiry anyway and fails as ErrExpiredToken.
func (s *TokenService) Verify(raw string) (Identity, error) {
	if s.revoked.Contains(raw) {
		return Identity{}, ErrInvalidToken
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrExpiredToken
		}
		return Identity{}, ErrInvalidToken
	}
	if !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	if claims.Subject == "" || claims.UserID == 0 {
		return Identity{}, ErrInvalidToken
	}

	return Identity{Email: claims.Subject, UserID: claims.UserID}, nil
}

// Revoke adds the serialized token to the revocation list. Idempotent; a
// second revocation of the same token is a no-op. The token's own expiry
// bounds how long the entry is kept.
func (s *TokenService) Revoke(raw string) {
	exp := s.now().Add(s.ttl)
	var claims Claims
	// Claims are decoded before validation runs, so the expiry is usable
	// even when the token is already expired.
	_, _ = jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	s.revoked.Add(raw, exp)
}
