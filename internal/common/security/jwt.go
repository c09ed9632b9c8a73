package security

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"showcase/internal/common"
	"showcase/internal/domain/model"
)

// DefaultTokenTTL is how long an issued session token stays valid.
const DefaultTokenTTL = 7 * 24 * time.Hour

// TokenService issues and verifies HS256 session tokens carrying a user id and username.
// Tokens are stateless; there is no revocation list.
type TokenService struct {
	auth *jwtauth.JWTAuth
	ttl  time.Duration
	now  func() time.Time
}

type TokenOption func(*TokenService)

// WithClock replaces time.Now for issuing. Verification always uses the wall clock.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

func NewTokenService(secret []byte, ttl time.Duration, opts ...TokenOption) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	s := &TokenService{
		auth: jwtauth.New("HS256", secret, nil),
		ttl:  ttl,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Auth exposes the underlying JWTAuth for jwtauth.Verify.
func (s *TokenService) Auth() *jwtauth.JWTAuth {
	return s.auth
}

func (s *TokenService) Issue(userID int64, username string) (string, error) {
	issuedAt := s.now()
	claims := jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"iat":      issuedAt.Unix(),
		"exp":      issuedAt.Add(s.ttl).Unix(),
		"jti":      uuid.NewString(),
	}
	_, tokenString, err := s.auth.Encode(claims)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tokenString, nil
}

// Verify checks the signature and expiry of tokenString and returns the identity it carries.
func (s *TokenService) Verify(tokenString string) (model.Identity, error) {
	token, err := jwtauth.VerifyToken(s.auth, tokenString)
	if err != nil {
		if errors.Is(err, jwtauth.ErrExpired) {
			return model.Identity{}, common.ErrTokenExpired
		}
		return model.Identity{}, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	claims, err := token.AsMap(context.Background())
	if err != nil {
		return model.Identity{}, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	return IdentityFromClaims(claims)
}

// IdentityFromClaims reads user_id and username from decoded token claims.
func IdentityFromClaims(claims map[string]interface{}) (model.Identity, error) {
	id, err := int64Claim(claims["user_id"])
	if err != nil {
		return model.Identity{}, fmt.Errorf("%w: user_id claim: %v", common.ErrInvalidToken, err)
	}
	username, ok := claims["username"].(string)
	if !ok || username == "" {
		return model.Identity{}, fmt.Errorf("%w: username claim is missing or not a string", common.ErrInvalidToken)
	}
	return model.Identity{UserID: id, Username: username}, nil
}

func int64Claim(v interface{}) (int64, error) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) || n <= 0 {
			return 0, fmt.Errorf("not a positive integer: %v", n)
		}
		return int64(n), nil
	case json.Number:
		return n.Int64()
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case nil:
		return 0, errors.New("missing")
	}
	return 0, fmt.Errorf("unexpected type %T", v)
}
