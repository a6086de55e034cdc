package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"sales-tracker/internal/domain"
)

// TokenTTL is how long issued session tokens remain valid. There is no
// refresh or revocation; clients log in again after expiry.
const TokenTTL = 7 * 24 * time.Hour

var (
	// ErrMissingToken indicates the request carried no bearer token at all.
	ErrMissingToken = errors.New("access token required")
	// ErrInvalidToken covers every other verification failure: bad signature,
	// expired, malformed. Verification is all-or-nothing.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims are the identity fields embedded in a session token.
type Claims struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService mints and verifies stateless HS256 session tokens. The signing
// secret is established once at startup and read-only afterwards.
type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Issue signs a token for the user, valid for TokenTTL from now.
func (s *TokenService) Issue(user *domain.User) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     domain.RoleEmployee,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses and validates a token string, returning its claims. Any
// failure collapses to ErrInvalidToken so callers cannot act on a partially
// trusted claim set.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
