package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"sales-tracker/internal/domain"
)

func TestIssueAndVerify(t *testing.T) {
	svc := NewTokenService("test-secret")

	token, err := svc.Issue(&domain.User{ID: 42, Username: "alice"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	require.Equal(t, int64(42), claims.UserID)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, domain.RoleEmployee, claims.Role)

	// 7-day expiry, relative to issuance.
	require.WithinDuration(t,
		claims.IssuedAt.Add(TokenTTL),
		claims.ExpiresAt.Time,
		time.Second,
	)
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := NewTokenService("one-secret").Issue(&domain.User{ID: 1, Username: "alice"})
	require.NoError(t, err)

	_, err = NewTokenService("another-secret").Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyExpired(t *testing.T) {
	secret := "test-secret"
	past := time.Now().UTC().Add(-time.Hour)
	claims := Claims{
		UserID:   1,
		Username: "alice",
		Role:     domain.RoleEmployee,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(past.Add(-TokenTTL)),
			ExpiresAt: jwt.NewNumericDate(past),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = NewTokenService(secret).Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyMalformed(t *testing.T) {
	svc := NewTokenService("test-secret")

	for _, token := range []string{"", "garbage", "a.b.c", "eyJhbGciOiJub25lIn0.e30."} {
		_, err := svc.Verify(token)
		require.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}
