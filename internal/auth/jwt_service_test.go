package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestNewJWTServiceRequiresSecret(t *testing.T) {
	_, err := NewJWTService(JWTConfig{})
	require.EqualError(t, err, "jwt: secret must be provided")
}

func TestIssueAndValidate(t *testing.T) {
	current := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return current }

	svc, err := NewJWTService(JWTConfig{
		Secret:         "super-secret",
		Issuer:         "examportal",
		AccessTokenTTL: time.Hour,
		Clock:          now,
	})
	require.NoError(t, err)

	token, err := svc.Issue(TokenInput{Subject: "ops", Name: "Ops team", Role: "ADMIN", Audience: []string{"api"}})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	require.Equal(t, "ops", claims.Subject)
	require.Equal(t, "Ops team", claims.Name)
	require.Equal(t, RoleAdmin, claims.Role)
	require.Equal(t, "examportal", claims.Issuer)
	require.Equal(t, jwt.ClaimStrings{"api"}, claims.Audience)
	require.True(t, claims.IssuedAt.Time.Equal(current))
	require.True(t, claims.ExpiresAt.Time.Equal(current.Add(time.Hour)))
	require.True(t, claims.HasRole(RoleViewer))
}

func TestIssueRejectsBadInput(t *testing.T) {
	svc, err := NewJWTService(JWTConfig{Secret: "secret"})
	require.NoError(t, err)

	_, err = svc.Issue(TokenInput{Role: RoleAdmin})
	require.Error(t, err)

	_, err = svc.Issue(TokenInput{Subject: "ops", Role: "root"})
	require.Error(t, err)
}

func TestIssueHonoursTTLOverride(t *testing.T) {
	current := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc, err := NewJWTService(JWTConfig{Secret: "secret", Clock: func() time.Time { return current }})
	require.NoError(t, err)

	token, err := svc.Issue(TokenInput{Subject: "ci", Role: RoleViewer, TTL: 5 * time.Minute})
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	require.True(t, claims.ExpiresAt.Time.Equal(current.Add(5*time.Minute)))
	require.False(t, claims.HasRole(RoleAdmin))
}

func TestValidateInvalidSignature(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC) }

	issuer, err := NewJWTService(JWTConfig{Secret: "issuer-secret", AccessTokenTTL: time.Minute, Clock: now})
	require.NoError(t, err)
	token, err := issuer.Issue(TokenInput{Subject: "ops", Role: RoleAdmin})
	require.NoError(t, err)

	verifier, err := NewJWTService(JWTConfig{Secret: "other-secret", Clock: now})
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	require.Error(t, err)
	require.True(t, errors.Is(err, jwt.ErrTokenSignatureInvalid))
}

func TestValidateExpired(t *testing.T) {
	current := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc, err := NewJWTService(JWTConfig{Secret: "secret", AccessTokenTTL: time.Minute, Clock: func() time.Time { return current }})
	require.NoError(t, err)

	token, err := svc.Issue(TokenInput{Subject: "ops", Role: RoleAdmin})
	require.NoError(t, err)

	current = current.Add(2 * time.Minute)
	_, err = svc.Validate(token)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidateIssuerMismatch(t *testing.T) {
	issuer, err := NewJWTService(JWTConfig{Secret: "secret", Issuer: "elsewhere"})
	require.NoError(t, err)
	token, err := issuer.Issue(TokenInput{Subject: "ops", Role: RoleAdmin})
	require.NoError(t, err)

	verifier, err := NewJWTService(JWTConfig{Secret: "secret", Issuer: "examportal"})
	require.NoError(t, err)
	_, err = verifier.Validate(token)
	require.EqualError(t, err, "jwt: invalid issuer")

	_, err = verifier.Validate("")
	require.Error(t, err)
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole(" Viewer ")
	require.NoError(t, err)
	require.Equal(t, RoleViewer, role)

	_, err = ParseRole("")
	require.Error(t, err)
}
