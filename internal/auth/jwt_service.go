package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessTokenTTL defines the fallback validity period for access tokens.
const DefaultAccessTokenTTL = time.Hour

// Role is the access level carried by a token.
type Role string

const (
	// RoleAdmin may modify menus.
	RoleAdmin Role = "admin"
	// RoleViewer may only read.
	RoleViewer Role = "viewer"
)

// ParseRole validates a role name.
func ParseRole(value string) (Role, error) {
	switch role := Role(strings.ToLower(strings.TrimSpace(value))); role {
	case RoleAdmin, RoleViewer:
		return role, nil
	default:
		return "", fmt.Errorf("jwt: unknown role %q", value)
	}
}

// JWTConfig bundles the configuration required to build a JWTService.
type JWTConfig struct {
	Secret         string
	Issuer         string
	AccessTokenTTL time.Duration
	Clock          func() time.Time
}

// Claims represents the custom claims embedded in issued JWTs.
type Claims struct {
	Role Role   `json:"role"`
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// HasRole reports whether the claims grant role. Admins hold every role.
func (c *Claims) HasRole(role Role) bool {
	if c == nil {
		return false
	}
	return c.Role == role || c.Role == RoleAdmin
}

// TokenInput holds the parameters used when issuing a token.
type TokenInput struct {
	Subject  string
	Name     string
	Role     Role
	Audience []string
	// TTL overrides the service default when positive.
	TTL time.Duration
}

// JWTService issues and validates HS256 access tokens.
type JWTService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTService constructs a JWTService instance when provided with the required configuration.
func NewJWTService(cfg JWTConfig) (*JWTService, error) {
	if cfg.Secret == "" {
		return nil, errors.New("jwt: secret must be provided")
	}

	ttl := cfg.AccessTokenTTL
	if ttl <= 0 {
		ttl = DefaultAccessTokenTTL
	}

	now := time.Now
	if cfg.Clock != nil {
		now = cfg.Clock
	}

	return &JWTService{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    ttl,
		now:    now,
	}, nil
}

// Issue signs a token for the subject with the requested role.
func (s *JWTService) Issue(input TokenInput) (string, error) {
	subject := strings.TrimSpace(input.Subject)
	if subject == "" {
		return "", errors.New("jwt: subject is required")
	}
	role, err := ParseRole(string(input.Role))
	if err != nil {
		return "", err
	}

	ttl := s.ttl
	if input.TTL > 0 {
		ttl = input.TTL
	}

	now := s.now()
	claims := &Claims{
		Role: role,
		Name: strings.TrimSpace(input.Name),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			Audience:  input.Audience,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}
	return signed, nil
}

// Validate parses and validates a signed token, returning its claims.
func (s *JWTService) Validate(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.New("jwt: token string is empty")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)

	var claims Claims
	_, err := parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("jwt: parse token: %w", err)
	}

	if s.issuer != "" && claims.Issuer != s.issuer {
		return nil, errors.New("jwt: invalid issuer")
	}
	if claims.Subject == "" {
		return nil, errors.New("jwt: missing subject claim")
	}
	if _, err := ParseRole(string(claims.Role)); err != nil {
		return nil, err
	}

	return &claims, nil
}
