package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/school-portal-api/internal/models"
)

// DefaultTokenTTL is the lifetime of an issued session token.
const DefaultTokenTTL = 24 * time.Hour

var (
	// ErrExpiredToken indicates the token is past its expiry.
	ErrExpiredToken = errors.New("token expired")
	// ErrMalformedToken indicates the token signature did not verify.
	ErrMalformedToken = errors.New("token signature invalid")
	// ErrInvalidToken indicates the token could not be parsed or carries unusable claims.
	ErrInvalidToken = errors.New("invalid token")
)

// UserContext is the identity extracted from a verified token.
type UserContext struct {
	UserID uint
	Role   models.Role
}

// Claims are the JWT claims carried by session tokens.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(userID uint, role models.Role) (string, time.Time, error)
}

// TokenVerifier validates session tokens.
type TokenVerifier interface {
	Verify(token string) (UserContext, error)
}

// TokenManager issues and verifies HS256 session tokens.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption customises a TokenManager.
type TokenOption func(*TokenManager)

// WithClock overrides the time source used for issuing and verifying.
func WithClock(now func() time.Time) TokenOption {
	return func(m *TokenManager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithIssuer sets the iss claim.
func WithIssuer(issuer string) TokenOption {
	return func(m *TokenManager) {
		m.issuer = strings.TrimSpace(issuer)
	}
}

// NewTokenManager constructs a token manager. A non-positive ttl falls back to DefaultTokenTTL.
func NewTokenManager(secret string, ttl time.Duration, opts ...TokenOption) (*TokenManager, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("token secret must not be empty")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	manager := &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(manager)
	}

	return manager, nil
}

// TTL returns the configured token lifetime.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token for the given user and role.
func (m *TokenManager) Issue(userID uint, role models.Role) (string, time.Time, error) {
	if userID == 0 {
		return "", time.Time{}, fmt.Errorf("user id is required")
	}
	if !role.Valid() {
		return "", time.Time{}, fmt.Errorf("unsupported role %q", role)
	}

	issuedAt := m.now().UTC()
	expiresAt := issuedAt.Add(m.ttl)
	claims := Claims{
		Role: role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// Verify parses the token and returns the identity it carries.
func (m *TokenManager) Verify(token string) (UserContext, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return UserContext{}, ErrInvalidToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		// checked here rather than with jwt.WithValidMethods, which reports a foreign
		// algorithm as a signature failure
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method %q", t.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return UserContext{}, classifyTokenError(err)
	}
	if !parsed.Valid {
		return UserContext{}, ErrInvalidToken
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return UserContext{}, fmt.Errorf("%w: subject", ErrInvalidToken)
	}

	role, ok := models.ParseRole(claims.Role)
	if !ok {
		return UserContext{}, fmt.Errorf("%w: role", ErrInvalidToken)
	}

	return UserContext{UserID: uint(userID), Role: role}, nil
}

func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrMalformedToken
	default:
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
}
