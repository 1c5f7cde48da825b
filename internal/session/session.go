// Package session turns bearer tokens into a narrow session capability:
// who is calling, whether they hold the corporate role, and the raw token
// for forwarding to the backend.
package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"recruitment-intake/internal/common/config"
	"recruitment-intake/internal/common/errors"
)

// RoleCorporate gates the recruiter-only surfaces (stage sheet, job
// posting).
const RoleCorporate = "corporate"

// Claims are the token claims this service understands.
type Claims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Session is an authenticated caller.
type Session struct {
	UserID string
	Name   string
	Role   string
	token  string
}

// Corporate reports whether the session holds the corporate role.
func (s *Session) Corporate() bool {
	return s != nil && s.Role == RoleCorporate
}

// Token returns the raw bearer token for forwarding to the backend.
func (s *Session) Token() string {
	if s == nil {
		return ""
	}
	return s.token
}

// Service validates bearer tokens.
type Service struct {
	secret []byte
	issuer string
}

// NewService creates a session service from config.
func NewService(cfg config.SessionConfig) *Service {
	return &Service{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
	}
}

// Parse validates a bearer token and returns the session it carries.
func (s *Service) Parse(tokenString string) (*Session, error) {
	if tokenString == "" {
		return nil, errors.NewSessionRequiredError()
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, errors.NewSessionInvalidError(err.Error())
	}
	if !token.Valid {
		return nil, errors.NewSessionInvalidError("token is not valid")
	}

	if s.issuer != "" && claims.Issuer != s.issuer {
		return nil, errors.NewSessionInvalidError(fmt.Sprintf("unexpected issuer: %s", claims.Issuer))
	}

	return &Session{
		UserID: claims.Subject,
		Name:   claims.Name,
		Role:   claims.Role,
		token:  tokenString,
	}, nil
}

// FromAuthorization parses an Authorization header value. An absent header
// yields an unauthenticated (nil) session without error; a malformed or
// invalid one is an error.
func (s *Service) FromAuthorization(header string) (*Session, error) {
	if header == "" {
		return nil, nil
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return nil, errors.NewSessionInvalidError("authorization header is not a bearer token")
	}
	return s.Parse(strings.TrimSpace(token))
}

// Issue signs a session token. Used by tests and local tooling; production
// tokens come from the identity provider.
func (s *Service) Issue(userID, name, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Name: name,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
